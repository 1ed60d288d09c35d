package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"coreapi/internal/config"
	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/rs/zerolog/log"
)

const authPath = "/api/auth"

// DefaultPollInterval is how often the session and theme are re-checked.
const DefaultPollInterval = time.Second

func (c *Client) Me(ctx context.Context) (*domain.MeResponse, error) {
	var out domain.MeResponse
	if err := c.do(ctx, http.MethodGet, authPath+"/me", nil, nil, &out, "Failed to load session"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExchangeAuthCode trades the one-time code from the sign-in redirect for
// a token pair and caches the access token.
func (c *Client) ExchangeAuthCode(ctx context.Context, code string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	req := dto.ExchangeCodeRequest{Code: code}
	if err := c.do(ctx, http.MethodPost, authPath+"/exchange-code", nil, req, &out, "Failed to exchange auth code"); err != nil {
		return nil, err
	}
	if out.Tokens != nil && c.TokenStore != nil {
		c.TokenStore.SetToken(out.Tokens.AccessToken)
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, authPath+"/logout", nil, nil, nil, "Failed to sign out")
}

// AuthState is what AuthWatcher publishes whenever the session changes.
type AuthState struct {
	Authenticated bool
	User          *domain.User
}

func (s AuthState) same(o AuthState) bool {
	if s.Authenticated != o.Authenticated {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return s.User.ID == o.User.ID
}

// AuthWatcher polls Me on a fixed interval, caches the echoed token and
// publishes session changes.
type AuthWatcher struct {
	client      *Client
	identityURL string
	interval    time.Duration

	mu      sync.RWMutex
	state   AuthState
	checked bool
	updates chan AuthState
}

func NewAuthWatcher(c *Client, identityURL string, interval time.Duration) *AuthWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &AuthWatcher{
		client:      c,
		identityURL: identityURL,
		interval:    interval,
		updates:     make(chan AuthState, 1),
	}
}

// Updates delivers the latest state change. Only the newest pending state
// is kept when the reader falls behind.
func (w *AuthWatcher) Updates() <-chan AuthState { return w.updates }

func (w *AuthWatcher) State() AuthState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Run checks immediately and then on every tick until ctx ends.
func (w *AuthWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check runs one poll. A 401 signs the watcher out and clears the token;
// other failures leave the state untouched.
func (w *AuthWatcher) Check(ctx context.Context) AuthState {
	me, err := w.client.Me(ctx)
	switch {
	case err == nil:
		if me.Token != "" && w.client.TokenStore != nil {
			w.client.TokenStore.SetToken(me.Token)
		}
		w.publish(AuthState{Authenticated: true, User: me.User})
	case IsUnauthorized(err):
		if w.client.TokenStore != nil {
			w.client.TokenStore.Clear()
		}
		w.publish(AuthState{})
	default:
		log.Debug().Err(err).Msg("session check failed")
	}
	return w.State()
}

func (w *AuthWatcher) publish(next AuthState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := !w.checked || !w.state.same(next)
	w.state = next
	w.checked = true
	if !changed {
		return
	}

	// senders hold mu, so after the drain the buffered send cannot block
	select {
	case <-w.updates:
	default:
	}
	w.updates <- next
}

func (w *AuthWatcher) SignInURL(returnURL string) string {
	return config.PortalURL(w.identityURL, "/login", returnURL)
}

func (w *AuthWatcher) SignOutURL(returnURL string) string {
	return config.PortalURL(w.identityURL, "/logout", returnURL)
}

// SignOut revokes the session server side. The local token is dropped
// even when the call fails.
func (w *AuthWatcher) SignOut(ctx context.Context) error {
	err := w.client.Logout(ctx)
	if w.client.TokenStore != nil {
		w.client.TokenStore.Clear()
	}
	w.publish(AuthState{})
	return err
}
