package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/rs/zerolog/log"
)

const themePath = "/api/theme"

func (c *Client) GetTheme(ctx context.Context) (domain.ThemeMode, error) {
	var out dto.ThemeResponse
	if err := c.do(ctx, http.MethodGet, themePath, nil, nil, &out, "Failed to fetch theme"); err != nil {
		return "", err
	}
	return out.Mode, nil
}

func (c *Client) SetTheme(ctx context.Context, mode domain.ThemeMode) (domain.ThemeMode, error) {
	var out dto.ThemeResponse
	req := dto.ThemeRequest{Mode: string(mode)}
	if err := c.do(ctx, http.MethodPut, themePath, nil, req, &out, "Failed to save theme"); err != nil {
		return "", err
	}
	return out.Mode, nil
}

// ThemeSync keeps a local theme value in step with the shared one. On each
// tick or Nudge a local change since the last sync is pushed; otherwise
// the shared value is pulled. The last writer wins.
type ThemeSync struct {
	client   *Client
	interval time.Duration
	nudge    chan struct{}

	mu       sync.Mutex
	local    domain.ThemeMode
	synced   domain.ThemeMode
	onChange func(domain.ThemeMode)
}

func NewThemeSync(c *Client, initial domain.ThemeMode, interval time.Duration) *ThemeSync {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if initial == "" {
		initial = domain.ThemeAuto
	}
	return &ThemeSync{
		client:   c,
		interval: interval,
		nudge:    make(chan struct{}, 1),
		local:    initial,
		synced:   initial,
	}
}

// OnChange registers a callback run when a pull changes the local value.
func (s *ThemeSync) OnChange(fn func(domain.ThemeMode)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *ThemeSync) Local() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// SetLocal records a local change; the next sync pushes it.
func (s *ThemeSync) SetLocal(mode domain.ThemeMode) {
	s.mu.Lock()
	s.local = mode
	s.mu.Unlock()
}

// Nudge asks Run for an immediate sync.
func (s *ThemeSync) Nudge() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *ThemeSync) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-s.nudge:
		}
		if err := s.Sync(ctx); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("theme sync failed")
		}
	}
}

// Sync performs one push or pull.
func (s *ThemeSync) Sync(ctx context.Context) error {
	s.mu.Lock()
	local, synced := s.local, s.synced
	s.mu.Unlock()

	if local != synced {
		saved, err := s.client.SetTheme(ctx, local)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.synced = saved
		s.mu.Unlock()
		return nil
	}

	shared, err := s.client.GetTheme(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	// a SetLocal during the request wins over the pulled value
	if s.local != local {
		s.mu.Unlock()
		return nil
	}
	changed := shared != s.local
	s.local, s.synced = shared, shared
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn(shared)
	}
	return nil
}
