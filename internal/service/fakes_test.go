package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.GoogleID == googleID })
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

type memSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	blacklist map[string]time.Time
	temp      map[string]string
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{
		sessions:  map[string]*domain.Session{},
		blacklist: map[string]time.Time{},
		temp:      map[string]string{},
	}
}

func (r *memSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSessionRepo) GetByRefreshToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memSessionRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Session{}
	for _, s := range r.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSessionRepo) Update(ctx context.Context, s *domain.Session) error { return r.Create(ctx, s) }

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *memSessionRepo) UpdateLastUsed(context.Context, string) error { return nil }

func (r *memSessionRepo) BlacklistToken(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blacklist[jti] = expiresAt
	return nil
}

func (r *memSessionRepo) IsTokenBlacklisted(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blacklist[jti]
	return ok, nil
}

func (r *memSessionRepo) StoreTemporaryAuth(_ context.Context, code, data string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temp[code] = data
	return nil
}

func (r *memSessionRepo) GetTemporaryAuth(_ context.Context, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.temp[code]
	if !ok {
		return "", domain.ErrNotFound
	}
	delete(r.temp, code)
	return data, nil
}

type fakeOAuth struct {
	info *domain.GoogleUserInfo
}

func (f *fakeOAuth) GetAuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuth) ExchangeCode(_ context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "google-" + code}, nil
}

func (f *fakeOAuth) GetUserInfo(context.Context, *oauth2.Token) (*domain.GoogleUserInfo, error) {
	return f.info, nil
}

type memResumeRepo struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*domain.Resume
}

func newMemResumeRepo(resumes ...*domain.Resume) *memResumeRepo {
	r := &memResumeRepo{resumes: map[uuid.UUID]*domain.Resume{}}
	for _, res := range resumes {
		r.resumes[res.ID] = res
	}
	return r
}

func (r *memResumeRepo) Create(_ context.Context, res *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[res.ID] = res
	return nil
}

func (r *memResumeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.resumes[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memResumeRepo) List(_ context.Context, userID string, all bool) ([]*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Resume{}
	for _, res := range r.resumes {
		if all || res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResumeRepo) Update(_ context.Context, res *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[res.ID] = res
	return nil
}

func (r *memResumeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resumes, id)
	return nil
}

// memSectionRepo stores any section kind keyed by id.
type memSectionRepo[P domain.Section] struct {
	mu    sync.Mutex
	items map[uuid.UUID]P
	order []uuid.UUID
}

func newMemSectionRepo[P domain.Section]() *memSectionRepo[P] {
	return &memSectionRepo[P]{items: map[uuid.UUID]P{}}
}

func (r *memSectionRepo[P]) List(_ context.Context, resumeID uuid.UUID) ([]P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []P{}
	for _, id := range r.order {
		if item, ok := r.items[id]; ok && item.Base().ResumeID == resumeID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSectionRepo[P]) Get(_ context.Context, resumeID, id uuid.UUID) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Base().ResumeID != resumeID {
		var zero P
		return zero, domain.ErrNotFound
	}
	return item, nil
}

func (r *memSectionRepo[P]) Create(_ context.Context, section P) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := section.Base().ID
	r.items[id] = section
	r.order = append(r.order, id)
	return nil
}

func (r *memSectionRepo[P]) Update(_ context.Context, section P) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[section.Base().ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[section.Base().ID] = section
	return nil
}

func (r *memSectionRepo[P]) Delete(_ context.Context, resumeID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Base().ResumeID != resumeID {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
