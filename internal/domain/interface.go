// internal/domain/interface.go
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	UpdateLastUsed(ctx context.Context, sessionID string) error

	BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)

	StoreTemporaryAuth(ctx context.Context, authCode, authData string, expiration time.Duration) error
	GetTemporaryAuth(ctx context.Context, authCode string) (string, error)
}

// JobApplicationRepository scopes every read and write to the owning user.
type JobApplicationRepository interface {
	Create(ctx context.Context, job *JobApplication) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*JobApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*JobApplication, error)
	Update(ctx context.Context, job *JobApplication) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type MilestoneRepository interface {
	Create(ctx context.Context, m *TimelineMilestone) error
	GetForUser(ctx context.Context, userID string, id uuid.UUID) (*TimelineMilestone, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*TimelineMilestone, error)
	ListByUser(ctx context.Context, userID string) ([]*TimelineMilestone, error)
	Update(ctx context.Context, m *TimelineMilestone) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResumeRepository interface {
	Create(ctx context.Context, resume *Resume) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resume, error)
	List(ctx context.Context, userID string, all bool) ([]*Resume, error)
	Update(ctx context.Context, resume *Resume) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionRepository is implemented once generically for every section type.
type SectionRepository[P Section] interface {
	List(ctx context.Context, resumeID uuid.UUID) ([]P, error)
	Get(ctx context.Context, resumeID, id uuid.UUID) (P, error)
	Create(ctx context.Context, section P) error
	Update(ctx context.Context, section P) error
	Delete(ctx context.Context, resumeID, id uuid.UUID) error
}

// SectionRepositories bundles the repository of every resume section.
type SectionRepositories struct {
	WorkExperiences SectionRepository[*WorkExperience]
	Skills          SectionRepository[*Skill]
	Educations      SectionRepository[*Education]
	Certificates    SectionRepository[*Certificate]
	Projects        SectionRepository[*Project]
	SocialLinks     SectionRepository[*SocialLink]
	Languages       SectionRepository[*Language]
	Awards          SectionRepository[*Award]
	References      SectionRepository[*Reference]
}

type ThemeRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*ThemePreference, error)
	Save(ctx context.Context, userID uuid.UUID, pref *ThemePreference) error
}

type OAuthService interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error)
}

type AuthenticationService interface {
	// OAuth flow
	InitiateGoogleAuth(state string) string
	CompleteGoogleAuth(ctx context.Context, code, userAgent, ipAddress string) (*AuthResult, error)

	// Token management
	GenerateTokenPair(ctx context.Context, user *User, userAgent, ipAddress string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*AuthInfo, error)
	RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error)
	Me(ctx context.Context, tokenString string) (*MeResponse, error)

	// Session management
	Logout(ctx context.Context, tokenString string) error
	RevokeSession(ctx context.Context, sessionID string) error
	GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error

	// Temporary auth codes for frontend callback
	StoreTemporaryAuth(ctx context.Context, authCode string, authResult *AuthResult, expiration time.Duration) error
	ExchangeAuthCode(ctx context.Context, authCode string) (*AuthResult, error)
}
