package auth

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/suppcart/storefront/internal/localstore"
	pkgauth "github.com/suppcart/storefront/pkg/auth"
	"github.com/suppcart/storefront/pkg/config"
	"github.com/suppcart/storefront/pkg/security"
)

// User is the signed-in customer. At most one exists at a time.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

// Result is the uniform outcome every auth operation returns. The view
// layer renders Message directly, so operations never surface raw errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
	AcceptMarketing bool
}

type session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	verificationSentinel = "test-verification-token"
	minPasswordLen       = 6
)

// Service simulates an authentication backend against one fixed demo
// credential. Registration never creates a retrievable account; the whole
// flow is a client-side stand-in for a real identity provider.
type Service struct {
	mu       sync.Mutex
	persist  *localstore.Store
	cfg      config.AuthConfig
	jwtCfg   config.JWTConfig
	demoHash string
	session  *session
	now      func() time.Time
}

// NewService hashes the demo credential and returns a ready service.
func NewService(persist *localstore.Store, cfg config.AuthConfig, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (*Service, error) {
	if persist == nil {
		return nil, fmt.Errorf("persistence store required")
	}
	hash, err := security.HashPassword(cfg.DemoPassword, pwCfg)
	if err != nil {
		return nil, fmt.Errorf("hashing demo credential: %w", err)
	}
	return &Service{
		persist:  persist,
		cfg:      cfg,
		jwtCfg:   jwtCfg,
		demoHash: hash,
		now:      time.Now,
	}, nil
}

// Rehydrate loads a persisted session, if any. Called once at startup.
func (s *Service) Rehydrate(ctx context.Context) error {
	var sess session
	found, err := s.persist.Get(ctx, localstore.KeySession, &sess)
	if err != nil {
		// A corrupt session blob is dropped rather than blocking startup.
		_ = s.persist.Delete(ctx, localstore.KeySession)
		return fmt.Errorf("rehydrating session: %w", err)
	}
	if !found {
		return nil
	}
	s.mu.Lock()
	s.session = &sess
	s.mu.Unlock()
	return nil
}

// Login validates the credentials against the demo account. Success
// stores the user and a minted session token.
func (s *Service) Login(ctx context.Context, email, password string) Result {
	if err := s.simulateRemote(ctx); err != nil {
		return Result{Success: false, Message: "login was interrupted, please try again"}
	}

	if email != s.cfg.DemoEmail {
		return Result{Success: false, Message: "invalid email or password"}
	}
	ok, err := security.VerifyPassword(password, s.demoHash)
	if err != nil || !ok {
		return Result{Success: false, Message: "invalid email or password"}
	}

	user := User{
		ID:              "1",
		Email:           s.cfg.DemoEmail,
		FirstName:       "Test",
		LastName:        "User",
		Phone:           "+90 555 123 4567",
		IsEmailVerified: true,
	}
	token, err := pkgauth.MintSessionToken(s.jwtCfg, s.now(), user.ID, user.Email)
	if err != nil {
		return Result{Success: false, Message: "something went wrong, please try again"}
	}

	sess := session{User: user, Token: token}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.Put(ctx, localstore.KeySession, sess); err != nil {
		return Result{Success: false, Message: "something went wrong, please try again"}
	}
	s.session = &sess
	return Result{Success: true, Message: "login successful"}
}

// Register runs the local form checks before any simulated remote work.
// No account is persisted; the caller is told to verify their email.
func (s *Service) Register(ctx context.Context, input RegisterInput) Result {
	if input.Password != input.ConfirmPassword {
		return Result{Success: false, Message: "passwords do not match"}
	}
	if !emailPattern.MatchString(input.Email) {
		return Result{Success: false, Message: "enter a valid email address"}
	}
	if len(input.Password) < minPasswordLen {
		return Result{Success: false, Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen)}
	}
	if !input.AcceptTerms {
		return Result{Success: false, Message: "you must accept the terms of service"}
	}

	if err := s.simulateRemote(ctx); err != nil {
		return Result{Success: false, Message: "registration was interrupted, please try again"}
	}

	return Result{Success: true, Message: "registration successful, a verification code was sent to your email"}
}

// Logout clears the stored user and token.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return s.persist.Delete(ctx, localstore.KeySession)
}

// VerifyEmail accepts the sentinel token or any token longer than ten
// characters and marks the current user verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) Result {
	if err := s.simulateRemote(ctx); err != nil {
		return Result{Success: false, Message: "verification was interrupted, please try again"}
	}

	if token != verificationSentinel && len(token) <= 10 {
		return Result{Success: false, Message: "invalid verification code"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.User.IsEmailVerified = true
		if err := s.persist.Put(ctx, localstore.KeySession, *s.session); err != nil {
			return Result{Success: false, Message: "something went wrong, please try again"}
		}
	}
	return Result{Success: true, Message: "your email address has been verified"}
}

// SendVerificationEmail simulates dispatching a verification code.
func (s *Service) SendVerificationEmail(ctx context.Context, email string) Result {
	if err := s.simulateRemote(ctx); err != nil {
		return Result{Success: false, Message: "sending was interrupted, please try again"}
	}
	return Result{Success: true, Message: "a verification code was sent to your email"}
}

// Current returns the signed-in user, if any.
func (s *Service) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return User{}, false
	}
	return s.session.User, true
}

// Token returns the opaque session token for the signed-in user.
func (s *Service) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", false
	}
	return s.session.Token, true
}

// simulateRemote stands in for the latency of a real backend call.
func (s *Service) simulateRemote(ctx context.Context) error {
	if s.cfg.SimDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.SimDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
