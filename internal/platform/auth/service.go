package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ResetMailer delivers the password reset link to the account's email.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// Service implements sign-up, sign-in, and password reset over a UserRepository.
type Service struct {
	users    UserRepository
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
	mailer   ResetMailer
	baseURL  string
}

func NewService(users UserRepository, secret []byte, tokenTTL time.Duration, mailer ResetMailer, baseURL string) *Service {
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		resetTTL: time.Hour,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// Session is the result of a successful sign-in or sign-up.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("nome e e-mail são obrigatórios")
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// RequestPasswordReset issues a reset token and mails the link. Unknown
// emails return nil so the endpoint never leaks account existence.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	reset := &PasswordReset{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.users.CreateReset(ctx, reset); err != nil {
		return err
	}

	if s.mailer != nil {
		link := fmt.Sprintf("%s/redefinir-senha?token=%s", s.baseURL, token)
		return s.mailer.SendPasswordReset(ctx, u.Email, link)
	}
	return nil
}

// ResetPassword consumes a valid reset token and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	reset, err := s.users.GetReset(ctx, token)
	if err != nil {
		return ErrUserNotFound
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return fmt.Errorf("token de redefinição expirado")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return err
	}
	return s.users.ConsumeReset(ctx, token)
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := BuildJWT(s.secret, u.ID.String(), u.Email, u.Name, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenTTL),
		User:      u,
	}, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
