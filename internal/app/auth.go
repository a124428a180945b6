package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

const (
	minPasswordLen = 8
	defaultRole    = "admin"
)

type AuthService struct {
	store      domain.AuthStore
	sessions   domain.SessionStore
	sessionTTL time.Duration
}

func NewAuthService(store domain.AuthStore, sessions domain.SessionStore, ttl time.Duration) *AuthService {
	return &AuthService{store: store, sessions: sessions, sessionTTL: ttl}
}

// Login verifies credentials, requires an admin record for the identity,
// and only then issues a session. An identity without an admin record is
// reported as access denied and never holds a live session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Admin, domain.Session, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Admin{}, domain.Session{}, domain.ErrInvalidCredentials
		}
		return domain.Admin{}, domain.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.Admin{}, domain.Session{}, domain.ErrInvalidCredentials
	}

	adm, err := s.store.GetAdminByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Admin{}, domain.Session{}, domain.ErrNotAdmin
		}
		return domain.Admin{}, domain.Session{}, err
	}

	sess := domain.Session{
		Token:    newToken(),
		UserID:   u.ID,
		Email:    u.Email,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess, s.sessionTTL); err != nil {
		return domain.Admin{}, domain.Session{}, err
	}
	return adm, sess, nil
}

// Register validates the password policy locally, then creates the
// identity and its admin record in a single store operation.
func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (domain.Admin, error) {
	if password != confirm {
		return domain.Admin{}, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return domain.Admin{}, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, err
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	adm := domain.Admin{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Email:  email,
		Role:   defaultRole,
	}
	if err := s.store.RegisterAdmin(ctx, u, adm); err != nil {
		return domain.Admin{}, err
	}
	return adm, nil
}

// RequireAdmin re-derives the admin record for a session token. A live
// session whose identity lost (or never had) an admin record is revoked
// on the spot before access denied is reported.
func (s *AuthService) RequireAdmin(ctx context.Context, token string) (domain.Admin, error) {
	sess, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Admin{}, err
	}
	if !ok {
		return domain.Admin{}, domain.ErrNoSession
	}

	adm, err := s.store.GetAdminByUserID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.sessions.Del(ctx, token)
			return domain.Admin{}, domain.ErrNotAdmin
		}
		return domain.Admin{}, err
	}
	return adm, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Del(ctx, token)
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return hex.EncodeToString(b)
}
