package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/coreybb/tasknest/datastore"
	"github.com/coreybb/tasknest/models"
)

var (
	ErrInvalidInput       = errors.New("email and password required")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// Session is returned by signup and signin.
type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

type Service struct {
	users      UserStore
	tokens     *TokenIssuer
	bcryptCost int
	now        func() time.Time

	// dummyHash keeps unknown-email sign-ins as slow as wrong-password ones.
	dummyHash []byte
}

func NewService(users UserStore, tokens *TokenIssuer, bcryptCost int) (*Service, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("tasknest-timing-guard"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare timing guard hash: %w", err)
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
	}, nil
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return Session{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Session{}, fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidInput)
		}
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		CreatedAt:    s.now().UTC(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, datastore.ErrDuplicateEmail) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.issueSession(user.Public())
}

// Authenticate checks the email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issueSession(user.Public())
}

// VerifyCredential returns the identity embedded in a bearer credential.
func (s *Service) VerifyCredential(token string) (Identity, error) {
	return s.tokens.Verify(token)
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *Service) issueSession(user models.PublicUser) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
