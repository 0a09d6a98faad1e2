package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRegistration = errors.New("invalid registration input")
)

// Auth issues the opaque, pre-validated identity the order engine consumes.
// Token minting stays at the transport layer; this use case owns credentials.
type Auth struct {
	users UserRepo
}

func NewAuth(users UserRepo) *Auth {
	return &Auth{users: users}
}

func (a *Auth) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || len(password) < 6 {
		return nil, fmt.Errorf("%w: name, email and a password of 6+ characters are required", ErrInvalidRegistration)
	}
	if existing, err := a.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, upstream(err)
	}
	return user, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
