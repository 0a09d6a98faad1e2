package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func TestRegisterThenLogin(t *testing.T) {
	auth := NewAuth(newMemUserRepo())

	user, err := auth.Register(context.Background(), "Ana", "ana@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Errorf("new user role = %q, want %q", user.Role, domain.RoleClient)
	}
	if user.PasswordHash == "s3cret!" {
		t.Error("password stored in the clear")
	}

	got, err := auth.Login(context.Background(), "ana@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("login returned user %q, want %q", got.ID, user.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := NewAuth(newMemUserRepo())
	if _, err := auth.Register(context.Background(), "Ana", "ana@example.com", "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(context.Background(), "ana@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}
	if _, err := auth.Login(context.Background(), "nobody@example.com", "s3cret!"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := NewAuth(newMemUserRepo())
	if _, err := auth.Register(context.Background(), "Ana", "ana@example.com", "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Register(context.Background(), "Impostor", "ana@example.com", "0th3rpw"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	auth := NewAuth(newMemUserRepo())

	cases := []struct{ name, email, password string }{
		{"", "ana@example.com", "s3cret!"},
		{"Ana", "", "s3cret!"},
		{"Ana", "ana@example.com", "short"},
	}
	for _, tc := range cases {
		if _, err := auth.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, ErrInvalidRegistration) {
			t.Errorf("Register(%q, %q, %q) error = %v, want ErrInvalidRegistration", tc.name, tc.email, tc.password, err)
		}
	}
}
