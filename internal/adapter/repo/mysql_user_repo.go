package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id,name,email,password_hash,role,created_at)
VALUES (?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt)
	return err
}

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,name,email,password_hash,role,created_at
FROM users WHERE email=?`, email)

	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
