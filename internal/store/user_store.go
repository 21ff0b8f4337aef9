package store

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, username, password_hash, is_active, role, last_login,
	profile_picture, profile_picture_updated_at, created_at, updated_at`

type userRow struct {
	ID                      string     `db:"id"`
	Email                   string     `db:"email"`
	Username                string     `db:"username"`
	PasswordHash            string     `db:"password_hash"`
	IsActive                bool       `db:"is_active"`
	Role                    string     `db:"role"`
	LastLogin               *time.Time `db:"last_login"`
	ProfilePicture          *string    `db:"profile_picture"`
	ProfilePictureUpdatedAt *time.Time `db:"profile_picture_updated_at"`
	CreatedAt               time.Time  `db:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at"`
}

func (r userRow) model() *models.User {
	return models.RestoreUser(models.User{
		ID:                      r.ID,
		Email:                   r.Email,
		Username:                r.Username,
		IsActive:                r.IsActive,
		Role:                    r.Role,
		LastLogin:               r.LastLogin,
		ProfilePictureUpdatedAt: r.ProfilePictureUpdatedAt,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}, r.PasswordHash, r.ProfilePicture)
}

func (s *UserStore) Create(ctx context.Context, tx Execer, u *models.User) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, is_active, role, last_login,
			profile_picture, profile_picture_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.Email, u.Username, u.PasswordHash(), u.IsActive, u.Role, u.LastLogin,
		u.ProfilePicture(), u.ProfilePictureUpdatedAt, u.CreatedAt, u.UpdatedAt)
	return db.MapError(err)
}

func (s *UserStore) get(ctx context.Context, q Getter, query string, arg any) (*models.User, error) {
	var row userRow
	if err := q.GetContext(ctx, &row, query, arg); err != nil {
		return nil, db.MapError(err)
	}
	return row.model(), nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.get(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.get(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.get(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (*models.User, error) {
	return s.get(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
}

func (s *UserStore) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, db.MapError(err)
	}
	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.model())
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, tx Execer, u *models.User) error {
	return execOne(ctx, tx, `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, is_active = $4, role = $5,
			last_login = $6, profile_picture = $7, profile_picture_updated_at = $8, updated_at = $9
		WHERE id = $10
	`, u.Email, u.Username, u.PasswordHash(), u.IsActive, u.Role,
		u.LastLogin, u.ProfilePicture(), u.ProfilePictureUpdatedAt, u.UpdatedAt, u.ID)
}

func (s *UserStore) Delete(ctx context.Context, tx Execer, userID string) error {
	return execOne(ctx, tx, `DELETE FROM users WHERE id = $1`, userID)
}
