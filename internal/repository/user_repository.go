package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayspot/stayspot/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	RecordLoginAttempt(ctx context.Context, id int64, failedAttempts int, at time.Time) error
	PromoteToOwner(ctx context.Context, id int64, req *domain.PropertyOwnerRequest) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, first_name, last_name, email, password_hash, is_owner,
failed_login_attempts, last_login_attempt, phone, profile_picture_url, address_id,
created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsOwner,
		&u.FailedLoginAttempts, &u.LastLoginAttempt, &u.Phone, &u.ProfilePictureURL,
		&u.AddressID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, req.FirstName, req.LastName, req.Email, passwordHash))
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) RecordLoginAttempt(ctx context.Context, id int64, failedAttempts int, at time.Time) error {
	const q = `
		UPDATE users
		SET failed_login_attempts = $2, last_login_attempt = $3, updated_at = now()
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, failedAttempts, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PromoteToOwner creates the user's address and flips the owner flag in one
// transaction; the address row is owned exclusively by this user.
func (r *userRepository) PromoteToOwner(ctx context.Context, id int64, req *domain.PropertyOwnerRequest) (*domain.User, error) {
	const insertAddress = `
		INSERT INTO addresses (type, street, number, other, postal_code, city_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	const updateUser = `
		UPDATE users
		SET is_owner = true, phone = $2, profile_picture_url = '', address_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var addressID int64
	err = tx.QueryRow(ctx, insertAddress,
		req.Type, req.Street, req.Number, req.Other, req.PostalCode, req.CityID,
	).Scan(&addressID)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(tx.QueryRow(ctx, updateUser, id, req.Phone, addressID))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}
