package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayspot/stayspot/internal/domain"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, roomID int64) error
	Remove(ctx context.Context, userID, roomID int64) error
	ListIDs(ctx context.Context, userID int64) ([]int64, error)
	ListRooms(ctx context.Context, userID int64) ([]domain.RoomResult, error)
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

// Add is idempotent; favoriting a room twice leaves a single row.
func (r *favoriteRepository) Add(ctx context.Context, userID, roomID int64) error {
	const q = `
		INSERT INTO favorites (user_id, room_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, room_id) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID, roomID)
	return err
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, roomID int64) error {
	const q = `DELETE FROM favorites WHERE user_id = $1 AND room_id = $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID, roomID)
	return err
}

func (r *favoriteRepository) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	const q = `SELECT room_id FROM favorites WHERE user_id = $1 ORDER BY room_id ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRooms returns the user's favorited rooms, most recently saved first.
func (r *favoriteRepository) ListRooms(ctx context.Context, userID int64) ([]domain.RoomResult, error) {
	q := `SELECT ` + resultCols + resultJoins + `
JOIN favorites f ON f.room_id = r.id
WHERE f.user_id = $1
ORDER BY f.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.RoomResult
	for rows.Next() {
		var res domain.RoomResult
		err := rows.Scan(
			&res.ID, &res.RoomType, &res.BathroomType, &res.Gender, &res.Description,
			&res.RentPrice, &res.Size, &res.NumberOfRooms, &res.IsRented,
			&res.Street, &res.Number, &res.Other, &res.PostalCode, &res.City, &res.Pictures,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
