package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayspot/stayspot/internal/domain"
)

// PictureStore is the picture persistence surface. The ordering engine in
// the service layer composes these primitives; InTx on PictureRepository
// runs a whole composition atomically.
type PictureStore interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomPicture, error)
	ListByRoom(ctx context.Context, roomID int64) ([]domain.RoomPicture, error)
	MaxOrder(ctx context.Context, roomID int64) (int, error)
	InsertBatch(ctx context.Context, pics []domain.RoomPicture) ([]domain.RoomPicture, error)
	ListRange(ctx context.Context, roomID int64, from, to int) ([]domain.RoomPicture, error)
	ShiftRange(ctx context.Context, roomID int64, from, to, delta int) error
	SetOrder(ctx context.Context, id int64, order int) (*domain.RoomPicture, error)
	FirstByOrder(ctx context.Context, roomID int64) (*domain.RoomPicture, error)
	SetCover(ctx context.Context, roomID, id int64) error
	CoverURL(ctx context.Context, roomID int64) (string, error)
	Delete(ctx context.Context, id int64) (*domain.RoomPicture, error)
}

type PictureRepository interface {
	PictureStore
	InTx(ctx context.Context, fn func(store PictureStore) error) error
}

type pictureStore struct {
	db Querier
}

type pictureRepository struct {
	pictureStore
	pool *pgxpool.Pool
}

func NewPictureRepository(pool *pgxpool.Pool) PictureRepository {
	return &pictureRepository{
		pictureStore: pictureStore{db: pool},
		pool:         pool,
	}
}

// InTx runs fn against a transactional store; all of its writes commit
// together or not at all.
func (r *pictureRepository) InTx(ctx context.Context, fn func(store PictureStore) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&pictureStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const pictureCols = `id, room_id, url, "order", is_cover, created_at`

func scanPicture(row pgx.Row) (*domain.RoomPicture, error) {
	var p domain.RoomPicture
	err := row.Scan(&p.ID, &p.RoomID, &p.URL, &p.Order, &p.IsCover, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pictureStore) GetByID(ctx context.Context, id int64) (*domain.RoomPicture, error) {
	const q = `SELECT ` + pictureCols + ` FROM room_pictures WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPicture(s.db.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *pictureStore) ListByRoom(ctx context.Context, roomID int64) ([]domain.RoomPicture, error) {
	const q = `SELECT ` + pictureCols + ` FROM room_pictures WHERE room_id = $1 ORDER BY "order" ASC`
	return s.queryPictures(ctx, q, roomID)
}

func (s *pictureStore) MaxOrder(ctx context.Context, roomID int64) (int, error) {
	const q = `SELECT COALESCE(MAX("order"), 0) FROM room_pictures WHERE room_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var max int
	err := s.db.QueryRow(ctx, q, roomID).Scan(&max)
	return max, err
}

func (s *pictureStore) InsertBatch(ctx context.Context, pics []domain.RoomPicture) ([]domain.RoomPicture, error) {
	const q = `
		INSERT INTO room_pictures (room_id, url, "order", is_cover)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + pictureCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created := make([]domain.RoomPicture, 0, len(pics))
	for _, p := range pics {
		inserted, err := scanPicture(s.db.QueryRow(ctx, q, p.RoomID, p.URL, p.Order, p.IsCover))
		if err != nil {
			return nil, err
		}
		created = append(created, *inserted)
	}
	return created, nil
}

func (s *pictureStore) ListRange(ctx context.Context, roomID int64, from, to int) ([]domain.RoomPicture, error) {
	const q = `
		SELECT ` + pictureCols + `
		FROM room_pictures
		WHERE room_id = $1 AND "order" BETWEEN $2 AND $3
		ORDER BY "order" ASC`
	return s.queryPictures(ctx, q, roomID, from, to)
}

func (s *pictureStore) ShiftRange(ctx context.Context, roomID int64, from, to, delta int) error {
	const q = `
		UPDATE room_pictures
		SET "order" = "order" + $4
		WHERE room_id = $1 AND "order" BETWEEN $2 AND $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, q, roomID, from, to, delta)
	return err
}

func (s *pictureStore) SetOrder(ctx context.Context, id int64, order int) (*domain.RoomPicture, error) {
	const q = `UPDATE room_pictures SET "order" = $2 WHERE id = $1 RETURNING ` + pictureCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPicture(s.db.QueryRow(ctx, q, id, order))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *pictureStore) FirstByOrder(ctx context.Context, roomID int64) (*domain.RoomPicture, error) {
	const q = `SELECT ` + pictureCols + ` FROM room_pictures WHERE room_id = $1 ORDER BY "order" ASC LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPicture(s.db.QueryRow(ctx, q, roomID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// SetCover makes the given picture the room's only cover.
func (s *pictureStore) SetCover(ctx context.Context, roomID, id int64) error {
	const unset = `UPDATE room_pictures SET is_cover = false WHERE room_id = $1 AND is_cover = true AND id != $2`
	const set = `UPDATE room_pictures SET is_cover = true WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := s.db.Exec(ctx, unset, roomID, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, set, id)
	return err
}

func (s *pictureStore) CoverURL(ctx context.Context, roomID int64) (string, error) {
	const q = `SELECT url FROM room_pictures WHERE room_id = $1 AND is_cover = true LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var url string
	err := s.db.QueryRow(ctx, q, roomID).Scan(&url)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return url, err
}

func (s *pictureStore) Delete(ctx context.Context, id int64) (*domain.RoomPicture, error) {
	const q = `DELETE FROM room_pictures WHERE id = $1 RETURNING ` + pictureCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPicture(s.db.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *pictureStore) queryPictures(ctx context.Context, q string, args ...any) ([]domain.RoomPicture, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pictures []domain.RoomPicture
	for rows.Next() {
		var p domain.RoomPicture
		if err := rows.Scan(&p.ID, &p.RoomID, &p.URL, &p.Order, &p.IsCover, &p.CreatedAt); err != nil {
			return nil, err
		}
		pictures = append(pictures, p)
	}
	return pictures, rows.Err()
}
