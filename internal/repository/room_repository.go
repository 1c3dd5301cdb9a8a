package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayspot/stayspot/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, in *domain.RoomInput) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Update(ctx context.Context, id int64, in *domain.RoomInput) (*domain.Room, error)
	SetRented(ctx context.Context, id int64, rented bool) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, search *domain.RoomSearch) ([]domain.RoomResult, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.RoomResult, error)
	Details(ctx context.Context, id int64) (*domain.RoomResult, error)
}

type roomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

const roomCols = `id, room_type, bathroom_type, gender, description, rent_price,
size, number_of_rooms, is_rented, owner_id, address_id, created_at, updated_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(
		&rm.ID, &rm.RoomType, &rm.BathroomType, &rm.Gender, &rm.Description,
		&rm.RentPrice, &rm.Size, &rm.NumberOfRooms, &rm.IsRented,
		&rm.OwnerID, &rm.AddressID, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// Create inserts the room's address and the room in one transaction. Room
// addresses are always residential.
func (r *roomRepository) Create(ctx context.Context, in *domain.RoomInput) (*domain.Room, error) {
	const insertAddress = `
		INSERT INTO addresses (type, street, number, other, postal_code, city_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	const insertRoom = `
		INSERT INTO rooms (room_type, bathroom_type, gender, description, rent_price,
			size, number_of_rooms, owner_id, address_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + roomCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var addressID int64
	err = tx.QueryRow(ctx, insertAddress,
		domain.AddressResidential, in.Street, in.Number, in.Other, in.PostalCode, in.CityID,
	).Scan(&addressID)
	if err != nil {
		return nil, err
	}

	rm, err := scanRoom(tx.QueryRow(ctx, insertRoom,
		in.RoomType, in.BathroomType, in.Gender, in.Description, in.RentPrice,
		in.Size, in.NumberOfRooms, in.OwnerID, addressID,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rm, err := scanRoom(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rm, err
}

// Update rewrites the room and its address in one transaction.
func (r *roomRepository) Update(ctx context.Context, id int64, in *domain.RoomInput) (*domain.Room, error) {
	const updateRoom = `
		UPDATE rooms
		SET room_type = $2, bathroom_type = $3, gender = $4, description = $5,
			rent_price = $6, size = $7, number_of_rooms = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomCols
	const updateAddress = `
		UPDATE addresses
		SET street = $2, number = $3, other = $4, postal_code = $5, city_id = $6
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rm, err := scanRoom(tx.QueryRow(ctx, updateRoom,
		id, in.RoomType, in.BathroomType, in.Gender, in.Description,
		in.RentPrice, in.Size, in.NumberOfRooms,
	))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, updateAddress,
		rm.AddressID, in.Street, in.Number, in.Other, in.PostalCode, in.CityID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) SetRented(ctx context.Context, id int64, rented bool) (*domain.Room, error) {
	const q = `UPDATE rooms SET is_rented = $2, updated_at = now() WHERE id = $1 RETURNING ` + roomCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rm, err := scanRoom(r.pool.QueryRow(ctx, q, id, rented))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rm, err
}

// Delete removes the room's pictures, the room, and its address together.
func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	const deletePictures = `DELETE FROM room_pictures WHERE room_id = $1`
	const deleteFavorites = `DELETE FROM favorites WHERE room_id = $1`
	const deleteRoom = `DELETE FROM rooms WHERE id = $1 RETURNING address_id`
	const deleteAddress = `DELETE FROM addresses WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deletePictures, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteFavorites, id); err != nil {
		return err
	}

	var addressID int64
	err = tx.QueryRow(ctx, deleteRoom, id).Scan(&addressID)
	if err == pgx.ErrNoRows {
		return domain.ErrRoomNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, deleteAddress, addressID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const resultCols = `r.id, r.room_type, r.bathroom_type, r.gender, r.description,
r.rent_price, r.size, r.number_of_rooms, r.is_rented,
a.street, a.number, a.other, a.postal_code,
c.name || ', ' || p.abbreviation,
COALESCE(
	(SELECT array_agg(rp.url ORDER BY rp."order") FROM room_pictures rp WHERE rp.room_id = r.id),
	'{}'
)`

const resultJoins = `
FROM rooms r
JOIN addresses a ON a.id = r.address_id
JOIN cities c ON c.id = a.city_id
JOIN provinces p ON p.id = c.province_id`

// Search lists available rooms matching the filters. Rented rooms are never
// returned, whatever the filters say.
func (r *roomRepository) Search(ctx context.Context, search *domain.RoomSearch) ([]domain.RoomResult, error) {
	q, args := buildSearchQuery(search)
	return r.queryResults(ctx, q, args...)
}

// buildSearchQuery assembles the filtered search. Every query pins
// is_rented = false; description matching is a case-sensitive substring,
// unlike city search.
func buildSearchQuery(search *domain.RoomSearch) (string, []any) {
	var (
		where = []string{"r.is_rented = false"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if search.CityID != nil {
		where = append(where, "a.city_id = "+arg(*search.CityID))
	}
	if search.RoomType != "" {
		where = append(where, "r.room_type = "+arg(search.RoomType))
	}
	if search.BathroomType != "" {
		where = append(where, "r.bathroom_type = "+arg(search.BathroomType))
	}
	if search.Gender != "" {
		where = append(where, "r.gender = "+arg(search.Gender))
	}
	if search.Description != "" {
		where = append(where, "r.description LIKE "+arg("%"+search.Description+"%"))
	}
	if search.RentPriceMin != nil {
		where = append(where, "r.rent_price >= "+arg(*search.RentPriceMin))
	}
	if search.RentPriceMax != nil {
		where = append(where, "r.rent_price <= "+arg(*search.RentPriceMax))
	}
	if search.SizeMin != nil {
		where = append(where, "r.size >= "+arg(*search.SizeMin))
	}
	if search.SizeMax != nil {
		where = append(where, "r.size <= "+arg(*search.SizeMax))
	}
	if search.NumberOfRoomsMin != nil {
		where = append(where, "r.number_of_rooms >= "+arg(*search.NumberOfRoomsMin))
	}
	if search.NumberOfRoomsMax != nil {
		where = append(where, "r.number_of_rooms <= "+arg(*search.NumberOfRoomsMax))
	}

	q := `SELECT ` + resultCols + resultJoins + `
WHERE ` + strings.Join(where, " AND ") + orderClause(search)

	return q, args
}

// orderClause maps the sort request onto a column; unknown sort keys leave
// the result order unspecified.
func orderClause(search *domain.RoomSearch) string {
	var col string
	switch search.SortBy {
	case domain.SortByPrice:
		col = "r.rent_price"
	case domain.SortBySize:
		col = "r.size"
	default:
		return ""
	}
	dir := "ASC"
	if strings.EqualFold(search.SortDir, "desc") {
		dir = "DESC"
	}
	return "\nORDER BY " + col + " " + dir
}

// ListByOwner returns all of the owner's rooms, rented ones included.
func (r *roomRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.RoomResult, error) {
	q := `SELECT ` + resultCols + resultJoins + `
WHERE r.owner_id = $1
ORDER BY r.created_at DESC`

	return r.queryResults(ctx, q, ownerID)
}

// Details returns one room with the owner's contact information attached.
// The owner's city is blank until the owner has registered an address.
func (r *roomRepository) Details(ctx context.Context, id int64) (*domain.RoomResult, error) {
	q := `SELECT ` + resultCols + `,
u.first_name || ' ' || u.last_name,
COALESCE(oc.name || ', ' || op.abbreviation, ''),
u.phone` + resultJoins + `
JOIN users u ON u.id = r.owner_id
LEFT JOIN addresses oa ON oa.id = u.address_id
LEFT JOIN cities oc ON oc.id = oa.city_id
LEFT JOIN provinces op ON op.id = oc.province_id
WHERE r.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var res domain.RoomResult
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&res.ID, &res.RoomType, &res.BathroomType, &res.Gender, &res.Description,
		&res.RentPrice, &res.Size, &res.NumberOfRooms, &res.IsRented,
		&res.Street, &res.Number, &res.Other, &res.PostalCode, &res.City, &res.Pictures,
		&res.OwnerName, &res.OwnerCity, &res.OwnerPhone,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *roomRepository) queryResults(ctx context.Context, q string, args ...any) ([]domain.RoomResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
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
