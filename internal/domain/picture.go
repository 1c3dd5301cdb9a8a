package domain

import "time"

// RoomPicture is one image of a room. Order values form a dense 1-based
// sequence per room on insert; exactly one picture per non-empty room is the
// cover, and it is always the one with the lowest order.
type RoomPicture struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	URL       string    `json:"url"`
	Order     int       `json:"order"`
	IsCover   bool      `json:"is_cover"`
	CreatedAt time.Time `json:"created_at"`
}

// PictureUpload is a batch of already-stored image URLs to attach to a room.
type PictureUpload struct {
	RoomID  int64
	URLs    []string
	OwnerID int64
}

// PictureSwapRequest moves the first picture to the second picture's
// position. Ascending means the source moves towards a higher order value.
type PictureSwapRequest struct {
	IDs       []int64 `json:"ids"`
	Ascending bool    `json:"ascending"`
	OwnerID   int64   `json:"-"`
}
