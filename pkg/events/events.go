package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/stayspot/stayspot/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus discards all events. Used when no NATS server is configured
// and as a stand-in for tests.
type NoopEventBus struct{}

func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

func (n *NoopEventBus) Close() error {
	return nil
}

// Event subjects
const (
	RoomCreated             = "room.created"
	RoomUpdated             = "room.updated"
	RoomDeleted             = "room.deleted"
	RoomAvailabilityChanged = "room.availability_changed"
	RoomPicturesUploaded    = "room.pictures_uploaded"
	UserRegistered          = "user.registered"
	UserPromotedToOwner     = "user.promoted_to_owner"
)

// Event payloads
type RoomCreatedEvent struct {
	RoomID    int64     `json:"room_id"`
	OwnerID   int64     `json:"owner_id"`
	CityID    int64     `json:"city_id"`
	RentPrice float64   `json:"rent_price"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomUpdatedEvent struct {
	RoomID    int64     `json:"room_id"`
	OwnerID   int64     `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomDeletedEvent struct {
	RoomID    int64     `json:"room_id"`
	OwnerID   int64     `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type RoomAvailabilityChangedEvent struct {
	RoomID   int64 `json:"room_id"`
	OwnerID  int64 `json:"owner_id"`
	IsRented bool  `json:"is_rented"`
}

type RoomPicturesUploadedEvent struct {
	RoomID  int64 `json:"room_id"`
	OwnerID int64 `json:"owner_id"`
	Count   int   `json:"count"`
}

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type UserPromotedToOwnerEvent struct {
	UserID     int64     `json:"user_id"`
	PromotedAt time.Time `json:"promoted_at"`
}
