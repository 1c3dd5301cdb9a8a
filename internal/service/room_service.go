package service

import (
	"context"
	"strings"
	"time"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
	"github.com/stayspot/stayspot/pkg/events"
	"github.com/stayspot/stayspot/pkg/logger"
)

// FileRemover deletes a stored upload by its public URL.
type FileRemover interface {
	Remove(url string) error
}

type RoomService interface {
	Create(ctx context.Context, in *domain.RoomInput) (*domain.Room, error)
	Update(ctx context.Context, roomID int64, in *domain.RoomInput) (*domain.Room, error)
	ToggleAvailability(ctx context.Context, roomID, ownerID int64) (*domain.Room, error)
	Delete(ctx context.Context, roomID, ownerID int64) error
	Search(ctx context.Context, search *domain.RoomSearch) ([]domain.RoomResult, error)
	Details(ctx context.Context, id int64) (*domain.RoomResult, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.RoomResult, error)
	AddFavorite(ctx context.Context, userID, roomID int64) error
	RemoveFavorite(ctx context.Context, userID, roomID int64) error
	FavoriteIDs(ctx context.Context, userID int64) ([]int64, error)
	Favorites(ctx context.Context, userID int64) ([]domain.RoomResult, error)
}

type roomService struct {
	rooms     repository.RoomRepository
	pictures  repository.PictureRepository
	favorites repository.FavoriteRepository
	guard     ownershipGuard
	files     FileRemover
	bus       events.Publisher
}

func NewRoomService(
	rooms repository.RoomRepository,
	pictures repository.PictureRepository,
	favorites repository.FavoriteRepository,
	users repository.UserRepository,
	files FileRemover,
	bus events.Publisher,
) RoomService {
	return &roomService{
		rooms:     rooms,
		pictures:  pictures,
		favorites: favorites,
		guard:     ownershipGuard{users: users, rooms: rooms},
		files:     files,
		bus:       bus,
	}
}

func (s *roomService) Create(ctx context.Context, in *domain.RoomInput) (*domain.Room, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.guard.requireOwner(ctx, in.OwnerID); err != nil {
		return nil, err
	}

	rm, err := s.rooms.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomCreated, events.RoomCreatedEvent{
		RoomID:    rm.ID,
		OwnerID:   rm.OwnerID,
		CityID:    in.CityID,
		RentPrice: rm.RentPrice,
		CreatedAt: rm.CreatedAt,
	})

	logger.InfoContext(ctx, "Room created", "room_id", rm.ID, "owner_id", rm.OwnerID)
	return rm, nil
}

func (s *roomService) Update(ctx context.Context, roomID int64, in *domain.RoomInput) (*domain.Room, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.guard.requireRoomOwner(ctx, roomID, in.OwnerID); err != nil {
		return nil, err
	}

	rm, err := s.rooms.Update(ctx, roomID, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomUpdated, events.RoomUpdatedEvent{
		RoomID:    rm.ID,
		OwnerID:   rm.OwnerID,
		UpdatedAt: rm.UpdatedAt,
	})
	return rm, nil
}

// ToggleAvailability flips the room's rented flag. A missing room is a
// silent no-op: listings vanish from under concurrent dashboard tabs, and
// the caller has nothing useful to do about it.
func (s *roomService) ToggleAvailability(ctx context.Context, roomID, ownerID int64) (*domain.Room, error) {
	if _, err := s.guard.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	rm, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, nil
	}
	if rm.OwnerID != ownerID {
		return nil, domain.ErrWrongOwner
	}

	updated, err := s.rooms.SetRented(ctx, roomID, !rm.IsRented)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.publish(ctx, events.RoomAvailabilityChanged, events.RoomAvailabilityChangedEvent{
		RoomID:   updated.ID,
		OwnerID:  updated.OwnerID,
		IsRented: updated.IsRented,
	})
	return updated, nil
}

// Delete removes the room with its pictures and favorites, then cleans up
// the stored image files. File cleanup failures are logged and swallowed;
// the listing is already gone.
func (s *roomService) Delete(ctx context.Context, roomID, ownerID int64) error {
	if _, err := s.guard.requireRoomOwner(ctx, roomID, ownerID); err != nil {
		return err
	}

	pics, err := s.pictures.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return err
	}

	for _, p := range pics {
		if err := s.files.Remove(p.URL); err != nil {
			logger.WarnContext(ctx, "Failed to remove picture file", "url", p.URL, "error", err)
		}
	}

	s.publish(ctx, events.RoomDeleted, events.RoomDeletedEvent{
		RoomID:    roomID,
		OwnerID:   ownerID,
		DeletedAt: time.Now(),
	})

	logger.InfoContext(ctx, "Room deleted", "room_id", roomID, "owner_id", ownerID)
	return nil
}

func (s *roomService) Search(ctx context.Context, search *domain.RoomSearch) ([]domain.RoomResult, error) {
	search.Description = strings.TrimSpace(search.Description)
	return s.rooms.Search(ctx, search)
}

func (s *roomService) Details(ctx context.Context, id int64) (*domain.RoomResult, error) {
	res, err := s.rooms.Details(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrRoomNotFound
	}
	return res, nil
}

func (s *roomService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.RoomResult, error) {
	if _, err := s.guard.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.rooms.ListByOwner(ctx, ownerID)
}

// AddFavorite saves the room for the user. A room that disappeared between
// browsing and saving is silently ignored.
func (s *roomService) AddFavorite(ctx context.Context, userID, roomID int64) error {
	rm, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if rm == nil {
		return nil
	}
	return s.favorites.Add(ctx, userID, roomID)
}

func (s *roomService) RemoveFavorite(ctx context.Context, userID, roomID int64) error {
	return s.favorites.Remove(ctx, userID, roomID)
}

func (s *roomService) FavoriteIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.favorites.ListIDs(ctx, userID)
}

func (s *roomService) Favorites(ctx context.Context, userID int64) ([]domain.RoomResult, error) {
	return s.favorites.ListRooms(ctx, userID)
}

func (s *roomService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.bus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
