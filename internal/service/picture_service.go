package service

import (
	"context"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
	"github.com/stayspot/stayspot/pkg/events"
	"github.com/stayspot/stayspot/pkg/logger"
)

type PictureService interface {
	Upload(ctx context.Context, up *domain.PictureUpload) ([]domain.RoomPicture, error)
	SwapOrder(ctx context.Context, req *domain.PictureSwapRequest) (*domain.RoomPicture, error)
	Delete(ctx context.Context, pictureID, ownerID int64) error
	ListByRoom(ctx context.Context, roomID int64) ([]domain.RoomPicture, error)
	CoverURL(ctx context.Context, roomID int64) (string, error)
}

type pictureService struct {
	pictures repository.PictureRepository
	guard    ownershipGuard
	files    FileRemover
	bus      events.Publisher
}

func NewPictureService(
	pictures repository.PictureRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	files FileRemover,
	bus events.Publisher,
) PictureService {
	return &pictureService{
		pictures: pictures,
		guard:    ownershipGuard{users: users, rooms: rooms, pictures: pictures},
		files:    files,
		bus:      bus,
	}
}

// Upload appends a batch of pictures after the room's current highest order.
// The very first picture a room receives becomes its cover.
func (s *pictureService) Upload(ctx context.Context, up *domain.PictureUpload) ([]domain.RoomPicture, error) {
	if len(up.URLs) == 0 {
		return nil, domain.ValidationErrors{{Field: "pictures", Message: "at least one picture is required"}}
	}
	if _, err := s.guard.requireRoomOwner(ctx, up.RoomID, up.OwnerID); err != nil {
		return nil, err
	}

	var created []domain.RoomPicture
	err := s.pictures.InTx(ctx, func(store repository.PictureStore) error {
		first, err := store.FirstByOrder(ctx, up.RoomID)
		if err != nil {
			return err
		}
		wasEmpty := first == nil

		maxOrder, err := store.MaxOrder(ctx, up.RoomID)
		if err != nil {
			return err
		}

		batch := make([]domain.RoomPicture, len(up.URLs))
		for i, url := range up.URLs {
			batch[i] = domain.RoomPicture{
				RoomID:  up.RoomID,
				URL:     url,
				Order:   maxOrder + 1 + i,
				IsCover: wasEmpty && i == 0,
			}
		}

		created, err = store.InsertBatch(ctx, batch)
		if err != nil {
			return err
		}

		if !wasEmpty {
			return s.recomputeCover(ctx, store, up.RoomID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomPicturesUploaded, events.RoomPicturesUploadedEvent{
		RoomID:  up.RoomID,
		OwnerID: up.OwnerID,
		Count:   len(created),
	})

	logger.InfoContext(ctx, "Pictures uploaded", "room_id", up.RoomID, "count", len(created))
	return created, nil
}

// SwapOrder moves the source picture to the target picture's position and
// shifts everything in between by one to close the gap. Ascending moves the
// source towards a higher order, descending towards a lower one. The whole
// rearrangement commits atomically. Returns the source picture in its new
// position.
func (s *pictureService) SwapOrder(ctx context.Context, req *domain.PictureSwapRequest) (*domain.RoomPicture, error) {
	if len(req.IDs) != 2 || req.IDs[0] == req.IDs[1] {
		return nil, domain.ErrInvalidSwapInput
	}

	src, err := s.pictures.GetByID(ctx, req.IDs[0])
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, domain.ErrPictureNotFound
	}
	tgt, err := s.pictures.GetByID(ctx, req.IDs[1])
	if err != nil {
		return nil, err
	}
	if tgt == nil {
		return nil, domain.ErrPictureNotFound
	}
	if src.RoomID != tgt.RoomID {
		return nil, domain.ErrInvalidSwapInput
	}
	if req.Ascending && src.Order >= tgt.Order {
		return nil, domain.ErrInvalidSwapInput
	}
	if !req.Ascending && src.Order <= tgt.Order {
		return nil, domain.ErrInvalidSwapInput
	}

	if _, err := s.guard.requireRoomOwner(ctx, src.RoomID, req.OwnerID); err != nil {
		return nil, err
	}

	var lo, hi, delta int
	if req.Ascending {
		lo, hi, delta = src.Order+1, tgt.Order, -1
	} else {
		lo, hi, delta = tgt.Order, src.Order-1, +1
	}

	err = s.pictures.InTx(ctx, func(store repository.PictureStore) error {
		shifted, err := store.ListRange(ctx, src.RoomID, lo, hi)
		if err != nil {
			return err
		}

		if err := store.ShiftRange(ctx, src.RoomID, lo, hi, delta); err != nil {
			return err
		}

		moved, err := store.SetOrder(ctx, src.ID, tgt.Order)
		if err != nil {
			return err
		}
		if moved == nil {
			return domain.ErrPictureNotFound
		}

		coverMoved := src.IsCover
		for _, p := range shifted {
			if p.IsCover {
				coverMoved = true
			}
		}
		if coverMoved {
			return s.recomputeCover(ctx, store, src.RoomID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.pictures.GetByID(ctx, src.ID)
}

// Delete removes one picture. When the cover goes, the remaining picture
// with the lowest order takes over; order values of the survivors are left
// untouched, later uploads simply append after the highest.
func (s *pictureService) Delete(ctx context.Context, pictureID, ownerID int64) error {
	p, err := s.guard.requirePictureOwner(ctx, pictureID, ownerID)
	if err != nil {
		return err
	}

	err = s.pictures.InTx(ctx, func(store repository.PictureStore) error {
		deleted, err := store.Delete(ctx, pictureID)
		if err != nil {
			return err
		}
		if deleted == nil {
			return domain.ErrPictureNotFound
		}
		if deleted.IsCover {
			return s.recomputeCover(ctx, store, p.RoomID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.files.Remove(p.URL); err != nil {
		logger.WarnContext(ctx, "Failed to remove picture file", "url", p.URL, "error", err)
	}
	return nil
}

func (s *pictureService) ListByRoom(ctx context.Context, roomID int64) ([]domain.RoomPicture, error) {
	return s.pictures.ListByRoom(ctx, roomID)
}

func (s *pictureService) CoverURL(ctx context.Context, roomID int64) (string, error) {
	return s.pictures.CoverURL(ctx, roomID)
}

// recomputeCover makes the lowest-ordered picture the cover. A room with no
// pictures left has no cover.
func (s *pictureService) recomputeCover(ctx context.Context, store repository.PictureStore, roomID int64) error {
	first, err := store.FirstByOrder(ctx, roomID)
	if err != nil {
		return err
	}
	if first == nil || first.IsCover {
		return nil
	}
	return store.SetCover(ctx, roomID, first.ID)
}

func (s *pictureService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.bus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
