package service

import (
	"context"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
)

// ownershipGuard centralizes the access checks shared by room and picture
// operations: the caller must be a property owner, and the room being
// touched must be theirs.
type ownershipGuard struct {
	users    repository.UserRepository
	rooms    repository.RoomRepository
	pictures repository.PictureRepository
}

func (g *ownershipGuard) requireOwner(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !u.IsOwner {
		return nil, domain.ErrNotAnOwner
	}
	return u, nil
}

func (g *ownershipGuard) requireRoomOwner(ctx context.Context, roomID, userID int64) (*domain.Room, error) {
	if _, err := g.requireOwner(ctx, userID); err != nil {
		return nil, err
	}

	rm, err := g.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, domain.ErrRoomNotFound
	}
	if rm.OwnerID != userID {
		return nil, domain.ErrWrongOwner
	}
	return rm, nil
}

func (g *ownershipGuard) requirePictureOwner(ctx context.Context, pictureID, userID int64) (*domain.RoomPicture, error) {
	p, err := g.pictures.GetByID(ctx, pictureID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPictureNotFound
	}
	if _, err := g.requireRoomOwner(ctx, p.RoomID, userID); err != nil {
		return nil, err
	}
	return p, nil
}
