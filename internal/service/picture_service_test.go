package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/pkg/events"
)

const (
	ownerID    = int64(1)
	tenantID   = int64(2)
	testRoomID = int64(10)
)

func newPictureFixture(t *testing.T) (PictureService, *mockPictureRepo, *mockFiles) {
	t.Helper()

	users := newMockUserRepo()
	users.addUser(domain.User{ID: ownerID, Email: "owner@example.com", IsOwner: true})
	users.addUser(domain.User{ID: tenantID, Email: "tenant@example.com"})

	rooms := newMockRoomRepo()
	rooms.addRoom(domain.Room{ID: testRoomID, OwnerID: ownerID})

	pictures := newMockPictureRepo()
	files := &mockFiles{}

	svc := NewPictureService(pictures, rooms, users, files, events.NewNoopEventBus())
	return svc, pictures, files
}

func seedPictures(repo *mockPictureRepo, orders []int, coverOrder int) map[int]int64 {
	byOrder := make(map[int]int64, len(orders))
	for _, order := range orders {
		p := repo.addPicture(domain.RoomPicture{
			RoomID:  testRoomID,
			URL:     "/uploads/rooms/p.jpg",
			Order:   order,
			IsCover: order == coverOrder,
		})
		byOrder[order] = p.ID
	}
	return byOrder
}

func ordersByID(t *testing.T, repo *mockPictureRepo) map[int64]int {
	t.Helper()
	out := make(map[int64]int, len(repo.pics))
	for id, p := range repo.pics {
		out[id] = p.Order
	}
	return out
}

func TestUploadFirstPictureBecomesCover(t *testing.T) {
	svc, _, _ := newPictureFixture(t)

	created, err := svc.Upload(context.Background(), &domain.PictureUpload{
		RoomID:  testRoomID,
		URLs:    []string{"/uploads/rooms/a.jpg", "/uploads/rooms/b.jpg", "/uploads/rooms/c.jpg"},
		OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 pictures, got %d", len(created))
	}

	for i, p := range created {
		if p.Order != i+1 {
			t.Errorf("picture %d: expected order %d, got %d", i, i+1, p.Order)
		}
	}
	if !created[0].IsCover {
		t.Error("first uploaded picture should be the cover")
	}
	if created[1].IsCover || created[2].IsCover {
		t.Error("only the first picture should be the cover")
	}
}

func TestUploadAppendsAfterExistingPictures(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	seedPictures(repo, []int{1, 2}, 1)

	created, err := svc.Upload(context.Background(), &domain.PictureUpload{
		RoomID:  testRoomID,
		URLs:    []string{"/uploads/rooms/c.jpg", "/uploads/rooms/d.jpg"},
		OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if created[0].Order != 3 || created[1].Order != 4 {
		t.Errorf("expected orders 3 and 4, got %d and %d", created[0].Order, created[1].Order)
	}
	if created[0].IsCover || created[1].IsCover {
		t.Error("appended pictures must not take over the cover")
	}

	url, err := svc.CoverURL(context.Background(), testRoomID)
	if err != nil {
		t.Fatalf("CoverURL failed: %v", err)
	}
	if url == "" {
		t.Error("room should still have a cover after appending")
	}
}

func TestUploadRestoresMissingCover(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	// A room left without a cover, e.g. after external data fixes.
	orphan := repo.addPicture(domain.RoomPicture{RoomID: testRoomID, Order: 5})

	_, err := svc.Upload(context.Background(), &domain.PictureUpload{
		RoomID:  testRoomID,
		URLs:    []string{"/uploads/rooms/x.jpg"},
		OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !repo.pics[orphan.ID].IsCover {
		t.Error("lowest-ordered picture should have been promoted to cover")
	}
}

func TestUploadRejectsNonOwner(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)

	_, err := svc.Upload(context.Background(), &domain.PictureUpload{
		RoomID:  testRoomID,
		URLs:    []string{"/uploads/rooms/a.jpg"},
		OwnerID: tenantID,
	})
	if !errors.Is(err, domain.ErrNotAnOwner) {
		t.Fatalf("expected ErrNotAnOwner, got %v", err)
	}
	if len(repo.pics) != 0 {
		t.Error("no pictures should have been stored")
	}
}

func TestSwapAscendingShiftsIntermediatesDown(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3, 4, 5}, 1)

	moved, err := svc.SwapOrder(context.Background(), &domain.PictureSwapRequest{
		IDs:       []int64{byOrder[2], byOrder[4]},
		Ascending: true,
		OwnerID:   ownerID,
	})
	if err != nil {
		t.Fatalf("SwapOrder failed: %v", err)
	}
	if moved.ID != byOrder[2] || moved.Order != 4 {
		t.Errorf("expected the source picture back at order 4, got id %d order %d", moved.ID, moved.Order)
	}

	got := ordersByID(t, repo)
	want := map[int64]int{
		byOrder[1]: 1,
		byOrder[2]: 4,
		byOrder[3]: 2,
		byOrder[4]: 3,
		byOrder[5]: 5,
	}
	for id, order := range want {
		if got[id] != order {
			t.Errorf("picture %d: expected order %d, got %d", id, order, got[id])
		}
	}
	if !repo.pics[byOrder[1]].IsCover {
		t.Error("cover should not move when the first position is untouched")
	}
}

func TestSwapDescendingMovesCover(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3, 4}, 1)

	moved, err := svc.SwapOrder(context.Background(), &domain.PictureSwapRequest{
		IDs:       []int64{byOrder[4], byOrder[1]},
		Ascending: false,
		OwnerID:   ownerID,
	})
	if err != nil {
		t.Fatalf("SwapOrder failed: %v", err)
	}
	if moved.ID != byOrder[4] || moved.Order != 1 || !moved.IsCover {
		t.Errorf("expected the source picture back as the new cover at order 1, got %+v", moved)
	}

	got := ordersByID(t, repo)
	want := map[int64]int{
		byOrder[4]: 1,
		byOrder[1]: 2,
		byOrder[2]: 3,
		byOrder[3]: 4,
	}
	for id, order := range want {
		if got[id] != order {
			t.Errorf("picture %d: expected order %d, got %d", id, order, got[id])
		}
	}

	if !repo.pics[byOrder[4]].IsCover {
		t.Error("the picture now in first position should be the cover")
	}
	if repo.pics[byOrder[1]].IsCover {
		t.Error("the displaced picture should have lost the cover")
	}
}

func TestSwapRejectsInvalidInput(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3}, 1)

	otherRoom := repo.addPicture(domain.RoomPicture{RoomID: testRoomID + 1, Order: 1, IsCover: true})

	cases := []struct {
		name string
		req  domain.PictureSwapRequest
	}{
		{"single id", domain.PictureSwapRequest{IDs: []int64{byOrder[1]}, Ascending: true, OwnerID: ownerID}},
		{"identical ids", domain.PictureSwapRequest{IDs: []int64{byOrder[1], byOrder[1]}, Ascending: true, OwnerID: ownerID}},
		{"different rooms", domain.PictureSwapRequest{IDs: []int64{byOrder[1], otherRoom.ID}, Ascending: true, OwnerID: ownerID}},
		{"direction mismatch", domain.PictureSwapRequest{IDs: []int64{byOrder[3], byOrder[1]}, Ascending: true, OwnerID: ownerID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SwapOrder(context.Background(), &tc.req); !errors.Is(err, domain.ErrInvalidSwapInput) {
				t.Fatalf("expected ErrInvalidSwapInput, got %v", err)
			}
		})
	}
}

func TestSwapRejectsWrongOwner(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3}, 1)
	before := ordersByID(t, repo)

	_, err := svc.SwapOrder(context.Background(), &domain.PictureSwapRequest{
		IDs:       []int64{byOrder[1], byOrder[3]},
		Ascending: true,
		OwnerID:   tenantID,
	})
	if !errors.Is(err, domain.ErrNotAnOwner) {
		t.Fatalf("expected ErrNotAnOwner, got %v", err)
	}

	after := ordersByID(t, repo)
	for id, order := range before {
		if after[id] != order {
			t.Errorf("picture %d: order changed from %d to %d on a rejected swap", id, order, after[id])
		}
	}
}

func TestDeleteCoverPromotesNextPicture(t *testing.T) {
	svc, repo, files := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3}, 1)

	if err := svc.Delete(context.Background(), byOrder[1], ownerID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := repo.pics[byOrder[1]]; ok {
		t.Error("deleted picture should be gone")
	}
	if !repo.pics[byOrder[2]].IsCover {
		t.Error("the next picture in order should have become the cover")
	}
	if len(files.removed) != 1 {
		t.Errorf("expected 1 file removal, got %d", len(files.removed))
	}
}

func TestDeleteNonCoverLeavesOrderGaps(t *testing.T) {
	svc, repo, _ := newPictureFixture(t)
	byOrder := seedPictures(repo, []int{1, 2, 3}, 1)

	if err := svc.Delete(context.Background(), byOrder[2], ownerID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if !repo.pics[byOrder[1]].IsCover {
		t.Error("cover should be untouched when a non-cover picture goes")
	}
	if repo.pics[byOrder[3]].Order != 3 {
		t.Error("surviving pictures keep their order values")
	}

	// The next upload appends after the highest surviving order.
	created, err := svc.Upload(context.Background(), &domain.PictureUpload{
		RoomID:  testRoomID,
		URLs:    []string{"/uploads/rooms/new.jpg"},
		OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if created[0].Order != 4 {
		t.Errorf("expected order 4 after deletion gap, got %d", created[0].Order)
	}
}

func TestDeleteUnknownPicture(t *testing.T) {
	svc, _, _ := newPictureFixture(t)

	if err := svc.Delete(context.Background(), 999, ownerID); !errors.Is(err, domain.ErrPictureNotFound) {
		t.Fatalf("expected ErrPictureNotFound, got %v", err)
	}
}
