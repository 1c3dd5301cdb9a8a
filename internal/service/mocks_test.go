package service

import (
	"context"
	"time"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
)

type mockUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockUserRepo) addUser(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = m.nextID
	}
	if u.ID >= m.nextID {
		m.nextID = u.ID + 1
	}
	m.users[u.ID] = &u
	return &u
}

func (m *mockUserRepo) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	return m.addUser(domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}), nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) RecordLoginAttempt(ctx context.Context, id int64, failedAttempts int, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FailedLoginAttempts = failedAttempts
	u.LastLoginAttempt = &at
	return nil
}

func (m *mockUserRepo) PromoteToOwner(ctx context.Context, id int64, req *domain.PropertyOwnerRequest) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	addressID := id + 1000
	u.IsOwner = true
	u.Phone = req.Phone
	u.ProfilePictureURL = ""
	u.AddressID = &addressID
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

type mockRoomRepo struct {
	rooms      map[int64]*domain.Room
	nextID     int64
	lastSearch *domain.RoomSearch
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[int64]*domain.Room), nextID: 1}
}

func (m *mockRoomRepo) addRoom(rm domain.Room) *domain.Room {
	if rm.ID == 0 {
		rm.ID = m.nextID
	}
	if rm.ID >= m.nextID {
		m.nextID = rm.ID + 1
	}
	m.rooms[rm.ID] = &rm
	return &rm
}

func (m *mockRoomRepo) Create(ctx context.Context, in *domain.RoomInput) (*domain.Room, error) {
	return m.addRoom(domain.Room{
		RoomType:      in.RoomType,
		BathroomType:  in.BathroomType,
		Gender:        in.Gender,
		Description:   in.Description,
		RentPrice:     in.RentPrice,
		Size:          in.Size,
		NumberOfRooms: in.NumberOfRooms,
		OwnerID:       in.OwnerID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}), nil
}

func (m *mockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	rm, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *rm
	return &copied, nil
}

func (m *mockRoomRepo) Update(ctx context.Context, id int64, in *domain.RoomInput) (*domain.Room, error) {
	rm, ok := m.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	rm.RoomType = in.RoomType
	rm.BathroomType = in.BathroomType
	rm.Gender = in.Gender
	rm.Description = in.Description
	rm.RentPrice = in.RentPrice
	rm.Size = in.Size
	rm.NumberOfRooms = in.NumberOfRooms
	rm.UpdatedAt = time.Now()
	copied := *rm
	return &copied, nil
}

func (m *mockRoomRepo) SetRented(ctx context.Context, id int64, rented bool) (*domain.Room, error) {
	rm, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	rm.IsRented = rented
	copied := *rm
	return &copied, nil
}

func (m *mockRoomRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepo) Search(ctx context.Context, search *domain.RoomSearch) ([]domain.RoomResult, error) {
	m.lastSearch = search
	return nil, nil
}

func (m *mockRoomRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.RoomResult, error) {
	var results []domain.RoomResult
	for _, rm := range m.rooms {
		if rm.OwnerID == ownerID {
			results = append(results, domain.RoomResult{ID: rm.ID})
		}
	}
	return results, nil
}

func (m *mockRoomRepo) Details(ctx context.Context, id int64) (*domain.RoomResult, error) {
	rm, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &domain.RoomResult{ID: rm.ID, Description: rm.Description}, nil
}

type mockPictureRepo struct {
	pics   map[int64]*domain.RoomPicture
	nextID int64
}

func newMockPictureRepo() *mockPictureRepo {
	return &mockPictureRepo{pics: make(map[int64]*domain.RoomPicture), nextID: 1}
}

func (m *mockPictureRepo) addPicture(p domain.RoomPicture) *domain.RoomPicture {
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.pics[p.ID] = &p
	return &p
}

func (m *mockPictureRepo) snapshot() map[int64]domain.RoomPicture {
	out := make(map[int64]domain.RoomPicture, len(m.pics))
	for id, p := range m.pics {
		out[id] = *p
	}
	return out
}

func (m *mockPictureRepo) restore(snap map[int64]domain.RoomPicture) {
	m.pics = make(map[int64]*domain.RoomPicture, len(snap))
	for id, p := range snap {
		copied := p
		m.pics[id] = &copied
	}
}

func (m *mockPictureRepo) InTx(ctx context.Context, fn func(store repository.PictureStore) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *mockPictureRepo) GetByID(ctx context.Context, id int64) (*domain.RoomPicture, error) {
	p, ok := m.pics[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockPictureRepo) ListByRoom(ctx context.Context, roomID int64) ([]domain.RoomPicture, error) {
	var out []domain.RoomPicture
	for order := 0; order <= m.maxOrder(roomID); order++ {
		for _, p := range m.pics {
			if p.RoomID == roomID && p.Order == order {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (m *mockPictureRepo) maxOrder(roomID int64) int {
	max := 0
	for _, p := range m.pics {
		if p.RoomID == roomID && p.Order > max {
			max = p.Order
		}
	}
	return max
}

func (m *mockPictureRepo) MaxOrder(ctx context.Context, roomID int64) (int, error) {
	return m.maxOrder(roomID), nil
}

func (m *mockPictureRepo) InsertBatch(ctx context.Context, pics []domain.RoomPicture) ([]domain.RoomPicture, error) {
	created := make([]domain.RoomPicture, 0, len(pics))
	for _, p := range pics {
		p.CreatedAt = time.Now()
		created = append(created, *m.addPicture(p))
	}
	return created, nil
}

func (m *mockPictureRepo) ListRange(ctx context.Context, roomID int64, from, to int) ([]domain.RoomPicture, error) {
	var out []domain.RoomPicture
	for order := from; order <= to; order++ {
		for _, p := range m.pics {
			if p.RoomID == roomID && p.Order == order {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (m *mockPictureRepo) ShiftRange(ctx context.Context, roomID int64, from, to, delta int) error {
	for _, p := range m.pics {
		if p.RoomID == roomID && p.Order >= from && p.Order <= to {
			p.Order += delta
		}
	}
	return nil
}

func (m *mockPictureRepo) SetOrder(ctx context.Context, id int64, order int) (*domain.RoomPicture, error) {
	p, ok := m.pics[id]
	if !ok {
		return nil, nil
	}
	p.Order = order
	copied := *p
	return &copied, nil
}

func (m *mockPictureRepo) FirstByOrder(ctx context.Context, roomID int64) (*domain.RoomPicture, error) {
	var first *domain.RoomPicture
	for _, p := range m.pics {
		if p.RoomID != roomID {
			continue
		}
		if first == nil || p.Order < first.Order {
			first = p
		}
	}
	if first == nil {
		return nil, nil
	}
	copied := *first
	return &copied, nil
}

func (m *mockPictureRepo) SetCover(ctx context.Context, roomID, id int64) error {
	for _, p := range m.pics {
		if p.RoomID == roomID {
			p.IsCover = p.ID == id
		}
	}
	return nil
}

func (m *mockPictureRepo) CoverURL(ctx context.Context, roomID int64) (string, error) {
	for _, p := range m.pics {
		if p.RoomID == roomID && p.IsCover {
			return p.URL, nil
		}
	}
	return "", nil
}

func (m *mockPictureRepo) Delete(ctx context.Context, id int64) (*domain.RoomPicture, error) {
	p, ok := m.pics[id]
	if !ok {
		return nil, nil
	}
	delete(m.pics, id)
	return p, nil
}

type mockFavoriteRepo struct {
	saved map[[2]int64]time.Time
}

func newMockFavoriteRepo() *mockFavoriteRepo {
	return &mockFavoriteRepo{saved: make(map[[2]int64]time.Time)}
}

func (m *mockFavoriteRepo) Add(ctx context.Context, userID, roomID int64) error {
	key := [2]int64{userID, roomID}
	if _, ok := m.saved[key]; !ok {
		m.saved[key] = time.Now()
	}
	return nil
}

func (m *mockFavoriteRepo) Remove(ctx context.Context, userID, roomID int64) error {
	delete(m.saved, [2]int64{userID, roomID})
	return nil
}

func (m *mockFavoriteRepo) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key := range m.saved {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (m *mockFavoriteRepo) ListRooms(ctx context.Context, userID int64) ([]domain.RoomResult, error) {
	var results []domain.RoomResult
	for key := range m.saved {
		if key[0] == userID {
			results = append(results, domain.RoomResult{ID: key[1]})
		}
	}
	return results, nil
}

type mockFiles struct {
	removed []string
}

func (m *mockFiles) Remove(url string) error {
	m.removed = append(m.removed, url)
	return nil
}
