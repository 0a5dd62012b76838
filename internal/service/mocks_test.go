package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/staylink/staylink-backend/internal/domain"
)

// ---------- Mocks ----------

type mockTx struct{}

func (mockTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockBus struct {
	mu        sync.Mutex
	published []string
}

func (m *mockBus) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, subject)
	return nil
}

func (m *mockBus) Close() error { return nil }

func (m *mockBus) has(subject string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.published {
		if s == subject {
			return true
		}
	}
	return false
}

type mockMailer struct {
	mu       sync.Mutex
	lastTo   string
	lastCode string
	sendErr  error
}

func (m *mockMailer) SendCheckinCode(toEmail, _, code string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = toEmail
	m.lastCode = code
	return m.sendErr
}

type mockUsersRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.User
	byEmail map[string]int64
}

func newMockUsersRepo() *mockUsersRepo {
	return &mockUsersRepo{
		nextID:  1,
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
	}
}

func (m *mockUsersRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[u.Email]; exists {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	created := *u
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.nextID++
	m.byID[created.ID] = &created
	m.byEmail[created.Email] = created.ID
	return &created, nil
}

func (m *mockUsersRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byEmail[email]; ok {
		u := *m.byID[id]
		return &u, nil
	}
	return nil, nil
}

func (m *mockUsersRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *mockUsersRepo) UpdateProfile(_ context.Context, id int64, name, email *string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	if email != nil {
		if other, exists := m.byEmail[*email]; exists && other != id {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		delete(m.byEmail, u.Email)
		u.Email = *email
		m.byEmail[u.Email] = id
	}
	if name != nil {
		u.Name = *name
	}
	copied := *u
	return &copied, nil
}

type mockHotelsRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Hotel
	byUser map[int64]int64
}

func newMockHotelsRepo() *mockHotelsRepo {
	return &mockHotelsRepo{
		nextID: 1,
		byID:   make(map[int64]*domain.Hotel),
		byUser: make(map[int64]int64),
	}
}

func (m *mockHotelsRepo) Create(_ context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *h
	created.ID = m.nextID
	created.IsActive = true
	m.nextID++
	m.byID[created.ID] = &created
	m.byUser[created.UserID] = created.ID
	return &created, nil
}

func (m *mockHotelsRepo) FindByID(_ context.Context, id int64) (*domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.byID[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, nil
}

func (m *mockHotelsRepo) FindByUserID(_ context.Context, userID int64) (*domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byUser[userID]; ok {
		copied := *m.byID[id]
		return &copied, nil
	}
	return nil, nil
}

func (m *mockHotelsRepo) List(_ context.Context, limit, offset int) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hotels []domain.Hotel
	for id := int64(1); id < m.nextID; id++ {
		if h, ok := m.byID[id]; ok {
			hotels = append(hotels, *h)
		}
	}
	if offset >= len(hotels) {
		return nil, nil
	}
	hotels = hotels[offset:]
	if limit > 0 && limit < len(hotels) {
		hotels = hotels[:limit]
	}
	return hotels, nil
}

func (m *mockHotelsRepo) Update(_ context.Context, userID int64, patch *domain.UpdateHotelRequest) (*domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	h := m.byID[id]
	if patch.HotelName != nil {
		h.HotelName = *patch.HotelName
	}
	if patch.ContactPhone != nil {
		h.ContactPhone = *patch.ContactPhone
	}
	if patch.LocationText != nil {
		h.LocationText = *patch.LocationText
	}
	if patch.PeakDays != nil {
		h.PeakDays = patch.PeakDays
	}
	if patch.Category != nil {
		h.Category = *patch.Category
	}
	if patch.IsActive != nil {
		h.IsActive = *patch.IsActive
	}
	copied := *h
	return &copied, nil
}

func (m *mockHotelsRepo) NextCheckInSeq(_ context.Context, hotelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[hotelID]
	if !ok {
		return 0, fmt.Errorf("%w: hotel not found", domain.ErrNotFound)
	}
	h.CheckInSeq++
	return h.CheckInSeq, nil
}

type mockBusinessesRepo struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int64]*domain.Business
}

func newMockBusinessesRepo() *mockBusinessesRepo {
	return &mockBusinessesRepo{nextID: 1, byUser: make(map[int64]*domain.Business)}
}

func (m *mockBusinessesRepo) Create(_ context.Context, b *domain.Business) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *b
	created.ID = m.nextID
	created.IsActive = true
	m.nextID++
	m.byUser[created.UserID] = &created
	return &created, nil
}

func (m *mockBusinessesRepo) FindByUserID(_ context.Context, userID int64) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.byUser[userID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (m *mockBusinessesRepo) Update(_ context.Context, userID int64, patch *domain.UpdateBusinessRequest) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	if patch.BusinessName != nil {
		b.BusinessName = *patch.BusinessName
	}
	if patch.ContactPhone != nil {
		b.ContactPhone = *patch.ContactPhone
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.IsActive != nil {
		b.IsActive = *patch.IsActive
	}
	copied := *b
	return &copied, nil
}

type mockGuestsRepo struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int64]*domain.Guest
}

func newMockGuestsRepo() *mockGuestsRepo {
	return &mockGuestsRepo{nextID: 1, byUser: make(map[int64]*domain.Guest)}
}

func (m *mockGuestsRepo) Create(_ context.Context, g *domain.Guest) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *g
	created.ID = m.nextID
	created.IsActive = true
	m.nextID++
	m.byUser[created.UserID] = &created
	return &created, nil
}

func (m *mockGuestsRepo) FindByUserID(_ context.Context, userID int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.byUser[userID]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, nil
}

func (m *mockGuestsRepo) UpdateFullName(_ context.Context, userID int64, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.byUser[userID]; ok {
		g.FullName = fullName
	}
	return nil
}

func (m *mockGuestsRepo) SetLastHotelCode(_ context.Context, userID int64, codeLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.byUser[userID]; ok {
		g.LastHotelCode = codeLabel
	}
	return nil
}

type mockCodesRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.AccessCode
	byLabel map[string]int64
}

func newMockCodesRepo() *mockCodesRepo {
	return &mockCodesRepo{
		nextID:  1,
		byID:    make(map[int64]*domain.AccessCode),
		byLabel: make(map[string]int64),
	}
}

func (m *mockCodesRepo) Create(_ context.Context, c *domain.AccessCode) (*domain.AccessCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byLabel[c.CodeLabel]; exists {
		return nil, fmt.Errorf("%w: code label already exists", domain.ErrConflict)
	}
	created := *c
	created.ID = m.nextID
	created.Status = domain.CodeActive
	created.IssuedAt = time.Now()
	m.nextID++
	m.byID[created.ID] = &created
	m.byLabel[created.CodeLabel] = created.ID
	return &created, nil
}

func (m *mockCodesRepo) FindByID(_ context.Context, id int64) (*domain.AccessCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *mockCodesRepo) FindActiveByLabel(_ context.Context, label string) (*domain.AccessCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byLabel[label]
	if !ok {
		return nil, nil
	}
	c := m.byID[id]
	if c.Status != domain.CodeActive {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *mockCodesRepo) Bind(_ context.Context, id, guestUserID, stayID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.Status != domain.CodeActive {
		return false, nil
	}
	if c.GuestUserID != nil && *c.GuestUserID != guestUserID {
		return false, nil
	}
	c.GuestUserID = &guestUserID
	c.StayID = &stayID
	return true, nil
}

func (m *mockCodesRepo) Revoke(_ context.Context, id int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.Status != domain.CodeActive {
		return nil
	}
	c.Status = domain.CodeRevoked
	c.RevokedAt = &now
	c.ExpiresAt = &now
	return nil
}

type mockStaysRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Stay
	hotels *mockHotelsRepo
}

func newMockStaysRepo(hotels *mockHotelsRepo) *mockStaysRepo {
	return &mockStaysRepo{nextID: 1, byID: make(map[int64]*domain.Stay), hotels: hotels}
}

func (m *mockStaysRepo) Create(_ context.Context, guestUserID, hotelID int64, accessCodeID *int64) (*domain.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.GuestUserID == guestUserID && s.Status == domain.StayActive {
			return nil, fmt.Errorf("%w: guest already has an active stay", domain.ErrConflict)
		}
	}
	now := time.Now()
	created := &domain.Stay{
		ID:           m.nextID,
		GuestUserID:  guestUserID,
		HotelID:      hotelID,
		AccessCodeID: accessCodeID,
		Status:       domain.StayActive,
		CheckInAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.byID[created.ID] = created
	copied := *created
	return &copied, nil
}

func (m *mockStaysRepo) FindByID(_ context.Context, id int64) (*domain.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *mockStaysRepo) FindActiveByGuest(_ context.Context, guestUserID int64) (*domain.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.GuestUserID == guestUserID && s.Status == domain.StayActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStaysRepo) CurrentWithHotel(ctx context.Context, guestUserID int64) (*domain.StayWithHotel, error) {
	stay, err := m.FindActiveByGuest(ctx, guestUserID)
	if err != nil || stay == nil {
		return nil, err
	}
	hotel, err := m.hotels.FindByID(ctx, stay.HotelID)
	if err != nil || hotel == nil {
		return nil, err
	}
	return &domain.StayWithHotel{
		Stay:         *stay,
		HotelName:    hotel.HotelName,
		LocationText: hotel.LocationText,
		Category:     hotel.Category,
	}, nil
}

func (m *mockStaysRepo) Checkout(_ context.Context, id int64, now time.Time) (*domain.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.Status != domain.StayActive {
		return nil, nil
	}
	s.Status = domain.StayCheckedOut
	s.CheckOutAt = &now
	s.UpdatedAt = now
	copied := *s
	return &copied, nil
}
