package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var _ ports.BookingRepository = (*memoryBookings)(nil)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func adminContext(role domain.AdminRole) (context.Context, domain.Actor) {
	actor := domain.Actor{
		AdminID:   uuid.New(),
		Username:  "desk-" + string(role),
		Role:      role,
		SessionID: uuid.New(),
	}
	ctx := domain.WithActor(context.Background(), actor)
	ctx = domain.WithRequestMeta(ctx, domain.RequestMeta{IP: "203.0.113.7", UserAgent: "service-test"})
	return ctx, actor
}

type memoryActivityLogs struct {
	mu        sync.Mutex
	entries   []domain.ActivityLog
	insertErr error
}

func (m *memoryActivityLogs) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	entry.ID = uuid.New()
	entry.CreatedAt = fixedNow
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityLogs) List(ctx context.Context, filter domain.ActivityLogFilter) ([]domain.ActivityLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ActivityLog
	for _, e := range m.entries {
		if filter.Resource != "" && e.Resource != filter.Resource {
			continue
		}
		if filter.Action != "" && string(e.Action) != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return page(out, filter.Pagination), len(out), nil
}

func (m *memoryActivityLogs) snapshot() []domain.ActivityLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityLog(nil), m.entries...)
}

func page[T any](items []T, p domain.Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := len(items)
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}
	return items[start:end]
}

type countingObserver struct {
	auditFailures int
	validations   map[bool]int
	bookings      map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{validations: map[bool]int{}, bookings: map[string]int{}}
}

func (o *countingObserver) AuditFailed()                 { o.auditFailures++ }
func (o *countingObserver) VoucherValidated(valid bool)  { o.validations[valid]++ }
func (o *countingObserver) BookingCreated(source string) { o.bookings[source]++ }

type memoryAdmins struct {
	mu     sync.Mutex
	admins map[uuid.UUID]domain.Admin
	logins []uuid.UUID
}

func newMemoryAdmins() *memoryAdmins {
	return &memoryAdmins{admins: map[uuid.UUID]domain.Admin{}}
}

func (m *memoryAdmins) Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *admin
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = fixedNow
	m.admins[stored.ID] = stored
	return &stored, nil
}

func (m *memoryAdmins) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &admin, nil
}

func (m *memoryAdmins) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, admin := range m.admins {
		if admin.Username == username {
			a := admin
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryAdmins) List(ctx context.Context) ([]domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Admin, 0, len(m.admins))
	for _, admin := range m.admins {
		out = append(out, admin)
	}
	return out, nil
}

func (m *memoryAdmins) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.admins), nil
}

func (m *memoryAdmins) Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.Email != nil {
		admin.Email = *update.Email
	}
	if update.FullName != nil {
		admin.FullName = *update.FullName
	}
	if update.Role != nil {
		admin.Role = *update.Role
	}
	if update.IsActive != nil {
		admin.IsActive = *update.IsActive
	}
	if update.PasswordHash != nil {
		admin.PasswordHash = *update.PasswordHash
	}
	m.admins[id] = admin
	return &admin, nil
}

func (m *memoryAdmins) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[id]
	if !ok {
		return sql.ErrNoRows
	}
	admin.LastLogin = &at
	admin.LastLoginIP = ip
	m.admins[id] = admin
	m.logins = append(m.logins, id)
	return nil
}

func (m *memoryAdmins) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.admins, id)
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]domain.AdminSession
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[uuid.UUID]domain.AdminSession{}}
}

func (m *memorySessions) Create(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *session
	stored.IsActive = true
	stored.CreatedAt = fixedNow
	m.sessions[stored.ID] = stored
	return &stored, nil
}

func (m *memorySessions) FindActive(ctx context.Context, id uuid.UUID) (*domain.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || !session.IsActive {
		return nil, sql.ErrNoRows
	}
	return &session, nil
}

func (m *memorySessions) Deactivate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	session.IsActive = false
	m.sessions[id] = session
	return nil
}

func (m *memorySessions) DeactivateByAdmin(ctx context.Context, adminID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, session := range m.sessions {
		if session.AdminID == adminID {
			session.IsActive = false
			m.sessions[id] = session
		}
	}
	return nil
}

type memoryTours struct {
	mu    sync.Mutex
	tours map[uuid.UUID]domain.Tour
}

func newMemoryTours(tours ...domain.Tour) *memoryTours {
	m := &memoryTours{tours: map[uuid.UUID]domain.Tour{}}
	for _, t := range tours {
		m.tours[t.ID] = t
	}
	return m
}

func (m *memoryTours) Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *tour
	stored.ID = uuid.New()
	stored.CreatedAt = fixedNow
	stored.UpdatedAt = fixedNow
	m.tours[stored.ID] = stored
	return &stored, nil
}

func (m *memoryTours) Update(ctx context.Context, tour *domain.Tour) (*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.tours[tour.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	stored := *tour
	stored.Slug = current.Slug
	stored.Views = current.Views
	stored.Bookings = current.Bookings
	m.tours[stored.ID] = stored
	return &stored, nil
}

func (m *memoryTours) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tour, ok := m.tours[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &tour, nil
}

func (m *memoryTours) GetBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tour := range m.tours {
		if tour.Slug == slug {
			t := tour
			return &t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryTours) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := m.GetBySlug(ctx, slug)
	return err == nil, nil
}

func (m *memoryTours) List(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Tour
	for _, tour := range m.tours {
		if filter.Visibility == domain.VisibilityPublic && tour.Status != domain.TourStatusPublished {
			continue
		}
		if filter.Status != nil && tour.Status != *filter.Status {
			continue
		}
		if filter.Featured != nil && tour.Featured != *filter.Featured {
			continue
		}
		out = append(out, tour)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memoryTours) IncrementViews(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tour, ok := m.tours[id]
	if !ok {
		return sql.ErrNoRows
	}
	tour.Views++
	m.tours[id] = tour
	return nil
}

func (m *memoryTours) IncrementBookings(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tour, ok := m.tours[id]
	if !ok {
		return sql.ErrNoRows
	}
	tour.Bookings++
	m.tours[id] = tour
	return nil
}

func (m *memoryTours) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tours[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.tours, id)
	return nil
}

type memoryVouchers struct {
	mu       sync.Mutex
	vouchers map[uuid.UUID]domain.Voucher
}

func newMemoryVouchers(vouchers ...domain.Voucher) *memoryVouchers {
	m := &memoryVouchers{vouchers: map[uuid.UUID]domain.Voucher{}}
	for _, v := range vouchers {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		m.vouchers[v.ID] = v
	}
	return m
}

func (m *memoryVouchers) Create(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *voucher
	stored.ID = uuid.New()
	m.vouchers[stored.ID] = stored
	return &stored, nil
}

func (m *memoryVouchers) Update(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.vouchers[voucher.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	stored := *voucher
	stored.UsageCount = current.UsageCount
	m.vouchers[stored.ID] = stored
	return &stored, nil
}

func (m *memoryVouchers) GetByID(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (m *memoryVouchers) FindActiveByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vouchers {
		if v.Code == code && v.Active {
			found := v
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryVouchers) List(ctx context.Context) ([]domain.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Voucher, 0, len(m.vouchers))
	for _, v := range m.vouchers {
		out = append(out, v)
	}
	return out, nil
}

func (m *memoryVouchers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vouchers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.vouchers, id)
	return nil
}

func (m *memoryVouchers) Redeem(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vouchers[id]
	if !ok || !v.Active || v.Exhausted() {
		return false, nil
	}
	v.UsageCount++
	m.vouchers[id] = v
	return true, nil
}

type memoryBookings struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]domain.Booking
	order    []uuid.UUID
	// redeem stands in for the voucher update that shares the insert's
	// transaction. Nil accepts every voucher.
	redeem    func(ctx context.Context, id uuid.UUID) (bool, error)
	createErr error
}

func newMemoryBookings() *memoryBookings {
	return &memoryBookings{bookings: map[uuid.UUID]domain.Booking{}}
}

func (m *memoryBookings) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(booking)
}

// CreateRedeeming redeems only when the insert will succeed, which is what a
// rolled back transaction looks like from outside.
func (m *memoryBookings) CreateRedeeming(ctx context.Context, booking *domain.Booking, voucherID uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.redeem != nil {
		ok, err := m.redeem(ctx, voucherID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ports.ErrVoucherUnavailable
		}
	}
	return m.insertLocked(booking)
}

func (m *memoryBookings) insertLocked(booking *domain.Booking) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	stored := *booking
	stored.ID = uuid.New()
	stored.CreatedAt = fixedNow
	stored.UpdatedAt = fixedNow
	m.bookings[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

func (m *memoryBookings) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	stored := *booking
	m.bookings[stored.ID] = stored
	return &stored, nil
}

func (m *memoryBookings) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &b, nil
}

func (m *memoryBookings) matching(filter domain.BookingFilter) []domain.Booking {
	var out []domain.Booking
	for _, id := range m.order {
		b, ok := m.bookings[id]
		if !ok {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && b.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.UserID != nil && (b.UserID == nil || *b.UserID != *filter.UserID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(b.CustomerName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (m *memoryBookings) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(filter)
	return page(all, filter.Pagination), len(all), nil
}

func (m *memoryBookings) ListAll(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matching(filter), nil
}

func (m *memoryBookings) CountVoucherUses(ctx context.Context, code, customerEmail string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, b := range m.bookings {
		if b.VoucherCode == strings.ToUpper(code) && strings.EqualFold(b.CustomerEmail, customerEmail) {
			count++
		}
	}
	return count, nil
}

func (m *memoryBookings) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.bookings, id)
	return nil
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]domain.Review
}

func newMemoryReviews(reviews ...domain.Review) *memoryReviews {
	m := &memoryReviews{reviews: map[uuid.UUID]domain.Review{}}
	for _, r := range reviews {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		m.reviews[r.ID] = r
	}
	return m
}

func (m *memoryReviews) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *review
	stored.ID = uuid.New()
	m.reviews[stored.ID] = stored
	return &stored, nil
}

func (m *memoryReviews) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[review.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	stored := *review
	m.reviews[stored.ID] = stored
	return &stored, nil
}

func (m *memoryReviews) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m *memoryReviews) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.reviews {
		if filter.Approved != nil && r.Approved != *filter.Approved {
			continue
		}
		if filter.Hidden != nil && r.Hidden != *filter.Hidden {
			continue
		}
		if filter.Featured != nil && r.Featured != *filter.Featured {
			continue
		}
		if filter.TourID != nil && (r.TourID == nil || *r.TourID != *filter.TourID) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out, nil
}

func (m *memoryReviews) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.reviews, id)
	return nil
}

type memorySettings struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
	puts int
}

func newMemorySettings() *memorySettings {
	return &memorySettings{docs: map[string]json.RawMessage{}}
}

func (m *memorySettings) GetOrCreate(ctx context.Context, key string, defaults json.RawMessage) (*domain.SettingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		m.docs[key] = append(json.RawMessage(nil), defaults...)
	}
	return &domain.SettingDocument{Key: key, Value: m.docs[key], UpdatedAt: fixedNow}, nil
}

func (m *memorySettings) Get(ctx context.Context, key string) (*domain.SettingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.docs[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &domain.SettingDocument{Key: key, Value: value, UpdatedAt: fixedNow}, nil
}

func (m *memorySettings) Put(ctx context.Context, key string, value json.RawMessage) (*domain.SettingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append(json.RawMessage(nil), value...)
	m.puts++
	return &domain.SettingDocument{Key: key, Value: m.docs[key], UpdatedAt: fixedNow}, nil
}

func (m *memorySettings) ListByPrefix(ctx context.Context, prefix string) ([]domain.SettingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SettingDocument
	for key, value := range m.docs {
		if strings.HasPrefix(key, prefix) {
			out = append(out, domain.SettingDocument{Key: key, Value: value, UpdatedAt: fixedNow})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type memoryGallery struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.GalleryItem
}

func newMemoryGallery() *memoryGallery {
	return &memoryGallery{items: map[uuid.UUID]domain.GalleryItem{}}
}

func (m *memoryGallery) Create(ctx context.Context, item *domain.GalleryItem) (*domain.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *item
	stored.ID = uuid.New()
	m.items[stored.ID] = stored
	return &stored, nil
}

func (m *memoryGallery) UpdateCaption(ctx context.Context, id uuid.UUID, caption string) (*domain.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	item.Caption = caption
	m.items[id] = item
	return &item, nil
}

func (m *memoryGallery) GetByID(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (m *memoryGallery) List(ctx context.Context) ([]domain.GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.GalleryItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memoryGallery) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type fakeStorage struct {
	uploads []struct {
		bucket      string
		objectName  string
		contentType string
		data        []byte
	}
	removed   []string
	uploadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, struct {
		bucket      string
		objectName  string
		contentType string
		data        []byte
	}{bucket, objectName, contentType, buf.Bytes()})
	return "https://cdn.example.com/" + bucket + "/" + objectName, nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	f.removed = append(f.removed, objectName)
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[uuid.UUID]domain.User{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *user
	stored.ID = uuid.New()
	m.users[stored.ID] = stored
	return &stored, nil
}

func (m *memoryUsers) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	stored := *user
	m.users[stored.ID] = stored
	return &stored, nil
}

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (m *memoryUsers) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if filter.IsBlocked != nil && u.IsBlocked != *filter.IsBlocked {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, filter.Pagination), len(out), nil
}

func (m *memoryUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type memoryInquiries struct {
	mu        sync.Mutex
	inquiries map[uuid.UUID]domain.Inquiry
}

func newMemoryInquiries() *memoryInquiries {
	return &memoryInquiries{inquiries: map[uuid.UUID]domain.Inquiry{}}
}

func (m *memoryInquiries) Create(ctx context.Context, inquiry *domain.Inquiry) (*domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *inquiry
	stored.ID = uuid.New()
	m.inquiries[stored.ID] = stored
	return &stored, nil
}

func (m *memoryInquiries) Update(ctx context.Context, inquiry *domain.Inquiry) (*domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inquiries[inquiry.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	stored := *inquiry
	m.inquiries[stored.ID] = stored
	return &stored, nil
}

func (m *memoryInquiries) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inquiries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &i, nil
}

func (m *memoryInquiries) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Inquiry
	for _, i := range m.inquiries {
		if filter.Status != nil && i.Status != *filter.Status {
			continue
		}
		out = append(out, i)
	}
	return page(out, filter.Pagination), len(out), nil
}

func (m *memoryInquiries) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inquiries[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.inquiries, id)
	return nil
}

type recordingNotifier struct {
	bookings  []uuid.UUID
	inquiries []uuid.UUID
	err       error
}

func (n *recordingNotifier) NotifyBooking(ctx context.Context, booking *domain.Booking) error {
	n.bookings = append(n.bookings, booking.ID)
	return n.err
}

func (n *recordingNotifier) NotifyInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	n.inquiries = append(n.inquiries, inquiry.ID)
	return n.err
}
