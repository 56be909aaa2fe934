package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SalonRepository ──

type mockSalonRepo struct {
	salons map[string]*model.Salon
	// 关联数据来源，GetDetail 时拼装
	repo *repository.Repository
}

func newMockSalonRepo() *mockSalonRepo {
	return &mockSalonRepo{salons: make(map[string]*model.Salon)}
}

func (m *mockSalonRepo) Create(_ context.Context, salon *model.Salon) error {
	if salon.SalonID == "" {
		salon.SalonID = fmt.Sprintf("salon-%d", len(m.salons)+1)
	}
	m.salons[salon.SalonID] = salon
	return nil
}

func (m *mockSalonRepo) GetByID(_ context.Context, id string) (*model.Salon, error) {
	if s, ok := m.salons[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalonRepo) GetDetail(ctx context.Context, id string) (*model.Salon, error) {
	s, ok := m.salons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	detail := *s
	if m.repo != nil {
		detail.Services, _ = m.repo.Catalog.ListBySalon(ctx, id)
		detail.Staff, _ = m.repo.Staff.ListBySalon(ctx, id)
		detail.Reviews, _ = m.repo.Review.ListBySalon(ctx, id)
		detail.Photos, _ = m.repo.Photo.ListBySalon(ctx, id)
	}
	return &detail, nil
}

func (m *mockSalonRepo) List(ctx context.Context) ([]model.Salon, error) {
	var result []model.Salon
	for _, s := range m.salons {
		item := *s
		if m.repo != nil {
			item.Reviews, _ = m.repo.Review.ListBySalon(ctx, s.SalonID)
			item.Photos, _ = m.repo.Photo.ListBySalon(ctx, s.SalonID)
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SalonID < result[j].SalonID })
	return result, nil
}

func (m *mockSalonRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Salon, error) {
	var result []model.Salon
	for _, s := range m.salons {
		if s.OwnerUserID == ownerID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SalonID < result[j].SalonID })
	return result, nil
}

func (m *mockSalonRepo) Update(_ context.Context, salon *model.Salon) error {
	if _, ok := m.salons[salon.SalonID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.salons[salon.SalonID] = salon
	return nil
}

func (m *mockSalonRepo) Delete(_ context.Context, id string) error {
	delete(m.salons, id)
	return nil
}

// ── Mock PhotoRepository ──

type mockPhotoRepo struct {
	photos   map[string]*model.SalonPhoto
	seq      int
	onCreate func() // 在计数前执行，模拟并发写入
}

func newMockPhotoRepo() *mockPhotoRepo {
	return &mockPhotoRepo{photos: make(map[string]*model.SalonPhoto)}
}

func (m *mockPhotoRepo) CountBySalon(_ context.Context, salonID string) (int64, error) {
	var n int64
	for _, p := range m.photos {
		if p.SalonID == salonID {
			n++
		}
	}
	return n, nil
}

func (m *mockPhotoRepo) Create(ctx context.Context, photo *model.SalonPhoto, limit int) error {
	if m.onCreate != nil {
		hook := m.onCreate
		m.onCreate = nil
		hook()
	}
	if n, _ := m.CountBySalon(ctx, photo.SalonID); limit > 0 && n >= int64(limit) {
		return repository.ErrPhotoLimitReached
	}
	m.seq++
	if photo.PhotoID == "" {
		photo.PhotoID = fmt.Sprintf("photo-%02d", m.seq)
	}
	photo.CreatedAt = time.Unix(int64(m.seq), 0)
	n, _ := m.CountBySalon(ctx, photo.SalonID)
	photo.IsMain = n == 0
	m.photos[photo.PhotoID] = photo
	return nil
}

func (m *mockPhotoRepo) GetByID(_ context.Context, id string) (*model.SalonPhoto, error) {
	if p, ok := m.photos[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPhotoRepo) ListBySalon(_ context.Context, salonID string) ([]model.SalonPhoto, error) {
	var result []model.SalonPhoto
	for _, p := range m.photos {
		if p.SalonID == salonID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsMain != result[j].IsMain {
			return result[i].IsMain
		}
		return result[i].PhotoID < result[j].PhotoID
	})
	return result, nil
}

func (m *mockPhotoRepo) SetMain(_ context.Context, salonID, photoID string) error {
	target, ok := m.photos[photoID]
	if !ok || target.SalonID != salonID {
		return gorm.ErrRecordNotFound
	}
	for _, p := range m.photos {
		if p.SalonID == salonID {
			p.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (m *mockPhotoRepo) Delete(_ context.Context, photo *model.SalonPhoto) error {
	delete(m.photos, photo.PhotoID)
	if !photo.IsMain {
		return nil
	}
	var next *model.SalonPhoto
	for _, p := range m.photos {
		if p.SalonID == photo.SalonID && (next == nil || p.PhotoID < next.PhotoID) {
			next = p
		}
	}
	if next != nil {
		next.IsMain = true
	}
	return nil
}

func (m *mockPhotoRepo) mainCount(salonID string) int {
	n := 0
	for _, p := range m.photos {
		if p.SalonID == salonID && p.IsMain {
			n++
		}
	}
	return n
}

// ── Mock CatalogRepository ──

type mockCatalogRepo struct {
	services map[string]*model.Service
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{services: make(map[string]*model.Service)}
}

func (m *mockCatalogRepo) Create(_ context.Context, svc *model.Service) error {
	if svc.ServiceID == "" {
		svc.ServiceID = fmt.Sprintf("svc-%d", len(m.services)+1)
	}
	m.services[svc.ServiceID] = svc
	return nil
}

func (m *mockCatalogRepo) GetByID(_ context.Context, id string) (*model.Service, error) {
	if s, ok := m.services[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListBySalon(_ context.Context, salonID string) ([]model.Service, error) {
	var result []model.Service
	for _, s := range m.services {
		if s.SalonID == salonID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ServiceID < result[j].ServiceID })
	return result, nil
}

func (m *mockCatalogRepo) Delete(_ context.Context, id string) error {
	delete(m.services, id)
	return nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, st *model.Staff) error {
	if st.StaffID == "" {
		st.StaffID = fmt.Sprintf("staff-%d", len(m.staff)+1)
	}
	m.staff[st.StaffID] = st
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListBySalon(_ context.Context, salonID string) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staff {
		if s.SalonID == salonID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StaffID < result[j].StaffID })
	return result, nil
}

func (m *mockStaffRepo) UpdatePhoto(_ context.Context, id string, photoPath *string) error {
	s, ok := m.staff[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.PhotoPath = photoPath
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	delete(m.staff, id)
	return nil
}

func (m *mockStaffRepo) ReplaceSkills(_ context.Context, staffID string, serviceIDs []string) error {
	s, ok := m.staff[staffID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Skills = nil
	for _, id := range serviceIDs {
		s.Skills = append(s.Skills, model.StaffSkill{StaffID: staffID, ServiceID: id})
	}
	return nil
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct {
	reviews []model.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	if review.ReviewID == "" {
		review.ReviewID = fmt.Sprintf("review-%d", len(m.reviews)+1)
	}
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepo) ListBySalon(_ context.Context, salonID string) ([]model.Review, error) {
	var result []model.Review
	for _, r := range m.reviews {
		if r.SalonID == salonID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock WeeklyScheduleRepository ──

type mockWeeklyRepo struct {
	entries map[string]*model.WeeklySchedule
}

func newMockWeeklyRepo() *mockWeeklyRepo {
	return &mockWeeklyRepo{entries: make(map[string]*model.WeeklySchedule)}
}

func weeklyKey(salonID string, weekday int) string {
	return fmt.Sprintf("%s/%d", salonID, weekday)
}

func (m *mockWeeklyRepo) GetBySalonAndWeekday(_ context.Context, salonID string, weekday int) (*model.WeeklySchedule, error) {
	if e, ok := m.entries[weeklyKey(salonID, weekday)]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyRepo) ListBySalon(_ context.Context, salonID string) ([]model.WeeklySchedule, error) {
	var result []model.WeeklySchedule
	for _, e := range m.entries {
		if e.SalonID == salonID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Weekday < result[j].Weekday })
	return result, nil
}

func (m *mockWeeklyRepo) Upsert(_ context.Context, entry *model.WeeklySchedule) error {
	cp := *entry
	m.entries[weeklyKey(entry.SalonID, entry.Weekday)] = &cp
	return nil
}

func (m *mockWeeklyRepo) Delete(_ context.Context, salonID string, weekday int) error {
	key := weeklyKey(salonID, weekday)
	if _, ok := m.entries[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, key)
	return nil
}

// ── Mock SpecialDayRepository ──

type mockSpecialDayRepo struct {
	days map[string]*model.SpecialDay
}

func newMockSpecialDayRepo() *mockSpecialDayRepo {
	return &mockSpecialDayRepo{days: make(map[string]*model.SpecialDay)}
}

func (m *mockSpecialDayRepo) GetBySalonAndDate(_ context.Context, salonID string, date model.Date) (*model.SpecialDay, error) {
	if d, ok := m.days[salonID+"/"+date.String()]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpecialDayRepo) ListBySalon(_ context.Context, salonID string, from *model.Date) ([]model.SpecialDay, error) {
	var result []model.SpecialDay
	for _, d := range m.days {
		if d.SalonID != salonID {
			continue
		}
		if from != nil && d.Date < *from {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *mockSpecialDayRepo) Upsert(_ context.Context, day *model.SpecialDay) error {
	cp := *day
	m.days[day.SalonID+"/"+day.Date.String()] = &cp
	return nil
}

func (m *mockSpecialDayRepo) Delete(_ context.Context, salonID string, date model.Date) error {
	key := salonID + "/" + date.String()
	if _, ok := m.days[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.days, key)
	return nil
}

// ── Mock UnavailabilityRepository ──

type mockUnavailabilityRepo struct {
	rows   []model.StaffUnavailability
	staff  *mockStaffRepo
	writes int
}

func newMockUnavailabilityRepo(staff *mockStaffRepo) *mockUnavailabilityRepo {
	return &mockUnavailabilityRepo{staff: staff}
}

func (m *mockUnavailabilityRepo) ListByStaffAndDate(_ context.Context, staffID string, date model.Date) ([]model.StaffUnavailability, error) {
	var result []model.StaffUnavailability
	for _, r := range m.rows {
		if r.StaffID == staffID && r.Date == date {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return timeOf(result[i]) < timeOf(result[j]) })
	return result, nil
}

func (m *mockUnavailabilityRepo) ListBySalonFrom(_ context.Context, salonID string, from model.Date) ([]model.StaffUnavailability, error) {
	var result []model.StaffUnavailability
	for _, r := range m.rows {
		st, ok := m.staff.staff[r.StaffID]
		if !ok || st.SalonID != salonID || r.Date < from {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StaffID != b.StaffID {
			return a.StaffID < b.StaffID
		}
		return timeOf(a) < timeOf(b)
	})
	return result, nil
}

func (m *mockUnavailabilityRepo) ReplaceForDay(ctx context.Context, staffID string, date model.Date, times []string) error {
	m.writes++
	_ = m.DeleteForDay(ctx, staffID, date)
	if len(times) == 0 {
		m.rows = append(m.rows, model.StaffUnavailability{StaffID: staffID, Date: date})
		return nil
	}
	for _, t := range times {
		t := t
		m.rows = append(m.rows, model.StaffUnavailability{StaffID: staffID, Date: date, Time: &t})
	}
	return nil
}

func (m *mockUnavailabilityRepo) DeleteForDay(_ context.Context, staffID string, date model.Date) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.StaffID == staffID && r.Date == date {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return nil
}

func timeOf(r model.StaffUnavailability) string {
	if r.Time == nil {
		return ""
	}
	return *r.Time
}

// ── Mock ImageStore ──

type mockImageStore struct {
	saved   map[string]bool
	deleted []string
	fail    error
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{saved: make(map[string]bool)}
}

func (m *mockImageStore) Allowed(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (m *mockImageStore) SaveImage(subdir, filename string, _ io.Reader, _ int) (string, string, error) {
	if m.fail != nil {
		return "", "", m.fail
	}
	rel := fmt.Sprintf("%s/%d.webp", subdir, len(m.saved)+1)
	m.saved[rel] = true
	return rel, "webp", nil
}

func (m *mockImageStore) Delete(rel string) error {
	m.deleted = append(m.deleted, rel)
	delete(m.saved, rel)
	return nil
}

func (m *mockImageStore) URL(rel string) string {
	if rel == "" || strings.HasPrefix(rel, "http") {
		return rel
	}
	return "/static/uploads/" + rel
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.tokens == nil {
		m.tokens = make(map[string]time.Duration)
	}
	m.tokens[jti] = ttl
	return nil
}

// ── 测试夹具 ──

type mocks struct {
	users          *mockUserRepo
	salons         *mockSalonRepo
	photos         *mockPhotoRepo
	catalog        *mockCatalogRepo
	staff          *mockStaffRepo
	reviews        *mockReviewRepo
	weekly         *mockWeeklyRepo
	specialDays    *mockSpecialDayRepo
	unavailability *mockUnavailabilityRepo
}

// newMockRepository 组装全部 mock，返回可直接注入 Service 的 Repository 聚合
func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		users:       newMockUserRepo(),
		salons:      newMockSalonRepo(),
		photos:      newMockPhotoRepo(),
		catalog:     newMockCatalogRepo(),
		staff:       newMockStaffRepo(),
		reviews:     newMockReviewRepo(),
		weekly:      newMockWeeklyRepo(),
		specialDays: newMockSpecialDayRepo(),
	}
	m.unavailability = newMockUnavailabilityRepo(m.staff)

	repo := &repository.Repository{
		User:           m.users,
		Salon:          m.salons,
		Photo:          m.photos,
		Catalog:        m.catalog,
		Staff:          m.staff,
		Review:         m.reviews,
		WeeklySchedule: m.weekly,
		SpecialDay:     m.specialDays,
		Unavailability: m.unavailability,
	}
	m.salons.repo = repo
	return repo, m
}

// seedSalon 创建一个属于 owner-1 的沙龙与一名员工
func (m *mocks) seedSalon() (*model.Salon, *model.Staff) {
	salon := &model.Salon{SalonID: "salon-1", OwnerUserID: "owner-1", Name: "Glow Studio", Location: "Tbilisi"}
	m.salons.salons[salon.SalonID] = salon
	st := &model.Staff{StaffID: "staff-1", SalonID: salon.SalonID, Name: "Nino"}
	m.staff.staff[st.StaffID] = st
	return salon, st
}

func strPtr(s string) *string { return &s }
