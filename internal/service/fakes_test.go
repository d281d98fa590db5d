package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
)

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.DownloadToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.DownloadToken)}
}

func (r *fakeTokenRepo) Create(t *model.DownloadToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.tokens[t.Token] = &cp
	return nil
}

func (r *fakeTokenRepo) ByToken(token string) (*model.DownloadToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) MarkUsed(token string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return repository.ErrTokenNotFound
	}
	if t.Used {
		return repository.ErrTokenUsed
	}
	t.Used = true
	t.UsedAt = &usedAt
	return nil
}

func (r *fakeTokenRepo) DeleteByEmail(email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.UserEmail == email {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) CleanupExpired(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(before) || (t.UsedAt != nil && t.UsedAt.Before(before)) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) all() []*model.DownloadToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.DownloadToken, 0, len(r.tokens))
	for _, t := range r.tokens {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	order    []string
}

func newFakeBookingRepo(seed ...*model.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[string]*model.Booking)}
	for _, b := range seed {
		_ = r.Create(b)
	}
	return r
}

func (r *fakeBookingRepo) Create(b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	cp := *b
	r.bookings[b.ID] = &cp
	r.order = append(r.order, b.ID)
	return nil
}

func (r *fakeBookingRepo) ByID(id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(filter model.BookingFilter) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	view := filter.View
	if view == "" {
		view = model.BookingViewActive
	}
	for _, id := range r.order {
		b, ok := r.bookings[id]
		if !ok || b.View() != view {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookingRepo) ByEmail(email string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, id := range r.order {
		if b, ok := r.bookings[id]; ok && b.Email == email {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByEmail(email string) (int, error) {
	list, _ := r.ByEmail(email)
	return len(list), nil
}

func (r *fakeBookingRepo) Update(b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) DeleteByEmail(email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.bookings {
		if b.Email == email {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

type fakeConsentRepo struct {
	mu      sync.Mutex
	records []*model.ConsentRecord
}

func (r *fakeConsentRepo) Create(c *model.ConsentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	cp := *c
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeConsentRepo) LatestByVisitor(visitorID string) (*model.ConsentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].VisitorID == visitorID {
			cp := *r.records[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrConsentNotFound
}

func (r *fakeConsentRepo) ByEmail(email string) ([]*model.ConsentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ConsentRecord
	for _, c := range r.records {
		if c.Email != nil && *c.Email == email {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeConsentRepo) CountByEmail(email string) (int, error) {
	list, _ := r.ByEmail(email)
	return len(list), nil
}

func (r *fakeConsentRepo) DeleteByEmail(email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.ConsentRecord
	var n int64
	for _, c := range r.records {
		if c.Email != nil && *c.Email == email {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.records = kept
	return n, nil
}

type fakeDeletionRepo struct {
	mu   sync.Mutex
	reqs map[string]*model.DeletionRequest
}

func newFakeDeletionRepo() *fakeDeletionRepo {
	return &fakeDeletionRepo{reqs: make(map[string]*model.DeletionRequest)}
}

func (r *fakeDeletionRepo) Create(req *model.DeletionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	cp := *req
	r.reqs[req.Token] = &cp
	return nil
}

func (r *fakeDeletionRepo) ByToken(token string) (*model.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[token]
	if !ok {
		return nil, repository.ErrDeletionNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeDeletionRepo) Complete(token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[token]
	if !ok {
		return repository.ErrDeletionNotFound
	}
	if req.Status != model.DeletionStatusPending {
		return repository.ErrDeletionNotPending
	}
	req.Status = model.DeletionStatusCompleted
	req.CompletedAt = &at
	return nil
}

func (r *fakeDeletionRepo) ExpirePending(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.reqs {
		if req.Status == model.DeletionStatusPending && !now.Before(req.ExpiresAt) {
			req.Status = model.DeletionStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeDeletionRepo) List(status string) ([]*model.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.DeletionRequest
	for _, req := range r.reqs {
		if status == "" || req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakePricingRepo struct {
	rates map[string]*model.PricingRate
	err   error
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{rates: map[string]*model.PricingRate{
		"babysitting": {ServiceType: "babysitting", Label: "Babysitting", HourlyRate: 15, NightRate: 20, HasNightRate: true, AdditionalChildRate: 5, Active: true},
		"nanny":       {ServiceType: "nanny", Label: "Nanny day care", HourlyRate: 18, AdditionalChildRate: 5, Active: true},
		"retired":     {ServiceType: "retired", Label: "Old service", HourlyRate: 99, AdditionalChildRate: 9, Active: false},
	}}
}

func (r *fakePricingRepo) ByServiceType(serviceType string) (*model.PricingRate, error) {
	if r.err != nil {
		return nil, r.err
	}
	rate, ok := r.rates[serviceType]
	if !ok {
		return nil, repository.ErrRateNotFound
	}
	cp := *rate
	return &cp, nil
}

func (r *fakePricingRepo) All() ([]*model.PricingRate, error) {
	var out []*model.PricingRate
	for _, rate := range r.rates {
		out = append(out, rate)
	}
	return out, nil
}

func (r *fakePricingRepo) Active() ([]*model.PricingRate, error) {
	var out []*model.PricingRate
	for _, rate := range r.rates {
		if rate.Active {
			out = append(out, rate)
		}
	}
	return out, nil
}

func (r *fakePricingRepo) Upsert(rate *model.PricingRate) error {
	cp := *rate
	r.rates[rate.ServiceType] = &cp
	return nil
}

func (r *fakePricingRepo) Delete(serviceType string) error {
	if _, ok := r.rates[serviceType]; !ok {
		return repository.ErrRateNotFound
	}
	delete(r.rates, serviceType)
	return nil
}

type fakeSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
	reads  int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: map[string]string{
		model.SettingMaintenanceMode:    "false",
		model.SettingMaintenanceMessage: "Back soon.",
	}}
}

func (r *fakeSettingsRepo) Get(key string) (*model.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	v, ok := r.values[key]
	if !ok {
		return nil, repository.ErrSettingNotFound
	}
	return &model.SiteSetting{Key: key, Value: v}, nil
}

func (r *fakeSettingsRepo) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*model.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*model.AdminUser)}
}

func (r *fakeAdminRepo) Create(a *model.AdminUser) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	cp := *a
	r.admins[a.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) ByID(id string) (*model.AdminUser, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) ByEmail(email string) (*model.AdminUser, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (r *fakeAdminRepo) UpdatePassword(id, hash string) error {
	a, ok := r.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	a.PasswordHash = hash
	return nil
}

// recordingSender captures outgoing mail and can be told to fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, msg)
	return &SendResult{Success: true, Simulated: true}, nil
}

func (s *recordingSender) Mode() string {
	return "test"
}

func (s *recordingSender) messages() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}

var errSMTPDown = errors.New("connection refused")
