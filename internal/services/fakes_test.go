package services

import (
	"context"
	"encoding/json"
	"errors"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func customer(id uint) *Session {
	return &Session{UserID: id, Username: "guest", Role: string(models.Customer)}
}
func staffer(id uint) *Session {
	return &Session{UserID: id, Username: "chef", Role: string(models.Staff)}
}

// menu

type fakeMenuRepo struct {
	categories []models.MenuCategory
	items      map[uint]models.MenuItem
	specials   []models.DailySpecial
	listCalls  int
}

func newFakeMenuRepo(items ...models.MenuItem) *fakeMenuRepo {
	r := &fakeMenuRepo{items: map[uint]models.MenuItem{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeMenuRepo) ListCategories(context.Context) ([]models.MenuCategory, error) {
	r.listCalls++
	return append([]models.MenuCategory(nil), r.categories...), nil
}

func (r *fakeMenuRepo) CreateCategory(_ context.Context, c *models.MenuCategory) error {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uint(len(r.categories) + 1)
	r.categories = append(r.categories, *c)
	return nil
}

func (r *fakeMenuRepo) CategoryExists(_ context.Context, id uint) (bool, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMenuRepo) ListItems(_ context.Context, f repository.MenuFilter, p repository.Page) ([]models.MenuItem, int64, error) {
	r.listCalls++
	var out []models.MenuItem
	for _, it := range r.items {
		if f.Query != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Query)) {
			continue
		}
		if f.FeaturedOnly && !it.IsFeatured {
			continue
		}
		if f.AvailableOnly && !it.IsAvailable {
			continue
		}
		if f.CategoryID != nil && (it.CategoryID == nil || *it.CategoryID != *f.CategoryID) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if p.Limit > 0 {
		if p.Offset >= len(out) {
			return []models.MenuItem{}, total, nil
		}
		end := p.Offset + p.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[p.Offset:end]
	}
	return out, total, nil
}

func (r *fakeMenuRepo) GetItem(_ context.Context, id uint) (*models.MenuItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r *fakeMenuRepo) GetItemsByIDs(_ context.Context, ids []uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	seen := map[uint]bool{}
	for _, id := range ids {
		if it, ok := r.items[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) CreateItem(_ context.Context, it *models.MenuItem) error {
	it.ID = uint(len(r.items) + 100)
	r.items[it.ID] = *it
	return nil
}

func (r *fakeMenuRepo) UpdateItem(_ context.Context, it *models.MenuItem) error {
	r.items[it.ID] = *it
	return nil
}

func (r *fakeMenuRepo) DeleteItem(_ context.Context, id uint) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeMenuRepo) ReplaceDetails(_ context.Context, id uint, n *models.NutritionalInfo, ingredients []models.Ingredient) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.Nutrition = n
	it.Ingredients = append([]models.Ingredient(nil), ingredients...)
	r.items[id] = it
	return nil
}

func (r *fakeMenuRepo) ListAvailableSpecials(context.Context) ([]models.DailySpecial, error) {
	var out []models.DailySpecial
	for _, s := range r.specials {
		if s.Available {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) CreateSpecial(_ context.Context, s *models.DailySpecial) error {
	s.ID = uint(len(r.specials) + 1)
	r.specials = append(r.specials, *s)
	return nil
}

// tables

type fakeTableRepo struct {
	tables map[uint]*models.DiningTable
}

func newFakeTableRepo(tables ...models.DiningTable) *fakeTableRepo {
	r := &fakeTableRepo{tables: map[uint]*models.DiningTable{}}
	for i := range tables {
		t := tables[i]
		r.tables[t.ID] = &t
	}
	return r
}

func (r *fakeTableRepo) List(_ context.Context, availableOnly bool) ([]models.DiningTable, error) {
	var out []models.DiningTable
	for _, t := range r.tables {
		if availableOnly && !t.IsAvailable {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id uint) (*models.DiningTable, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTableRepo) Create(_ context.Context, t *models.DiningTable) error {
	for _, existing := range r.tables {
		if existing.Number == t.Number {
			return gorm.ErrDuplicatedKey
		}
	}
	t.ID = uint(len(r.tables) + 1)
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *fakeTableRepo) Reserve(_ context.Context, id uint, party int) (bool, error) {
	t, ok := r.tables[id]
	if !ok || !t.IsAvailable || t.Capacity < party {
		return false, nil
	}
	t.IsAvailable = false
	return true, nil
}

func (r *fakeTableRepo) Release(_ context.Context, id uint) (bool, error) {
	t, ok := r.tables[id]
	if !ok {
		return false, nil
	}
	t.IsAvailable = true
	return true, nil
}

// orders

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uint]*models.Order
	deleted   map[string]bool
	history   []models.OrderStatusHistory
	nextID    uint
	createErr []error
	taken     map[string]bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]*models.Order{}, deleted: map[string]bool{}, taken: map[string]bool{}}
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order, by uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErr) > 0 {
		err := r.createErr[0]
		r.createErr = r.createErr[1:]
		return err
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = uint(i + 1)
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = cloneOrder(o)
	r.history = append(r.history, models.OrderStatusHistory{OrderID: o.ID, ToStatus: o.Status, ChangedBy: by})
	return nil
}

func (r *fakeOrderRepo) CodeExists(_ context.Context, code string) (bool, error) {
	if r.taken[code] || r.deleted[code] {
		return true, nil
	}
	for _, o := range r.orders {
		if o.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) List(_ context.Context, f repository.OrderFilter, p repository.Page) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if f.OldestFirst {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	total := int64(len(out))
	if p.Limit > 0 && p.Offset < len(out) {
		end := p.Offset + p.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[p.Offset:end]
	} else if p.Limit > 0 {
		out = nil
	}
	return out, total, nil
}

func (r *fakeOrderRepo) ListActive(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.Status == models.OrderPending || o.Status == models.OrderProcessing {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) ReplaceItems(_ context.Context, id uint, items []models.OrderItem, total decimal.Decimal) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	o.Items = append([]models.OrderItem(nil), items...)
	o.TotalAmount = total
	return true, nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, id uint, from []models.OrderStatus, to models.OrderStatus, by uint) (models.OrderStatus, bool, error) {
	o, ok := r.orders[id]
	if !ok {
		return "", false, gorm.ErrRecordNotFound
	}
	prev := o.Status
	for _, s := range from {
		if s == prev {
			o.Status = to
			r.history = append(r.history, models.OrderStatusHistory{OrderID: id, FromStatus: prev, ToStatus: to, ChangedBy: by})
			return prev, true, nil
		}
	}
	return prev, false, nil
}

func (r *fakeOrderRepo) DeletePending(_ context.Context, id uint) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	r.deleted[o.Code] = true
	delete(r.orders, id)
	return true, nil
}

func (r *fakeOrderRepo) History(_ context.Context, id uint) ([]models.OrderStatusHistory, error) {
	var out []models.OrderStatusHistory
	for _, h := range r.history {
		if h.OrderID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) SalesBetween(_ context.Context, start, end time.Time) (*repository.SalesSummary, error) {
	s := &repository.SalesSummary{TotalAmount: decimal.Zero}
	for _, o := range r.orders {
		if o.Status == models.OrderCancelled || o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		s.OrderCount++
		s.TotalAmount = s.TotalAmount.Add(o.TotalAmount)
	}
	return s, nil
}

// users

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uint(len(r.users) + 1)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) { return int64(len(r.users)), nil }

// sessions and cache

type fakeSessions struct {
	data map[string]*Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{data: map[string]*Session{}} }

func (f *fakeSessions) SetSession(_ context.Context, token string, s *Session, _ time.Duration) error {
	f.data[token] = s
	return nil
}

func (f *fakeSessions) GetSession(_ context.Context, token string) (*Session, error) {
	return f.data[token], nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, token string) error {
	delete(f.data, token)
	return nil
}

type fakeCache struct {
	data map[string][]byte
	err  error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

// outbound

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

type fakeAlerter struct {
	texts []string
}

func (f *fakeAlerter) Alert(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

type fakePublisher struct {
	events []models.OrderEvent
	err    error
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, e *models.OrderEvent) error {
	f.events = append(f.events, *e)
	return f.err
}

func (f *fakePublisher) types() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

var errBoom = errors.New("boom")
