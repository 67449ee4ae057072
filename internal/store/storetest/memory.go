// Package storetest provides an in-memory store with the same contract as
// store.Store: identical not-found and conflict errors, unique keys and
// orderings. It backs service and handler tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

type Memory struct {
	mu sync.Mutex

	// Err, when set, is returned by every operation.
	Err error

	users      map[uuid.UUID]models.User
	categories map[uint]models.Category
	gigs       map[uint]models.Gig
	orders     map[uuid.UUID]models.Order
	messages   []models.Message
	reviews    []models.Review

	nextCategoryID uint
	nextGigID      uint
	nextMessageID  uint
}

func New() *Memory {
	return &Memory{
		users:      map[uuid.UUID]models.User{},
		categories: map[uint]models.Category{},
		gigs:       map[uint]models.Gig{},
		orders:     map[uuid.UUID]models.Order{},
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("user with this email already exists")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *Memory) CountUsers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.users)), nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return apperr.Conflict("category already exists")
		}
	}
	m.nextCategoryID++
	c.ID = m.nextCategoryID
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("category not found")
}

func (m *Memory) CreateGig(ctx context.Context, g *models.Gig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.categories[g.CategoryID]; !ok {
		return apperr.NotFound("referenced record not found")
	}
	m.nextGigID++
	g.ID = m.nextGigID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	stored := *g
	stored.Category = nil
	stored.Owner = nil
	m.gigs[g.ID] = stored
	return nil
}

func (m *Memory) GetGig(ctx context.Context, id uint) (*models.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	g, ok := m.gigs[id]
	if !ok {
		return nil, apperr.NotFound("gig not found")
	}
	m.attachCategory(&g)
	return &g, nil
}

func (m *Memory) ListGigs(ctx context.Context) ([]models.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Gig, 0, len(m.gigs))
	for _, g := range m.gigs {
		m.attachCategory(&g)
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) attachCategory(g *models.Gig) {
	if c, ok := m.categories[g.CategoryID]; ok {
		g.Category = &c
	}
}

func (m *Memory) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	return &o, nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *datatypes.Date) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	o.Status = status
	if deliveryDate != nil {
		d := *deliveryDate
		o.DeliveryDate = &d
	}
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return &o, nil
}

func (m *Memory) ListOrdersForUser(ctx context.Context, userID uuid.UUID, role models.Role) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if role != models.RoleBuyer && role != models.RoleFreelancer {
		return nil, apperr.InvalidArgument("invalid role")
	}
	var out []models.Order
	for _, o := range m.orders {
		if (role == models.RoleBuyer && o.BuyerID == userID) ||
			(role == models.RoleFreelancer && o.FreelancerID == userID) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := time.Time(out[i].OrderDate), time.Time(out[j].OrderDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) CreateMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.orders[msg.OrderID]; !ok {
		return apperr.NotFound("referenced record not found")
	}
	if _, ok := m.users[msg.SenderID]; !ok {
		return apperr.NotFound("referenced record not found")
	}
	if _, ok := m.users[msg.ReceiverID]; !ok {
		return apperr.NotFound("referenced record not found")
	}
	m.nextMessageID++
	msg.ID = m.nextMessageID
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) ListMessages(ctx context.Context, orderID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Message
	for _, msg := range m.messages {
		if msg.OrderID == orderID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) CreateReview(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.reviews {
		if existing.OrderID == r.OrderID && existing.ReviewerID == r.ReviewerID {
			return apperr.Conflict("you have already reviewed this order")
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *Memory) ListReviewsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filterReviews(func(r models.Review) bool { return r.OrderID == orderID }), nil
}

func (m *Memory) ListReviewsByGig(ctx context.Context, gigID uint) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.filterReviews(func(r models.Review) bool {
		o, ok := m.orders[r.OrderID]
		return ok && o.GigID == gigID
	}), nil
}

func (m *Memory) filterReviews(keep func(models.Review) bool) []models.Review {
	var out []models.Review
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := time.Time(out[i].ReviewDate), time.Time(out[j].ReviewDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
