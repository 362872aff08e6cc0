package application

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// mockProductRepo is an in-memory ProductRepository. Listing supports
// the keyword match and plain category equality, which is all the
// service tests need.
type mockProductRepo struct {
	products  map[primitive.ObjectID]*entity.Product
	order     []primitive.ObjectID
	updateErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*entity.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	m.products[p.ID] = &cp
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *entity.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepo) matches(p *entity.Product, q repo.ProductQuery) bool {
	if q.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Keyword)) {
		return false
	}
	if cat, ok := q.Filters["category"]; ok && p.Category != cat {
		return false
	}
	return true
}

func (m *mockProductRepo) List(_ context.Context, q repo.ProductQuery, skip, limit int64) ([]entity.Product, error) {
	var all []entity.Product
	for _, id := range m.order {
		if p := m.products[id]; m.matches(p, q) {
			all = append(all, *p)
		}
	}
	if skip >= int64(len(all)) {
		return []entity.Product{}, nil
	}
	all = all[skip:]
	if limit > 0 && int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockProductRepo) Count(_ context.Context, q repo.ProductQuery) (int64, error) {
	var n int64
	for _, p := range m.products {
		if m.matches(p, q) {
			n++
		}
	}
	return n, nil
}

func (m *mockProductRepo) ListAll(_ context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m *mockProductRepo) UpdateReviews(_ context.Context, id primitive.ObjectID, reviews []entity.Review, ratings float64, numberOfReviews int) error {
	p, ok := m.products[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.Reviews = reviews
	p.Ratings = ratings
	p.NumberOfReviews = numberOfReviews
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p, ok := m.products[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

type mockOrderRepo struct {
	orders map[primitive.ObjectID]*entity.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*entity.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *entity.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]entity.Order, error) {
	out := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status entity.OrderStatus, deliveredAt *time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	o.OrderStatus = status
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(m.orders, id)
	return nil
}

type mockUserRepo struct {
	users map[primitive.ObjectID]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*entity.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Password = hash
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id primitive.ObjectID, role string) error {
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Role = role
	return nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(m.users, id)
	return nil
}

// mockImageStore records uploads and removals so tests can assert the
// rollback and release behavior.
type mockImageStore struct {
	stored    map[string][]byte
	removed   []string
	uploadErr error
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{stored: make(map[string][]byte)}
}

func (m *mockImageStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	m.stored[objectPath] = buf.Bytes()
	return "https://storage.example.com/" + objectPath, nil
}

func (m *mockImageStore) Remove(_ context.Context, objectPath string) error {
	delete(m.stored, objectPath)
	m.removed = append(m.removed, objectPath)
	return nil
}
