// Package repotest provides an in-memory implementation of every repository
// and of repositories.Store for unit tests. Transactions work on a copy of
// the data that is committed only when the callback succeeds.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
)

type state struct {
	users      map[uint]models.User
	categories map[uint]models.Category
	products   map[uint]models.Product
	orders     map[uint]models.Order
	details    map[uint]models.OrderDetail
	seq        map[string]uint
}

func newState() *state {
	return &state{
		users:      map[uint]models.User{},
		categories: map[uint]models.Category{},
		products:   map[uint]models.Product{},
		orders:     map[uint]models.Order{},
		details:    map[uint]models.OrderDetail{},
		seq:        map[string]uint{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.details {
		c.details[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *state) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// Memory is a fake database. Failures maps an operation name such as
// "OrderDetails.BulkCreate" to the error it should return.
type Memory struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	data  *state
	clock time.Time

	Failures     map[string]error
	Transactions int
	Rollbacks    int
	// LockOrder records product ids in the order they were locked.
	LockOrder []uint
}

func NewMemory() *Memory {
	return &Memory{
		data:     newState(),
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Failures: map[string]error{},
	}
}

func (m *Memory) fail(op string) error {
	if err, ok := m.Failures[op]; ok {
		return err
	}
	return nil
}

func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// binding ties a repository to either the live data or a transaction copy.
type binding struct {
	m  *Memory
	tx *state
}

func (b binding) with(fn func(s *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	return fn(b.m.data)
}

func (m *Memory) bind(tx *state) repositories.Repositories {
	b := binding{m: m, tx: tx}
	return repositories.Repositories{
		Users:        &userRepo{b},
		Categories:   &categoryRepo{b},
		Products:     &productRepo{b},
		Orders:       &orderRepo{b},
		OrderDetails: &detailRepo{b},
	}
}

// Repositories returns repositories working directly on the live data.
func (m *Memory) Repositories() repositories.Repositories {
	return m.bind(nil)
}

func (m *Memory) Transaction(ctx context.Context, fn func(repos repositories.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.Transactions++
	work := m.data.clone()
	m.mu.Unlock()

	if err := fn(m.bind(work)); err != nil {
		m.mu.Lock()
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.data = work
	m.mu.Unlock()
	return nil
}

func (m *Memory) AddUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.data.next("users")
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	if u.LoginMethod == "" {
		u.LoginMethod = models.LoginMethodLocal
	}
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = m.tick()
	}
	m.data.users[u.ID] = u
	return u
}

func (m *Memory) AddCategory(c models.Category) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.data.next("categories")
	m.data.categories[c.ID] = c
	return c
}

func (m *Memory) AddProduct(p models.Product) models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.data.next("products")
	p.Category = nil
	m.data.products[p.ID] = p
	return p
}

func (m *Memory) AddOrder(o models.Order) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.data.next("orders")
	details := o.Details
	o.Details = nil
	o.User = nil
	if o.Date.IsZero() {
		o.Date = m.tick()
	}
	m.data.orders[o.ID] = o
	for _, d := range details {
		d.ID = m.data.next("order_details")
		d.OrderID = o.ID
		m.data.details[d.ID] = d
	}
	return o
}

func (m *Memory) User(id uint) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.data.users[id]
	return u, ok
}

func (m *Memory) Product(id uint) (models.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data.products[id]
	return p, ok
}

func (m *Memory) Category(id uint) (models.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data.categories[id]
	return c, ok
}

func (m *Memory) Order(id uint) (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.data.orders[id]
	return o, ok
}

func (m *Memory) CountOrders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.orders)
}

func (m *Memory) CountDetails() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.details)
}

func (m *Memory) CountUsers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.users)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type userRepo struct{ b binding }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if err := r.b.m.fail("Users.Create"); err != nil {
		return err
	}
	return r.b.with(func(s *state) error {
		for _, u := range s.users {
			if u.Email == user.Email {
				return fmt.Errorf("create user %s: %w", user.Email, repositories.ErrDuplicateKey)
			}
		}
		if user.Role == "" {
			user.Role = models.RoleCustomer
		}
		if user.LoginMethod == "" {
			user.LoginMethod = models.LoginMethodLocal
		}
		user.ID = s.next("users")
		user.RegisteredAt = r.b.m.tick()
		s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var out *models.User
	err := r.b.with(func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.b.with(func(s *state) error {
		for _, u := range s.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return repositories.ErrNotFound
	})
	return out, err
}

func (r *userRepo) GetPaginated(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var all []models.User
	_ = r.b.with(func(s *state) error {
		for _, u := range s.users {
			all = append(all, u)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].RegisteredAt.Equal(all[j].RegisteredAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].RegisteredAt.Before(all[j].RegisteredAt)
	})
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.b.with(func(s *state) error {
		for _, u := range s.users {
			if u.Email == user.Email && u.ID != user.ID {
				return fmt.Errorf("update user %d: %w", user.ID, repositories.ErrDuplicateKey)
			}
		}
		s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	return r.b.with(func(s *state) error {
		if _, ok := s.users[id]; !ok {
			return repositories.ErrNotFound
		}
		for _, o := range s.orders {
			if o.UserID == id {
				return fmt.Errorf("delete user %d: %w", id, repositories.ErrForeignKey)
			}
		}
		delete(s.users, id)
		return nil
	})
}

type categoryRepo struct{ b binding }

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.b.with(func(s *state) error {
		category.ID = s.next("categories")
		s.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var out *models.Category
	err := r.b.with(func(s *state) error {
		c, ok := s.categories[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *categoryRepo) GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var out []models.Category
	_ = r.b.with(func(s *state) error {
		for _, c := range s.categories {
			if activeOnly && !c.Active {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var ok bool
	_ = r.b.with(func(s *state) error {
		_, ok = s.categories[id]
		return nil
	})
	return ok, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	return r.b.with(func(s *state) error {
		s.categories[category.ID] = *category
		return nil
	})
}

type productRepo struct{ b binding }

func withCategory(s *state, p models.Product) models.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (r *productRepo) GetPaginated(ctx context.Context, filter repositories.ProductFilter, limit, offset int) ([]models.Product, int64, error) {
	var all []models.Product
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	_ = r.b.with(func(s *state) error {
		for _, p := range s.products {
			if filter.ActiveOnly && !p.Active {
				continue
			}
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
				continue
			}
			all = append(all, withCategory(s, p))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name == all[j].Name {
			return all[i].ID < all[j].ID
		}
		return all[i].Name < all[j].Name
	})
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *productRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var out *models.Product
	err := r.b.with(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return repositories.ErrNotFound
		}
		p = withCategory(s, p)
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	if err := r.b.m.fail("Products.GetByIDForUpdate"); err != nil {
		return nil, err
	}
	r.b.m.LockOrder = append(r.b.m.LockOrder, id)
	var out *models.Product
	err := r.b.with(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return repositories.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return r.b.with(func(s *state) error {
		if _, ok := s.categories[product.CategoryID]; !ok {
			return fmt.Errorf("create product: %w", repositories.ErrForeignKey)
		}
		product.ID = s.next("products")
		stored := *product
		stored.Category = nil
		s.products[product.ID] = stored
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	return r.b.with(func(s *state) error {
		if _, ok := s.products[product.ID]; !ok {
			return repositories.ErrNotFound
		}
		stored := *product
		stored.Category = nil
		s.products[product.ID] = stored
		return nil
	})
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint, quantity int) error {
	if err := r.b.m.fail("Products.DecrementStock"); err != nil {
		return err
	}
	return r.b.with(func(s *state) error {
		p, ok := s.products[id]
		if !ok || p.Stock < quantity {
			return fmt.Errorf("product %d: %w", id, repositories.ErrStockUnavailable)
		}
		p.Stock -= quantity
		s.products[id] = p
		return nil
	})
}

type orderRepo struct{ b binding }

func hydrate(s *state, o models.Order, inc repositories.OrderInclude) models.Order {
	if inc.User {
		if u, ok := s.users[o.UserID]; ok {
			o.User = &u
		}
	}
	if inc.Details {
		var details []models.OrderDetail
		for _, d := range s.details {
			if d.OrderID != o.ID {
				continue
			}
			if inc.Products {
				if p, ok := s.products[d.ProductID]; ok {
					d.Product = &p
				}
			}
			details = append(details, d)
		}
		sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
		o.Details = details
	}
	return o
}

func newestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Date.Equal(orders[j].Date) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].Date.After(orders[j].Date)
	})
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	if err := r.b.m.fail("Orders.Create"); err != nil {
		return err
	}
	return r.b.with(func(s *state) error {
		if _, ok := s.users[order.UserID]; !ok {
			return fmt.Errorf("create order: %w", repositories.ErrForeignKey)
		}
		order.ID = s.next("orders")
		stored := *order
		stored.User = nil
		stored.Details = nil
		s.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id uint, inc repositories.OrderInclude) (*models.Order, error) {
	var out *models.Order
	err := r.b.with(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return repositories.ErrNotFound
		}
		o = hydrate(s, o, inc)
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID uint, inc repositories.OrderInclude) ([]models.Order, error) {
	var out []models.Order
	_ = r.b.with(func(s *state) error {
		for _, o := range s.orders {
			if o.UserID == userID {
				out = append(out, hydrate(s, o, inc))
			}
		}
		return nil
	})
	newestFirst(out)
	return out, nil
}

func (r *orderRepo) GetPaginated(ctx context.Context, filter repositories.OrderFilter, limit, offset int, inc repositories.OrderInclude) ([]models.Order, int64, error) {
	var all []models.Order
	_ = r.b.with(func(s *state) error {
		for _, o := range s.orders {
			if filter.State != "" && o.State != filter.State {
				continue
			}
			if filter.UserID != 0 && o.UserID != filter.UserID {
				continue
			}
			all = append(all, hydrate(s, o, inc))
		}
		return nil
	})
	newestFirst(all)
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *orderRepo) UpdateState(ctx context.Context, id uint, to string) error {
	return r.b.with(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return repositories.ErrNotFound
		}
		o.State = to
		s.orders[id] = o
		return nil
	})
}

func (r *orderRepo) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	_ = r.b.with(func(s *state) error {
		for _, o := range s.orders {
			if o.UserID == userID {
				n++
			}
		}
		return nil
	})
	return n, nil
}

type detailRepo struct{ b binding }

func (r *detailRepo) BulkCreate(ctx context.Context, items []models.OrderDetail) error {
	if err := r.b.m.fail("OrderDetails.BulkCreate"); err != nil {
		return err
	}
	return r.b.with(func(s *state) error {
		for i := range items {
			if _, ok := s.orders[items[i].OrderID]; !ok {
				return fmt.Errorf("create order details: %w", repositories.ErrForeignKey)
			}
			items[i].ID = s.next("order_details")
			stored := items[i]
			stored.Order = nil
			stored.Product = nil
			s.details[stored.ID] = stored
		}
		return nil
	})
}

func (r *detailRepo) GetAll(ctx context.Context) ([]models.OrderDetail, error) {
	var out []models.OrderDetail
	_ = r.b.with(func(s *state) error {
		for _, d := range s.details {
			out = append(out, r.hydrate(s, d))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderID == out[j].OrderID {
			return out[i].ID < out[j].ID
		}
		return out[i].OrderID > out[j].OrderID
	})
	return out, nil
}

func (r *detailRepo) GetByID(ctx context.Context, id uint) (*models.OrderDetail, error) {
	var out *models.OrderDetail
	err := r.b.with(func(s *state) error {
		d, ok := s.details[id]
		if !ok {
			return repositories.ErrNotFound
		}
		d = r.hydrate(s, d)
		out = &d
		return nil
	})
	return out, err
}

func (r *detailRepo) hydrate(s *state, d models.OrderDetail) models.OrderDetail {
	if o, ok := s.orders[d.OrderID]; ok {
		d.Order = &o
	}
	if p, ok := s.products[d.ProductID]; ok {
		d.Product = &p
	}
	return d
}
