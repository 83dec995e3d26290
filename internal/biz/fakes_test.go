package biz

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// 测试用 fake: 注入时钟 + 内存仓库 + 固定报价。
// 内存仓库带锁，批量操作会从多个 goroutine 并发访问。

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*Order)}
}

func (r *memOrderRepo) GetOrder(_ context.Context, id string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, filter OrderFilter) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.VendorID != 0 && o.VendorID != filter.VendorID {
			continue
		}
		if filter.ProductID != "" && o.ProductID != filter.ProductID {
			continue
		}
		if !filter.From.IsZero() && DateOf(o.OrderDate).Before(DateOf(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && DateOf(o.OrderDate).After(DateOf(filter.To)) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, o.Status) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderRepo) ListBySubscription(_ context.Context, subscriptionID string, from, to time.Time) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if o.SubscriptionID != subscriptionID {
			continue
		}
		if DateOf(o.OrderDate).Before(DateOf(from)) || DateOf(o.OrderDate).After(DateOf(to)) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memOrderRepo) UpdateOrder(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memOrderRepo) DeleteOrder(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]*Subscription)}
}

func (r *memSubscriptionRepo) GetSubscription(_ context.Context, id string) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSubscriptionRepo) ListByCustomer(_ context.Context, customerID uint64) ([]*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Subscription
	for _, s := range r.subs {
		if s.CustomerID == customerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) ListActive(_ context.Context) ([]*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Subscription
	for _, s := range r.subs {
		if s.Status == "active" {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) CreateSubscription(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *memSubscriptionRepo) SaveSubscription(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	records []*SubscriptionHistory
}

func newMemHistoryRepo() *memHistoryRepo { return &memHistoryRepo{} }

func (r *memHistoryRepo) AddSubscriptionHistory(_ context.Context, history *SubscriptionHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *history
	cp.ID = uint64(len(r.records) + 1)
	r.records = append(r.records, &cp)
	return nil
}

func (r *memHistoryRepo) GetSubscriptionHistory(_ context.Context, subscriptionID string, page, pageSize int) ([]*SubscriptionHistory, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*SubscriptionHistory
	for _, h := range r.records {
		if h.SubscriptionID == subscriptionID {
			matched = append(matched, h)
		}
	}
	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[uint64]map[string]*CartItem
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[uint64]map[string]*CartItem)}
}

func (r *memCartRepo) GetItem(_ context.Context, customerID uint64, key string) (*CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.carts[customerID][key]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memCartRepo) PutItem(_ context.Context, customerID uint64, item *CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[customerID] == nil {
		r.carts[customerID] = make(map[string]*CartItem)
	}
	cp := *item
	r.carts[customerID][item.Key()] = &cp
	return nil
}

func (r *memCartRepo) RemoveItems(_ context.Context, customerID uint64, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.carts[customerID], k)
	}
	return nil
}

func (r *memCartRepo) ListItems(_ context.Context, customerID uint64) ([]*CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*CartItem
	for _, item := range r.carts[customerID] {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (r *memCartRepo) ClearCart(_ context.Context, customerID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, customerID)
	return nil
}

type fakePricing struct {
	mu     sync.Mutex
	quotes map[string]*ProductQuote
}

func newFakePricing() *fakePricing {
	return &fakePricing{quotes: make(map[string]*ProductQuote)}
}

func (p *fakePricing) add(q *ProductQuote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes[CartKey(q.VendorID, q.ProductID)] = q
}

func (p *fakePricing) ResolveProduct(_ context.Context, vendorID uint64, productID string) (*ProductQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[CartKey(vendorID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

type fakeTx struct{}

func (fakeTx) Exec(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
