// Package store holds the shopping cart state and keeps its persisted copy in
// sync with every successful mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
)

const DefaultKey = "@RocketShoes:cart"

// Store is the cart handle shared by UI-side callers. Mutations are
// serialized; readers never block on them and always see a committed cart.
type Store struct {
	catalog  port.CatalogService
	cache    port.PersistentCache
	key      string
	currency currency.Unit
	log      logrus.FieldLogger
	tracer   trace.Tracer

	mu   sync.Mutex
	cart atomic.Pointer[domain.Cart]
	seq  uint64 // commits so far, guarded by mu

	listenersMu  sync.Mutex
	listeners    map[int]func(domain.Cart)
	nextListener int

	// delivery state, guarded by deliverMu
	deliverMu  sync.Mutex
	published  uint64
	pending    *domain.Cart
	delivering bool
}

type Option func(*Store)

// WithKey sets the cache key the cart is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithCurrency(unit currency.Unit) Option {
	return func(s *Store) {
		s.currency = unit
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New restores the cart from cache. A missing, unreadable or undecodable
// entry yields an empty cart.
func New(ctx context.Context, catalog port.CatalogService, cache port.PersistentCache, opts ...Option) *Store {
	s := &Store{
		catalog:   catalog,
		cache:     cache,
		key:       DefaultKey,
		currency:  currency.BRL,
		log:       logrus.StandardLogger(),
		tracer:    otel.Tracer("github.com/nikolayk812/cartstore/internal/store"),
		listeners: make(map[int]func(domain.Cart)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("cache_key", s.key)

	cart := s.load(ctx)
	s.cart.Store(&cart)

	return s
}

// Cart returns a deep copy of the current cart.
func (s *Store) Cart() domain.Cart {
	return s.cart.Load().Clone()
}

// Count is the number of distinct products in the cart.
func (s *Store) Count() int {
	return s.cart.Load().Count()
}

func (s *Store) Total() domain.Money {
	return s.cart.Load().Total(s.currency)
}

// Subscribe registers fn to be called with newly committed carts, in commit
// order. fn runs outside the mutation lock and may mutate the store. When
// commits outpace delivery, fn sees only the latest of them. The returned
// func removes the subscription.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

// AddItem adds one unit of productID, fetching product metadata the first
// time the product enters the cart.
func (s *Store) AddItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, domain.OpAdd, productID, func(ctx context.Context, current domain.Cart) (domain.Cart, bool, error) {
		existing, idx := current.Find(productID)

		stock, err := s.catalog.GetStock(ctx, productID)
		if err != nil {
			return domain.Cart{}, false, fmt.Errorf("%w: catalog.GetStock: %w", domain.ErrServiceFailure, err)
		}

		desired := existing.Amount + 1
		if desired > stock.Amount {
			return domain.Cart{}, false, fmt.Errorf("%w: want %d, stock %d", domain.ErrStockExceeded, desired, stock.Amount)
		}

		if idx >= 0 {
			return current.WithAmount(idx, desired), true, nil
		}

		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return domain.Cart{}, false, fmt.Errorf("%w: catalog.GetProduct: %w", domain.ErrServiceFailure, err)
		}
		// the cart is keyed by the requested id whatever the payload says
		product = product.Clone()
		product.ID = productID

		return current.Append(domain.LineItem{Product: product, Amount: 1}), true, nil
	})
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, domain.OpRemove, productID, func(_ context.Context, current domain.Cart) (domain.Cart, bool, error) {
		_, idx := current.Find(productID)
		if idx < 0 {
			return domain.Cart{}, false, domain.ErrNotFound
		}

		return current.Without(idx), true, nil
	})
}

// SetAmount sets the quantity of a product already in the cart. Amounts
// below one are ignored without error.
func (s *Store) SetAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		return nil
	}

	return s.mutate(ctx, domain.OpUpdate, productID, func(ctx context.Context, current domain.Cart) (domain.Cart, bool, error) {
		stock, err := s.catalog.GetStock(ctx, productID)
		if err != nil {
			return domain.Cart{}, false, fmt.Errorf("%w: catalog.GetStock: %w", domain.ErrServiceFailure, err)
		}

		if amount > stock.Amount {
			return domain.Cart{}, false, fmt.Errorf("%w: want %d, stock %d", domain.ErrStockExceeded, amount, stock.Amount)
		}

		_, idx := current.Find(productID)
		if idx < 0 {
			return domain.Cart{}, false, domain.ErrNotFound
		}

		return current.WithAmount(idx, amount), true, nil
	})
}

type mutation func(ctx context.Context, current domain.Cart) (next domain.Cart, changed bool, err error)

func (s *Store) mutate(ctx context.Context, op domain.Op, productID int64, fn mutation) (err error) {
	ctx, span := s.tracer.Start(ctx, "store."+string(op), trace.WithAttributes(
		attribute.Int64("product.id", productID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := s.log.WithFields(logrus.Fields{
		"op":         op,
		"product_id": productID,
	})

	var seq uint64

	s.mu.Lock()
	next, changed, err := fn(ctx, *s.cart.Load())
	if err == nil && changed {
		s.seq++
		seq = s.seq
		s.cart.Store(&next)
		s.persist(ctx, log, next)
	}
	s.mu.Unlock()

	if err != nil {
		log.WithError(err).Info("cart mutation aborted")
		return &domain.OpError{Op: op, ProductID: productID, Err: err}
	}

	if changed {
		log.WithField("items", next.Count()).Debug("cart updated")
		s.publish(seq, next)
	}

	return nil
}

// persist mirrors the cart into the cache. A failed write is logged and the
// in-memory cart stays committed.
func (s *Store) persist(ctx context.Context, log logrus.FieldLogger, cart domain.Cart) {
	ctx, span := s.tracer.Start(ctx, "store.persist")
	defer span.End()

	data, err := encodeCart(cart)
	if err != nil {
		span.RecordError(err)
		log.WithError(err).Error("encode cart")
		return
	}

	if err := s.cache.Write(ctx, s.key, data); err != nil {
		span.RecordError(err)
		log.WithError(err).Warn("persist cart")
	}
}

func (s *Store) load(ctx context.Context) domain.Cart {
	data, err := s.cache.Read(ctx, s.key)
	if errors.Is(err, port.ErrCacheMiss) {
		return domain.Cart{}
	}
	if err != nil {
		s.log.WithError(err).Warn("read cached cart, starting empty")
		return domain.Cart{}
	}

	cart, err := decodeCart(data)
	if err != nil {
		s.log.WithError(err).Warn("decode cached cart, starting empty")
		return domain.Cart{}
	}

	s.log.WithField("items", cart.Count()).Debug("cart restored")
	return cart
}

// publish hands the cart committed as seq to the listeners. Only one
// goroutine delivers at a time and it always takes the newest pending cart,
// so a cart older than one already handed over is dropped.
func (s *Store) publish(seq uint64, cart domain.Cart) {
	s.deliverMu.Lock()
	if seq <= s.published {
		s.deliverMu.Unlock()
		return
	}
	s.published = seq
	s.pending = &cart
	if s.delivering {
		s.deliverMu.Unlock()
		return
	}
	s.delivering = true

	for {
		next := *s.pending
		s.pending = nil
		s.deliverMu.Unlock()

		s.notify(next)

		s.deliverMu.Lock()
		if s.pending == nil {
			s.delivering = false
			s.deliverMu.Unlock()
			return
		}
	}
}

func (s *Store) notify(cart domain.Cart) {
	s.listenersMu.Lock()
	fns := make([]func(domain.Cart), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(cart.Clone())
	}
}
