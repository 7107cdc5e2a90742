package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// DefaultStoreKey is the key the cart snapshot lives under.
const DefaultStoreKey = "@RocketShoes:cart"

// Service owns the in-memory cart and keeps the store in sync with it.
//
// Mutations are serialized by opMu for their whole read-validate-commit
// sequence, remote queries included. Readers only take stateMu and never
// wait on a pending catalog call.
type Service struct {
	catalog  ports.Catalog
	store    ports.Store
	notifier ports.Notifier
	logger   *slog.Logger
	messages Messages
	key      string
	auditor  ports.WorkflowOrchestrator

	opMu    sync.Mutex
	stateMu sync.RWMutex
	cart    domain.Cart
	version uint64
}

type Option func(*Service)

func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreKey overrides DefaultStoreKey.
func WithStoreKey(key string) Option {
	return func(s *Service) {
		if key = strings.TrimSpace(key); key != "" {
			s.key = key
		}
	}
}

// WithAuditor runs AuditStock on an orchestrator instead of in-process.
func WithAuditor(o ports.WorkflowOrchestrator) Option {
	return func(s *Service) {
		s.auditor = o
	}
}

func WithMessages(m Messages) Option {
	return func(s *Service) {
		s.messages = m
	}
}

// Open builds the service and hydrates the cart from the store. An
// unreadable snapshot is logged and replaced by an empty cart; it stays in
// the store until the next successful mutation overwrites it.
func Open(ctx context.Context, catalog ports.Catalog, store ports.Store, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("catalog is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	s := &Service{
		catalog:  catalog,
		store:    store,
		notifier: ports.NoopNotifier,
		logger:   slog.New(slog.DiscardHandler),
		messages: DefaultMessages(),
		key:      DefaultStoreKey,
		cart:     domain.Cart{Items: []domain.Product{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	value, ok, err := store.Read(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		return s, nil
	}
	cart, err := decodeCart(value)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cart snapshot",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return s, nil
	}
	s.cart = cart
	return s, nil
}

// Cart returns a copy of the current cart and its version.
func (s *Service) Cart(_ context.Context) ports.CartView {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return ports.CartView{Cart: s.cart.Clone(), Version: s.version}
}

// AddProduct increments an existing line item or appends a new one with an
// amount of one, as long as stock allows.
func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	const op = ports.OperationAdd
	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, op, productID, remoteError(err))
	}
	current := s.snapshot()
	var next domain.Cart
	if _, ok := current.Find(productID); ok {
		next, err = current.Increment(productID, stock)
	} else {
		product, fetchErr := s.catalog.GetProduct(ctx, productID)
		if fetchErr != nil {
			return s.fail(ctx, op, productID, remoteError(fetchErr))
		}
		if product.ID != productID {
			return s.fail(ctx, op, productID,
				remoteError(fmt.Errorf("catalog returned product %d", product.ID)))
		}
		next, err = current.Add(product, stock)
	}
	if err != nil {
		return s.fail(ctx, op, productID, err)
	}
	return s.commit(ctx, op, productID, next)
}

// RemoveProduct drops a line item. It never calls the catalog.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	const op = ports.OperationRemove
	next, err := s.snapshot().Remove(productID)
	if err != nil {
		return s.fail(ctx, op, productID, err)
	}
	return s.commit(ctx, op, productID, next)
}

// UpdateProductAmount sets a line item to an exact amount. Non-positive
// amounts are ignored without error or notification.
func (s *Service) UpdateProductAmount(ctx context.Context, input ports.UpdateAmountInput) error {
	if input.Amount <= 0 {
		return nil
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	const op = ports.OperationUpdate
	stock, err := s.catalog.GetStock(ctx, input.ProductID)
	if err != nil {
		return s.fail(ctx, op, input.ProductID, remoteError(err))
	}
	next, err := s.snapshot().SetAmount(input.ProductID, input.Amount, stock)
	if err != nil {
		return s.fail(ctx, op, input.ProductID, err)
	}
	return s.commit(ctx, op, input.ProductID, next)
}

// AuditStock re-checks every line item against current stock without
// touching the cart. It runs on the configured auditor when one is set.
func (s *Service) AuditStock(ctx context.Context) (domain.StockAudit, error) {
	cart := s.snapshot()
	if s.auditor == nil {
		return AuditCart(ctx, s.catalog, cart)
	}
	audit, err := s.auditor.AuditStock(ctx, cart)
	if err != nil {
		return domain.StockAudit{}, err
	}
	if audit == nil {
		return domain.StockAudit{Entries: []domain.AuditEntry{}}, nil
	}
	return *audit, nil
}

func (s *Service) snapshot() domain.Cart {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cart.Clone()
}

// commit writes next to the store and only then swaps it in, so the stored
// value always decodes to the in-memory cart.
func (s *Service) commit(ctx context.Context, op ports.Operation, productID int64, next domain.Cart) error {
	value, err := encodeCart(next)
	if err != nil {
		return s.fail(ctx, op, productID, persistenceError(err))
	}
	if err := s.store.Write(ctx, s.key, value); err != nil {
		return s.fail(ctx, op, productID, persistenceError(err))
	}
	s.stateMu.Lock()
	s.cart = next
	s.version++
	s.stateMu.Unlock()
	return nil
}

func (s *Service) fail(ctx context.Context, op ports.Operation, productID int64, err error) error {
	kind := Kind(err)
	s.notifier.ReportError(ctx, ports.Notification{
		Operation: op,
		ProductID: productID,
		Kind:      kind,
		Message:   s.messages.For(op, kind),
	})
	return &OperationError{Op: op, ProductID: productID, Err: err}
}

var _ ports.Service = (*Service)(nil)
