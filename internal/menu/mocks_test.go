package menu

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// --- Mock store ---

type pendingKey struct {
	userID uuid.UUID
	itemID string
}

// mockStore is an in-memory backend. Each *Err field makes that call fail.
type mockStore struct {
	mu sync.Mutex

	menu     []database.MenuItem
	pending  map[pendingKey]int32
	orders   map[uuid.UUID]database.Order
	byKey    map[[16]byte]uuid.UUID
	items    []database.OrderItem
	calls    map[string]int
	itemsArg [][]database.CreateOrderItemsParams

	listErr        error
	upsertErr      error
	deleteErr      error
	createOrderErr error
	createItemsErr error
	deleteOrderErr error
	zeroOrderID    bool

	// createOrderHook runs before CreateOrder returns; tests use it to block.
	createOrderHook func()
}

func newMockStore(menu ...database.MenuItem) *mockStore {
	return &mockStore{
		menu:    menu,
		pending: make(map[pendingKey]int32),
		orders:  make(map[uuid.UUID]database.Order),
		byKey:   make(map[[16]byte]uuid.UUID),
		calls:   make(map[string]int),
	}
}

func (m *mockStore) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockStore) pendingFor(userID uuid.UUID, itemID string) (int32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.pending[pendingKey{userID, itemID}]
	return q, ok
}

func (m *mockStore) ListMenuItems(_ context.Context) ([]database.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListMenuItems"]++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]database.MenuItem(nil), m.menu...), nil
}

func (m *mockStore) UpsertPendingQuantity(_ context.Context, arg database.UpsertPendingQuantityParams) (database.PendingQuantity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpsertPendingQuantity"]++
	if m.upsertErr != nil {
		return database.PendingQuantity{}, m.upsertErr
	}
	m.pending[pendingKey{arg.UserID, arg.MenuItemID}] = arg.Quantity
	return database.PendingQuantity{
		UserID:     arg.UserID,
		MenuItemID: arg.MenuItemID,
		Quantity:   arg.Quantity,
		UpdatedAt:  time.Now(),
	}, nil
}

func (m *mockStore) DeletePendingQuantity(_ context.Context, arg database.DeletePendingQuantityParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["DeletePendingQuantity"]++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.pending, pendingKey{arg.UserID, arg.MenuItemID})
	return nil
}

func (m *mockStore) CreateOrder(_ context.Context, arg database.CreateOrderParams) (database.Order, error) {
	if m.createOrderHook != nil {
		m.createOrderHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateOrder"]++
	if m.createOrderErr != nil {
		return database.Order{}, m.createOrderErr
	}
	if m.zeroOrderID {
		return database.Order{UserID: arg.UserID}, nil
	}
	if arg.IdempotencyKey.Valid {
		if id, ok := m.byKey[arg.IdempotencyKey.Bytes]; ok {
			if o, ok := m.orders[id]; ok {
				return o, nil
			}
		}
	}
	o := database.Order{
		ID:             uuid.New(),
		UserID:         arg.UserID,
		IdempotencyKey: arg.IdempotencyKey,
		CreatedAt:      arg.CreatedAt,
	}
	m.orders[o.ID] = o
	if arg.IdempotencyKey.Valid {
		m.byKey[arg.IdempotencyKey.Bytes] = o.ID
	}
	return o, nil
}

func (m *mockStore) CreateOrderItems(_ context.Context, arg []database.CreateOrderItemsParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateOrderItems"]++
	m.itemsArg = append(m.itemsArg, arg)
	if m.createItemsErr != nil {
		return 0, m.createItemsErr
	}
	for _, p := range arg {
		m.items = append(m.items, database.OrderItem{
			ID:         uuid.New(),
			OrderID:    p.OrderID,
			MenuItemID: p.MenuItemID,
			Quantity:   p.Quantity,
		})
	}
	return int64(len(arg)), nil
}

func (m *mockStore) DeleteOrder(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["DeleteOrder"]++
	if m.deleteOrderErr != nil {
		return m.deleteOrderErr
	}
	delete(m.orders, id)
	return nil
}

func (m *mockStore) orderItems(orderID uuid.UUID) []database.OrderItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

func (m *mockStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// --- Mock resolver ---

type mockResolver struct {
	urls map[string]string
	errs map[string]error
}

func (r *mockResolver) PublicURL(_ context.Context, bucket, key string) (string, error) {
	if err, ok := r.errs[key]; ok {
		return "", err
	}
	if u, ok := r.urls[key]; ok {
		return u, nil
	}
	return "https://cdn.test/" + bucket + "/" + key, nil
}

// --- Mock transaction ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}
func (m *mockTx) Rollback(ctx context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

type mockTxBeginner struct {
	tx  *mockTx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tx, nil
}

// --- Recorders ---

type publishedEvent struct {
	userID    uuid.UUID
	eventType string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(userID uuid.UUID, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID, eventType, payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

type recordingNotifier struct {
	receipts []Receipt
	err      error
}

func (n *recordingNotifier) OrderCreated(_ context.Context, r Receipt) error {
	n.receipts = append(n.receipts, r)
	return n.err
}

// --- Test helpers ---

var errBackend = errors.New("backend unavailable")

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func burgerAndFries() []database.MenuItem {
	return []database.MenuItem{
		{ID: "1", Name: "Burger", Description: "Beef patty", Image: "burger.png", Cost: makeNumeric("5")},
		{ID: "2", Name: "Fries", Description: "Crispy", Image: "fries.png", Cost: makeNumeric("2")},
	}
}

type fixture struct {
	store     *mockStore
	resolver  *mockResolver
	publisher *recordingPublisher
	notifier  *recordingNotifier
	hook      *test.Hook
	session   Session
	deps      Deps
}

func newFixture(menu ...database.MenuItem) *fixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{
		store:     newMockStore(menu...),
		resolver:  &mockResolver{urls: map[string]string{}, errs: map[string]error{}},
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
		hook:      hook,
		session:   Session{UserID: uuid.New()},
	}
	f.deps = Deps{
		Store:     f.store,
		Resolver:  f.resolver,
		Publisher: f.publisher,
		Notifier:  f.notifier,
		Logger:    logger,
		Now:       func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *fixture) screen(opts Options) *Screen {
	return NewScreen(f.session, f.deps, opts)
}

func (f *fixture) errorLogged(msg string) bool {
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == msg {
			return true
		}
	}
	return false
}
