// Package menu implements the menu ordering screen as a view model: it loads
// the catalog, tracks per-item quantities mirrored to the backend, and
// submits orders. One Screen exists per mounted session.
package menu

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/enum"
	"github.com/kiwari-pos/ordering/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Errors returned by the screen.
var (
	ErrNoSession        = errors.New("no user on the session")
	ErrEmptyImageURL    = errors.New("image URL resolved empty")
	ErrNoOrderID        = errors.New("order created without an id")
	ErrSubmitInProgress = errors.New("an order submission is already in progress")
	ErrNoTransactions   = errors.New("transactional submit mode requires a transaction beginner")
)

// Session is the authenticated session handed to the screen by its host.
type Session struct {
	UserID uuid.UUID
}

// OrderStore defines the DB methods needed to submit orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItems(ctx context.Context, arg []database.CreateOrderItemsParams) (int64, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// Store defines every DB method the screen uses.
type Store interface {
	OrderStore
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	UpsertPendingQuantity(ctx context.Context, arg database.UpsertPendingQuantityParams) (database.PendingQuantity, error)
	DeletePendingQuantity(ctx context.Context, arg database.DeletePendingQuantityParams) error
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// Publisher pushes screen events to the user's live connections.
type Publisher interface {
	Publish(userID uuid.UUID, eventType string, payload any)
}

// Notifier is told about every successfully created order.
type Notifier interface {
	OrderCreated(ctx context.Context, receipt Receipt) error
}

// Deps are the collaborators of a Screen. Store and Resolver are required.
type Deps struct {
	Store         Store
	Resolver      storage.Resolver
	Tx            TxBeginner
	NewOrderStore NewOrderStore
	Publisher     Publisher
	Notifier      Notifier
	Logger        logrus.FieldLogger
	Now           func() time.Time
	NewKey        func() uuid.UUID
}

// Options tune loader and submitter behavior.
type Options struct {
	Bucket           string
	ImagePolicy      string
	PlaceholderImage string
	SubmitMode       string
}

// DisplayItem is a menu row plus its resolved image URL.
type DisplayItem struct {
	ID          string
	Name        string
	Description string
	Image       string
	ImageURL    string
	ImageError  string
	Cost        decimal.Decimal
}

type quantityEntry struct {
	quantity int
	status   string
	err      string
	seq      uint64
}

// Screen holds the local state of one mounted menu screen.
type Screen struct {
	session Session
	deps    Deps
	opts    Options
	log     logrus.FieldLogger

	mu         sync.Mutex
	items      []DisplayItem
	loading    bool
	quantities map[string]*quantityEntry
	seq        uint64
	submitting bool
	submitKey  uuid.UUID

	loaded     chan struct{}
	loadedOnce sync.Once
}

// NewScreen creates a screen for session. The screen starts in the loading
// state; call Load to populate it.
func NewScreen(session Session, deps Deps, opts Options) *Screen {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewKey == nil {
		deps.NewKey = uuid.New
	}
	if opts.Bucket == "" {
		opts.Bucket = "MenuItemImages"
	}
	if opts.ImagePolicy == "" {
		opts.ImagePolicy = enum.ImagePolicyFailFast
	}
	if opts.SubmitMode == "" {
		opts.SubmitMode = enum.SubmitModeSequential
	}

	return &Screen{
		session:    session,
		deps:       deps,
		opts:       opts,
		log:        deps.Logger.WithField("user_id", session.UserID.String()),
		loading:    true,
		quantities: make(map[string]*quantityEntry),
		loaded:     make(chan struct{}),
	}
}

// Loaded is closed once the first Load has finished, successfully or not.
func (s *Screen) Loaded() <-chan struct{} {
	return s.loaded
}

// HasItem reports whether itemID is part of the loaded menu.
func (s *Screen) HasItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// Quantity returns the local quantity for itemID (0 when absent).
func (s *Screen) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.quantities[itemID]; ok {
		return e.quantity
	}
	return 0
}

// Quantities returns a copy of every non-zero local quantity.
func (s *Screen) Quantities() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantitiesLocked()
}

func (s *Screen) quantitiesLocked() map[string]int {
	out := make(map[string]int, len(s.quantities))
	for id, e := range s.quantities {
		if e.quantity > 0 {
			out[id] = e.quantity
		}
	}
	return out
}

// --- View ---

// View is a point-in-time rendering of the screen.
type View struct {
	Loading    bool           `json:"loading"`
	Submitting bool           `json:"submitting"`
	Items      []ItemView     `json:"items"`
	Quantities map[string]int `json:"quantities"`
	Total      string         `json:"total"`
}

// ItemView is one row of the rendered list.
type ItemView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ImageError  string `json:"image_error,omitempty"`
	Cost        string `json:"cost"`
	Quantity    int    `json:"quantity"`
	SyncStatus  string `json:"sync_status,omitempty"`
	SyncError   string `json:"sync_error,omitempty"`
}

// Snapshot renders the current state.
func (s *Screen) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Loading:    s.loading,
		Submitting: s.submitting,
		Items:      make([]ItemView, 0, len(s.items)),
		Quantities: s.quantitiesLocked(),
	}
	total := decimal.Zero
	for _, it := range s.items {
		iv := ItemView{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			ImageURL:    it.ImageURL,
			ImageError:  it.ImageError,
			Cost:        it.Cost.StringFixed(2),
		}
		if e, ok := s.quantities[it.ID]; ok {
			iv.Quantity = e.quantity
			iv.SyncStatus = e.status
			iv.SyncError = e.err
			total = total.Add(it.Cost.Mul(decimal.NewFromInt(int64(e.quantity))))
		}
		v.Items = append(v.Items, iv)
	}
	v.Total = total.StringFixed(2)
	return v
}

// Entry is the state of one quantity after a change.
type Entry struct {
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
	SyncStatus string `json:"sync_status,omitempty"`
	SyncError  string `json:"sync_error,omitempty"`
}

func (s *Screen) entryLocked(itemID string) Entry {
	e, ok := s.quantities[itemID]
	if !ok {
		return Entry{ItemID: itemID}
	}
	return Entry{ItemID: itemID, Quantity: e.quantity, SyncStatus: e.status, SyncError: e.err}
}

// Entry returns the current state of itemID's quantity.
func (s *Screen) Entry(itemID string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryLocked(itemID)
}

// FailedEntries lists quantities whose last mirror write failed, by item id.
func (s *Screen) FailedEntries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for id, e := range s.quantities {
		if e.status == enum.SyncStatusFailed {
			out = append(out, s.entryLocked(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

func (s *Screen) itemLocked(itemID string) (DisplayItem, bool) {
	for _, it := range s.items {
		if it.ID == itemID {
			return it, true
		}
	}
	return DisplayItem{}, false
}

func (s *Screen) publish(eventType string, payload any) {
	if s.deps.Publisher == nil {
		return
	}
	s.deps.Publisher.Publish(s.session.UserID, eventType, payload)
}
