package menu

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/enum"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LineItem is one ordered menu item in a receipt.
type LineItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	Subtotal   string `json:"subtotal"`
}

// Receipt describes a successfully created order.
type Receipt struct {
	OrderID   uuid.UUID  `json:"order_id"`
	UserID    uuid.UUID  `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []LineItem `json:"items"`
	Total     string     `json:"total"`
}

// Submit creates an order header, then inserts one line item per item with a
// quantity above zero, then clears the local quantities. On failure the local
// quantities are left untouched so the user can retry; retries reuse the same
// idempotency key until a submission succeeds.
//
// What happens to the header when the line items fail depends on the submit
// mode: sequential leaves it in place, compensate deletes it, transactional
// never commits it.
func (s *Screen) Submit(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	s.submitting = true
	if s.submitKey == uuid.Nil {
		s.submitKey = s.deps.NewKey()
	}
	key := s.submitKey
	lines := s.pendingLinesLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	log := s.log.WithFields(logrus.Fields{
		"idempotency_key": key.String(),
		"submit_mode":     s.opts.SubmitMode,
		"line_items":      len(lines),
	})

	order, err := s.submit(ctx, key, lines)
	if err != nil {
		if order.ID != uuid.Nil {
			log = log.WithField("order_id", order.ID.String())
		}
		log.WithError(err).Error("create order")
		s.publish(enum.EventOrderFailed, map[string]string{"error": err.Error()})
		return nil, err
	}

	receipt := s.receipt(order, lines)

	s.mu.Lock()
	s.quantities = make(map[string]*quantityEntry)
	s.submitKey = uuid.Nil
	s.mu.Unlock()

	log.WithField("order_id", order.ID.String()).Info("order created")
	s.publish(enum.EventOrderCreated, receipt)

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.OrderCreated(ctx, receipt); err != nil {
			log.WithError(err).Warn("notify order created")
		}
	}
	return &receipt, nil
}

func (s *Screen) submit(ctx context.Context, key uuid.UUID, lines []LineItem) (database.Order, error) {
	if s.session.UserID == uuid.Nil {
		return database.Order{}, ErrNoSession
	}

	switch s.opts.SubmitMode {
	case enum.SubmitModeTransactional:
		return s.submitTx(ctx, key, lines)
	case enum.SubmitModeCompensate:
		order, err := s.writeOrder(ctx, s.deps.Store, key, lines)
		if err != nil && order.ID != uuid.Nil {
			if derr := s.deps.Store.DeleteOrder(ctx, order.ID); derr != nil {
				return order, fmt.Errorf("%w (delete orphan order %s: %v)", err, order.ID, derr)
			}
			s.log.WithField("order_id", order.ID.String()).Warn("deleted orphan order header")
			return database.Order{}, err
		}
		return order, err
	default:
		return s.writeOrder(ctx, s.deps.Store, key, lines)
	}
}

// submitTx writes the header and line items in a single transaction.
func (s *Screen) submitTx(ctx context.Context, key uuid.UUID, lines []LineItem) (database.Order, error) {
	if s.deps.Tx == nil || s.deps.NewOrderStore == nil {
		return database.Order{}, ErrNoTransactions
	}

	tx, err := s.deps.Tx.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	order, err := s.writeOrder(ctx, s.deps.NewOrderStore(tx), key, lines)
	if err != nil {
		// Nothing was committed, so there is no header to report.
		return database.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// writeOrder inserts the header, then the line items in one batch. When the
// line items fail, the returned order still carries the header's id.
func (s *Screen) writeOrder(ctx context.Context, store OrderStore, key uuid.UUID, lines []LineItem) (database.Order, error) {
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		UserID:         s.session.UserID,
		IdempotencyKey: pgtype.UUID{Bytes: key, Valid: true},
		CreatedAt:      s.deps.Now().UTC(),
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	if order.ID == uuid.Nil {
		return database.Order{}, ErrNoOrderID
	}

	if len(lines) == 0 {
		return order, nil
	}

	params := make([]database.CreateOrderItemsParams, len(lines))
	for i, l := range lines {
		params[i] = database.CreateOrderItemsParams{
			OrderID:    order.ID,
			MenuItemID: l.MenuItemID,
			Quantity:   int32(l.Quantity),
		}
	}
	n, err := store.CreateOrderItems(ctx, params)
	if err != nil {
		return order, fmt.Errorf("create order items: %w", err)
	}
	if n != int64(len(params)) {
		return order, fmt.Errorf("create order items: inserted %d of %d", n, len(params))
	}
	return order, nil
}

// pendingLinesLocked returns every quantity above zero, ordered by item id.
func (s *Screen) pendingLinesLocked() []LineItem {
	var lines []LineItem
	for id, e := range s.quantities {
		if e.quantity <= 0 {
			continue
		}
		l := LineItem{MenuItemID: id, Quantity: e.quantity}
		if it, ok := s.itemLocked(id); ok {
			l.Name = it.Name
		}
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MenuItemID < lines[j].MenuItemID })
	return lines
}

func (s *Screen) receipt(order database.Order, lines []LineItem) Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	items := make([]LineItem, len(lines))
	for i, l := range lines {
		sub := decimal.Zero
		if it, ok := s.itemLocked(l.MenuItemID); ok {
			sub = it.Cost.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		l.Subtotal = sub.StringFixed(2)
		total = total.Add(sub)
		items[i] = l
	}
	return Receipt{
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Items:     items,
		Total:     total.StringFixed(2),
	}
}
