package menu

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/enum"
	"github.com/sirupsen/logrus"
)

// Adjust sets itemID's quantity. Negative quantities are ignored. The local
// value changes immediately; the backend mirror row is then upserted (q > 0)
// or deleted (q == 0). A failed mirror write is logged and marks the entry
// failed, but the local value is kept.
func (s *Screen) Adjust(ctx context.Context, itemID string, quantity int) Entry {
	if quantity < 0 || quantity > math.MaxInt32 {
		return s.Entry(itemID)
	}

	s.mu.Lock()
	e, ok := s.quantities[itemID]
	if !ok {
		e = &quantityEntry{}
		s.quantities[itemID] = e
	}
	s.seq++
	seq := s.seq
	e.seq = seq
	e.quantity = quantity
	e.status = enum.SyncStatusPending
	e.err = ""
	s.mu.Unlock()

	err := s.mirror(ctx, itemID, quantity)

	s.mu.Lock()
	// A newer change may have landed while this write was in flight; only the
	// latest write decides the entry's status.
	if cur, ok := s.quantities[itemID]; ok && cur.seq == seq {
		switch {
		case err != nil:
			cur.status = enum.SyncStatusFailed
			cur.err = err.Error()
		case cur.quantity == 0:
			delete(s.quantities, itemID)
		default:
			cur.status = enum.SyncStatusConfirmed
		}
	}
	entry := s.entryLocked(itemID)
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"item_id":  itemID,
			"quantity": quantity,
		}).Error("update quantity")
	}

	s.publish(enum.EventQuantityUpdated, entry)
	return entry
}

// Step is the +/- stepper: it adjusts itemID by delta from its current value.
func (s *Screen) Step(ctx context.Context, itemID string, delta int) Entry {
	return s.Adjust(ctx, itemID, s.Quantity(itemID)+delta)
}

// RetryFailed re-sends the mirror write of every entry whose last write failed.
func (s *Screen) RetryFailed(ctx context.Context) []Entry {
	failed := s.FailedEntries()
	out := make([]Entry, 0, len(failed))
	for _, f := range failed {
		out = append(out, s.Adjust(ctx, f.ItemID, f.Quantity))
	}
	return out
}

func (s *Screen) mirror(ctx context.Context, itemID string, quantity int) error {
	if s.session.UserID == uuid.Nil {
		return ErrNoSession
	}
	if quantity == 0 {
		if err := s.deps.Store.DeletePendingQuantity(ctx, database.DeletePendingQuantityParams{
			UserID:     s.session.UserID,
			MenuItemID: itemID,
		}); err != nil {
			return fmt.Errorf("delete pending quantity: %w", err)
		}
		return nil
	}
	if _, err := s.deps.Store.UpsertPendingQuantity(ctx, database.UpsertPendingQuantityParams{
		UserID:     s.session.UserID,
		MenuItemID: itemID,
		Quantity:   int32(quantity),
	}); err != nil {
		return fmt.Errorf("upsert pending quantity: %w", err)
	}
	return nil
}
