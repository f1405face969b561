package menu

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/enum"
	"golang.org/x/sync/errgroup"
)

// Load fetches every menu row and resolves a public image URL for each.
// The loading flag is cleared on every exit path. Failures are logged and
// leave the list empty; the returned error is informational only.
func (s *Screen) Load(ctx context.Context) (err error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		if err != nil {
			s.items = nil
		}
		count := len(s.items)
		s.mu.Unlock()
		s.loadedOnce.Do(func() { close(s.loaded) })

		payload := map[string]any{"count": count}
		if err != nil {
			payload["error"] = err.Error()
		}
		s.publish(enum.EventMenuLoaded, payload)
	}()

	if s.session.UserID == uuid.Nil {
		s.log.WithError(ErrNoSession).Error("fetch menu items")
		return ErrNoSession
	}

	rows, err := s.deps.Store.ListMenuItems(ctx)
	if err != nil {
		err = fmt.Errorf("list menu items: %w", err)
		s.log.WithError(err).Error("fetch menu items")
		return err
	}

	var items []DisplayItem
	if s.opts.ImagePolicy == enum.ImagePolicyPlaceholder {
		items = s.resolveEach(ctx, rows)
	} else {
		items, err = s.resolveAll(ctx, rows)
		if err != nil {
			s.log.WithError(err).Error("fetch menu items")
			return err
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.log.WithField("count", len(items)).Info("menu loaded")
	return nil
}

// resolveAll resolves every image concurrently; the first failure aborts the
// whole batch and discards the rows that did resolve.
func (s *Screen) resolveAll(ctx context.Context, rows []database.MenuItem) ([]DisplayItem, error) {
	out := make([]DisplayItem, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		g.Go(func() error {
			u, err := s.deps.Resolver.PublicURL(gctx, s.opts.Bucket, row.Image)
			if err != nil {
				return fmt.Errorf("item %s: resolve image: %w", row.ID, err)
			}
			if u == "" {
				return fmt.Errorf("item %s: %w", row.ID, ErrEmptyImageURL)
			}
			out[i] = toDisplayItem(row, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveEach resolves every image independently. A failed item gets the
// placeholder URL and keeps its error for display.
func (s *Screen) resolveEach(ctx context.Context, rows []database.MenuItem) []DisplayItem {
	out := make([]DisplayItem, len(rows))
	var g errgroup.Group
	for i, row := range rows {
		g.Go(func() error {
			u, err := s.deps.Resolver.PublicURL(ctx, s.opts.Bucket, row.Image)
			if err == nil && u == "" {
				err = ErrEmptyImageURL
			}
			if err != nil {
				s.log.WithError(err).WithField("item_id", row.ID).Warn("resolve image, using placeholder")
				d := toDisplayItem(row, s.opts.PlaceholderImage)
				d.ImageError = err.Error()
				out[i] = d
				return nil
			}
			out[i] = toDisplayItem(row, u)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func toDisplayItem(row database.MenuItem, imageURL string) DisplayItem {
	return DisplayItem{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Image:       row.Image,
		ImageURL:    imageURL,
		Cost:        database.NumericToDecimal(row.Cost),
	}
}
