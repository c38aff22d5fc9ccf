package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dennypradipta/n8n-chat-history/internal/models"
)

// Stats holds chat counts over the calendar windows the dashboard shows.
type Stats struct {
	Daily   int64 `json:"daily"`
	Monthly int64 `json:"monthly"`
	Yearly  int64 `json:"yearly"`
	AllTime int64 `json:"allTime"`
}

// GetStats counts chats since the start of the current day, month and year,
// plus the all-time total. The four counts run concurrently; window
// boundaries come from a single clock reading so they stay consistent in
// the server's local calendar. Any failed count fails the whole call.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.countSince(gctx, &startOfDay, &stats.Daily) })
	g.Go(func() error { return s.countSince(gctx, &startOfMonth, &stats.Monthly) })
	g.Go(func() error { return s.countSince(gctx, &startOfYear, &stats.Yearly) })
	g.Go(func() error { return s.countSince(gctx, nil, &stats.AllTime) })

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Store) countSince(ctx context.Context, since *time.Time, out *int64) error {
	q := s.db.WithContext(ctx).Model(&models.Chat{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if err := q.Count(out).Error; err != nil {
		return fmt.Errorf("failed to count chats: %w", err)
	}
	return nil
}
