package store

import (
	"context"
	"fmt"

	"github.com/dennypradipta/n8n-chat-history/internal/models"
)

// ListChats returns one page of chat rows plus the total row count for the
// same filter. Rows are ordered by created_at in the requested direction,
// with id as a tie-break so pages stay stable when timestamps collide.
func (s *Store) ListChats(ctx context.Context, p ListParams) ([]models.Chat, int64, error) {
	dir := orderDirection(p.SortOrder)

	chats := make([]models.Chat, 0, p.PageSize)
	err := s.filtered(ctx, p.Search).
		Order("created_at " + dir).
		Order("id " + dir).
		Limit(p.PageSize).
		Offset(p.offset()).
		Find(&chats).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query chats: %w", err)
	}

	var total int64
	if err := s.filtered(ctx, p.Search).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chats: %w", err)
	}

	return chats, total, nil
}

// ListConversations returns one page of whole conversations keyed by
// session id, plus the count of distinct sessions matching the filter.
//
// The filter runs at session selection, before grouping: a session
// qualifies when any of its rows or its id matches, and a qualifying
// session is returned with its entire history. Searching can therefore
// yield rows that do not themselves contain the term; the UI wants the
// full conversational context around a hit.
func (s *Store) ListConversations(ctx context.Context, p ListParams) (models.Conversations, int64, error) {
	dir := orderDirection(p.SortOrder)

	// Sessions page in lexicographic id order regardless of sortOrder;
	// sortOrder only arranges the messages inside each conversation.
	var sessionIDs []string
	err := s.filtered(ctx, p.Search).
		Distinct("session_id").
		Order("session_id ASC").
		Limit(p.PageSize).
		Offset(p.offset()).
		Pluck("session_id", &sessionIDs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query session ids: %w", err)
	}

	// Past-the-end pages report zero totals without running the count
	// query.
	if len(sessionIDs) == 0 {
		return models.Conversations{}, 0, nil
	}

	// Whole history for the selected sessions, unfiltered on purpose.
	var chats []models.Chat
	err = s.db.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("created_at " + dir).
		Order("session_id ASC").
		Find(&chats).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query session chats: %w", err)
	}

	grouped := make(models.Conversations, len(sessionIDs))
	for _, chat := range chats {
		grouped[chat.SessionID] = append(grouped[chat.SessionID], chat)
	}

	var total int64
	err = s.filtered(ctx, p.Search).Distinct("session_id").Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return grouped, total, nil
}
