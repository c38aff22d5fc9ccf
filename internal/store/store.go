package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dennypradipta/n8n-chat-history/internal/models"
)

// Store runs the read queries behind the chat history API. It owns no
// state besides the injected connection pool.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps the connection pool. The pool is opened and closed by the
// caller; the store only borrows it.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// ListParams is a validated page request. Handlers are responsible for
// range-checking Page and PageSize and for trimming Search before calling
// the store.
type ListParams struct {
	Page      int
	PageSize  int
	SortOrder string
	Search    string
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

// filtered starts a fresh query with the search predicate applied. The same
// predicate backs both the data and the count query of a request, so the
// pagination totals always agree with the returned rows.
func (s *Store) filtered(ctx context.Context, search string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Chat{})
	if search == "" {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	return q.Where(
		`LOWER(user_message) LIKE ? ESCAPE '\' OR LOWER(ai_message) LIKE ? ESCAPE '\' OR LOWER(session_id) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so the search term only
// matches itself literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderDirection maps the request sort order onto a SQL keyword. Anything
// that is not "desc" sorts ascending.
func orderDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "desc") {
		return "DESC"
	}
	return "ASC"
}
