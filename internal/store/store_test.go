package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dennypradipta/n8n-chat-history/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Chat{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(db)
}

func seedChats(t *testing.T, s *Store, chats []models.Chat) {
	t.Helper()
	if err := s.db.Create(&chats).Error; err != nil {
		t.Fatalf("seed chats: %v", err)
	}
}

// seedNumbered inserts n rows with ids "001".."00n" and strictly increasing
// timestamps, all in one session.
func seedNumbered(t *testing.T, s *Store, n int) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	chats := make([]models.Chat, 0, n)
	for i := 1; i <= n; i++ {
		chats = append(chats, models.Chat{
			ID:          fmt.Sprintf("%03d", i),
			SessionID:   "session-1",
			UserMessage: fmt.Sprintf("question %d", i),
			AIMessage:   fmt.Sprintf("answer %d", i),
			Workflow:    "support-bot",
			WorkflowID:  "wf-1",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	seedChats(t, s, chats)
}
