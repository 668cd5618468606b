package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DefaultListLimit bounds history reads when the caller does not give a limit
const DefaultListLimit = 100

// Store interface defines methods for conversation persistence
type Store interface {
	Append(ctx context.Context, draft Draft) (*Entry, error)
	List(ctx context.Context, conversationID string, limit int) ([]*Entry, error)
	Search(ctx context.Context, query string, conversationID string) ([]*Match, error)
	Close() error
}

// MySqlStore handles conversation persistence using GORM
type MySqlStore struct {
	db *gorm.DB
}

// NewMySqlStore creates a new conversation store with GORM connection
func NewMySqlStore(databaseURL string) (*MySqlStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &MySqlStore{db: db}, nil
}

// Append assigns the entry's identity and timestamp and writes it in a
// single create, so a failure never leaves partial state behind
func (s *MySqlStore) Append(ctx context.Context, draft Draft) (*Entry, error) {
	entry := materialize(draft)

	if result := s.db.WithContext(ctx).Create(entry); result.Error != nil {
		return nil, &faults.StorageError{Op: "append", Cause: result.Error}
	}

	return entry, nil
}

// List returns entries in chronological order (oldest first). The query
// fetches newest-first so the limit keeps the most recent entries; the
// reversal back to chronological order is what downstream summarization
// depends on. Equal timestamps order by seq, so ties break by insertion
// order.
func (s *MySqlStore) List(ctx context.Context, conversationID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Order("seq DESC").Limit(limit)
	if conversationID != "" {
		query = query.Where("conversation_id = ?", conversationID)
	}

	var entries []*Entry
	if result := query.Find(&entries); result.Error != nil {
		return nil, &faults.StorageError{Op: "list", Cause: result.Error}
	}

	// Reverse to chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Search matches the query as a substring of either text field and
// returns results newest-first with a snippet of the surrounding text.
// LIKE is case-insensitive under the default utf8mb4 collation.
func (s *MySqlStore) Search(ctx context.Context, query string, conversationID string) ([]*Match, error) {
	pattern := likePattern(query)

	q := s.db.WithContext(ctx).
		Where("original_text LIKE ? OR translated_text LIKE ?", pattern, pattern).
		Order("created_at DESC").Order("seq DESC")
	if conversationID != "" {
		q = q.Where("conversation_id = ?", conversationID)
	}

	var entries []*Entry
	if result := q.Find(&entries); result.Error != nil {
		return nil, &faults.StorageError{Op: "search", Cause: result.Error}
	}

	matches := make([]*Match, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, &Match{
			Entry:   entry,
			Snippet: MakeSnippet(query, entry.OriginalText, entry.TranslatedText),
		})
	}

	return matches, nil
}

// Close closes the database connection
func (s *MySqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

// likePattern wraps the query for a substring LIKE match, escaping the
// wildcard characters so user input matches literally (the in-memory
// store's strings.Contains search treats them literally too)
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query)
	return "%" + escaped + "%"
}

// materialize turns a draft into a stored entry with identity, defaults,
// and a UTC timestamp assigned
func materialize(draft Draft) *Entry {
	conversationID := draft.ConversationID
	if conversationID == "" {
		conversationID = DefaultConversationID
	}

	return &Entry{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		ConversationID: conversationID,
		Role:           draft.Role,
		OriginalText:   draft.OriginalText,
		TranslatedText: draft.TranslatedText,
		Language:       draft.Language,
		TargetLanguage: draft.TargetLanguage,
		Kind:           draft.Kind,
		AudioURL:       draft.AudioURL,
	}
}

// InMemoryStore keeps entries in memory (used when no database is
// configured, and in tests)
type InMemoryStore struct {
	entries []*Entry
	seq     uint64
	mu      sync.RWMutex
}

// NewInMemoryStore creates a new in-memory conversation store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: []*Entry{}}
}

// Append stores a materialized entry in insertion order
func (s *InMemoryStore) Append(ctx context.Context, draft Draft) (*Entry, error) {
	entry := materialize(draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry.Seq = s.seq
	s.entries = append(s.entries, entry)

	return entry, nil
}

// List returns entries in chronological order, ties broken by insertion order
func (s *InMemoryStore) List(ctx context.Context, conversationID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*Entry
	for _, entry := range s.entries {
		if conversationID == "" || entry.ConversationID == conversationID {
			entries = append(entries, entry)
		}
	}

	// Equal timestamps order by seq, matching the MySQL tie-break
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	// Keep the most recent entries when over the limit
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return entries, nil
}

// Search matches case-insensitively against both text fields, newest first
func (s *InMemoryStore) Search(ctx context.Context, query string, conversationID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lowered := strings.ToLower(query)

	var matches []*Match
	// Walk newest to oldest
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if conversationID != "" && entry.ConversationID != conversationID {
			continue
		}

		if strings.Contains(strings.ToLower(entry.OriginalText), lowered) ||
			strings.Contains(strings.ToLower(entry.TranslatedText), lowered) {
			matches = append(matches, &Match{
				Entry:   entry,
				Snippet: MakeSnippet(query, entry.OriginalText, entry.TranslatedText),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Entry.CreatedAt.Equal(matches[j].Entry.CreatedAt) {
			return matches[i].Entry.Seq > matches[j].Entry.Seq
		}
		return matches[i].Entry.CreatedAt.After(matches[j].Entry.CreatedAt)
	})

	return matches, nil
}

// Close is a no-op for the in-memory store
func (s *InMemoryStore) Close() error {
	return nil
}
