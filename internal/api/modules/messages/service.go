package messages

import (
	"fmt"
	"log"

	"github.com/ethanbaker/carebridge/internal/ingest"
	"github.com/ethanbaker/carebridge/internal/storage"
	conversation_store "github.com/ethanbaker/carebridge/internal/stores/conversation"
	"github.com/ethanbaker/carebridge/internal/transcription"
	"github.com/ethanbaker/carebridge/internal/translation"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// MessageService owns the store handle and the enrichment pipeline for
// the API layer. It is constructed once at startup and closed on
// shutdown; nothing else holds the database connection.
type MessageService struct {
	store       conversation_store.Store
	coordinator *ingest.Coordinator
	uploader    *storage.Uploader // nil when Cloudinary is unconfigured
}

var messageService *MessageService

/** ---- INIT ---- */

// Init creates the message service and its store
func Init(cfg *utils.Config) (*MessageService, error) {
	// Create MySQL config
	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USER"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}

	// Create store
	var store conversation_store.Store
	var err error
	if dbConfig.DBName != "" {
		if store, err = conversation_store.NewMySqlStore(dbConfig.FormatDSN()); err != nil {
			return nil, err
		}
	} else {
		// Fallback to in-memory store
		log.Println("[MESSAGES]: Warning, MYSQL_DATABASE not set, using in-memory store (data will not persist across restarts)")
		store = conversation_store.NewInMemoryStore()
	}

	// Audio uploads are optional; without Cloudinary credentials the
	// audio endpoint reports the missing configuration per request
	uploader, err := storage.NewUploader(cfg)
	if err != nil {
		log.Printf("[MESSAGES]: Warning, audio uploads disabled: %v", err)
		uploader = nil
	}

	messageService = &MessageService{
		store:       store,
		coordinator: ingest.NewCoordinator(transcription.NewRunner(cfg), translation.NewService(cfg), store),
		uploader:    uploader,
	}

	return messageService, nil
}

// Store exposes the conversation store to sibling modules
func (s *MessageService) Store() conversation_store.Store {
	return s.store
}

// Close releases the store's database connection
func (s *MessageService) Close() error {
	return s.store.Close()
}
