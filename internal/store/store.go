package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/model"
	"storefront/pkg/config"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var s *Store

// Store persists the whole document to a single JSON file. It does no
// locking: concurrent load-mutate-save cycles are last-writer-wins.
type Store struct {
	path  string
	admin config.AdminConfig
}

// Init initializes the global store with configuration
func Init(cfg *config.Config) error {
	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	s = &Store{path: cfg.Store.Path, admin: cfg.Admin}
	return nil
}

// Get returns the global store instance
func Get() *Store {
	return s
}

// Load reads the document from disk. A missing file is seeded with
// defaults and persisted immediately; older documents get missing
// top-level fields backfilled so they stay loadable.
func (s *Store) Load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.seed()
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	backfill(&doc)
	return &doc, nil
}

// Save serializes the full document and overwrites the backing file in
// one shot. A failed write must never be reported as success upstream.
func (s *Store) Save(doc *model.Document) error {
	// Indented output keeps the file hand-inspectable
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (s *Store) seed() (*model.Document, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	doc := &model.Document{
		Products:   []model.Product{},
		Users:      []model.Customer{},
		Admin:      model.Admin{Username: s.admin.Username, Password: string(hash)},
		Settings:   model.DefaultSettings(),
		NextID:     1,
		NextUserID: 1,
	}
	if err := s.Save(doc); err != nil {
		return nil, err
	}

	logger.GetLogger().Info("Seeded new document store",
		zap.String("path", s.path),
		zap.String("admin_username", s.admin.Username))
	return doc, nil
}

// backfill applies field-by-field defaults for top-level fields that
// were added after a document was written, so old files remain valid
// without an explicit migration step.
func backfill(doc *model.Document) {
	if doc.Products == nil {
		doc.Products = []model.Product{}
	}
	if doc.Users == nil {
		doc.Users = []model.Customer{}
	}
	if doc.Settings == nil {
		doc.Settings = model.DefaultSettings()
	}
	if doc.NextID == 0 {
		doc.NextID = 1
	}
	if doc.NextUserID == 0 {
		doc.NextUserID = 1
	}
}
