// Package metadata manages the encrypted metadata document: every stored
// item's record plus the folder catalog, persisted as one blob. All
// mutations run under a single writer lock; each one re-encrypts and
// atomically rewrites the whole document before returning.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"mediavault/internal/crypto"
	"mediavault/internal/events"
	"mediavault/internal/models"
)

// Store owns the metadata document for the lifetime of a session.
type Store struct {
	path     string
	provider crypto.Provider
	logger   *events.Logger

	mu  sync.Mutex
	doc *models.MetadataDocument
	key []byte // nil while unloaded
}

// NewStore creates an unloaded metadata store.
func NewStore(path string, provider crypto.Provider, logger *events.Logger) *Store {
	return &Store{
		path:     path,
		provider: provider,
		logger:   logger.WithField("component", "metadata"),
	}
}

// Load decrypts the on-disk document under key. An absent file yields a
// fresh empty document. A present but undecryptable file also installs a
// fresh document, but returns ErrDecryptionFailed so the caller can tell
// "no data yet" apart from "wrong key or corrupted".
func (s *Store) Load(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
	s.doc = models.NewMetadataDocument()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	plaintext, err := s.provider.Decrypt(string(data), key)
	if err != nil {
		s.logger.WithError(err).Error("Metadata document undecryptable, starting empty")
		return fmt.Errorf("load metadata: %w", err)
	}

	doc := &models.MetadataDocument{}
	if err := json.Unmarshal(plaintext, doc); err != nil {
		s.logger.WithError(err).Error("Metadata document malformed, starting empty")
		return fmt.Errorf("%w: malformed metadata document", models.ErrDecryptionFailed)
	}

	doc.Normalize()
	s.doc = doc

	s.logger.WithFields(map[string]interface{}{
		"items":   len(doc.Items),
		"folders": len(doc.Folders),
	}).Info("Metadata loaded")

	return nil
}

// Unload drops the document and key. Pending saves have completed by the
// time the writer lock is acquired.
func (s *Store) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = nil
	s.key = nil
}

// Loaded reports whether a session document is active.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil
}

// Item returns a copy of one item record.
func (s *Store) Item(id string) (*models.StoredItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, models.ErrNotAuthenticated
	}

	item, ok := s.doc.Items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %s", models.ErrNotFound, id)
	}

	out := *item
	return &out, nil
}

// Items lists items in one folder. An empty folderID lists root-level
// items only, never a recursive listing.
func (s *Store) Items(folderID string) ([]*models.StoredItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, models.ErrNotAuthenticated
	}

	var items []*models.StoredItem
	for _, item := range s.doc.Items {
		if item.FolderID != folderID {
			continue
		}
		out := *item
		items = append(items, &out)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

// CreateItem records a new item and persists the document.
func (s *Store) CreateItem(item *models.StoredItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return models.ErrNotAuthenticated
	}

	if item.ID == "" {
		return fmt.Errorf("%w: empty item id", models.ErrInvalidInput)
	}
	if _, exists := s.doc.Items[item.ID]; exists {
		return fmt.Errorf("%w: duplicate item id %s", models.ErrInvalidInput, item.ID)
	}
	if item.FolderID != "" {
		if _, ok := s.doc.Folders[item.FolderID]; !ok {
			return fmt.Errorf("%w: folder %s", models.ErrNotFound, item.FolderID)
		}
	}

	stored := *item
	s.doc.Items[item.ID] = &stored

	if err := s.save(); err != nil {
		delete(s.doc.Items, item.ID)
		return err
	}

	return nil
}

// DeleteItem removes an item record and persists the document.
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return models.ErrNotAuthenticated
	}

	item, ok := s.doc.Items[id]
	if !ok {
		return fmt.Errorf("%w: item %s", models.ErrNotFound, id)
	}

	delete(s.doc.Items, id)

	if err := s.save(); err != nil {
		s.doc.Items[id] = item
		return err
	}

	return nil
}

// ReassignFolder moves an item to folderID, or to the root when folderID
// is empty.
func (s *Store) ReassignFolder(id, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return models.ErrNotAuthenticated
	}

	item, ok := s.doc.Items[id]
	if !ok {
		return fmt.Errorf("%w: item %s", models.ErrNotFound, id)
	}
	if folderID != "" {
		if _, ok := s.doc.Folders[folderID]; !ok {
			return fmt.Errorf("%w: folder %s", models.ErrNotFound, folderID)
		}
	}

	previous := item.FolderID
	item.FolderID = folderID

	if err := s.save(); err != nil {
		item.FolderID = previous
		return err
	}

	return nil
}

// CreateFolder adds a folder and persists the document. Folder ids are
// time-derived tokens; creation is serialized by the store lock.
func (s *Store) CreateFolder(name string) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, models.ErrNotAuthenticated
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty folder name", models.ErrInvalidInput)
	}

	id := strconv.FormatInt(time.Now().UnixNano(), 10)
	for {
		if _, exists := s.doc.Folders[id]; !exists {
			break
		}
		id = strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	folder := &models.Folder{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.doc.Folders[id] = folder

	if err := s.save(); err != nil {
		delete(s.doc.Folders, id)
		return nil, err
	}

	out := *folder
	return &out, nil
}

// Folder returns a copy of one folder record.
func (s *Store) Folder(id string) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, models.ErrNotAuthenticated
	}

	folder, ok := s.doc.Folders[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %s", models.ErrNotFound, id)
	}

	out := *folder
	return &out, nil
}

// Folders lists all folders.
func (s *Store) Folders() ([]*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, models.ErrNotAuthenticated
	}

	var folders []*models.Folder
	for _, folder := range s.doc.Folders {
		out := *folder
		folders = append(folders, &out)
	}

	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].CreatedAt.Before(folders[j].CreatedAt)
		}
		return folders[i].ID < folders[j].ID
	})

	return folders, nil
}

// DeleteFolder removes a folder and resets every member item to the root
// in the same transaction, so no item is left referencing a dead folder.
func (s *Store) DeleteFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return models.ErrNotAuthenticated
	}

	folder, ok := s.doc.Folders[id]
	if !ok {
		return fmt.Errorf("%w: folder %s", models.ErrNotFound, id)
	}

	var members []*models.StoredItem
	for _, item := range s.doc.Items {
		if item.FolderID == id {
			item.FolderID = ""
			members = append(members, item)
		}
	}
	delete(s.doc.Folders, id)

	if err := s.save(); err != nil {
		s.doc.Folders[id] = folder
		for _, item := range members {
			item.FolderID = id
		}
		return err
	}

	return nil
}

// Reset replaces the document with a fresh empty one and persists it.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return models.ErrNotAuthenticated
	}

	previous := s.doc
	s.doc = models.NewMetadataDocument()

	if err := s.forceSave(); err != nil {
		s.doc = previous
		return err
	}

	return nil
}

// save persists the current document. An empty document with no key set is
// a no-op; everything else serializes, encrypts and atomically overwrites
// the on-disk blob.
func (s *Store) save() error {
	if s.key == nil {
		if s.doc == nil || s.doc.Empty() {
			return nil
		}
		return models.ErrNotAuthenticated
	}
	return s.forceSave()
}

func (s *Store) forceSave() error {
	plaintext, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("serialize metadata: %w", err)
	}

	sealed, err := s.provider.Encrypt(plaintext, s.key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	tempPath := fmt.Sprintf("%s.tmp.%d", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tempPath, []byte(sealed), 0600); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename metadata: %w", err)
	}

	return nil
}
