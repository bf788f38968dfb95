package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mediavault/internal/audit"
	"mediavault/internal/models"
)

// ImportFailure records one file that could not be imported.
type ImportFailure struct {
	Name string
	Err  error
}

// ImportResult reports a best-effort batch import.
type ImportResult struct {
	Imported []*models.StoredItem
	Failed   []ImportFailure
}

// ImportFiles encrypts each file into the vault and records its metadata.
// One file's failure never aborts the batch. A failed metadata write rolls
// the blob back so no orphan ciphertext is left behind.
func (s *Service) ImportFiles(paths []string, folderID string) (*ImportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	if folderID != "" {
		if _, err := s.meta.Folder(folderID); err != nil {
			return nil, err
		}
	}

	result := &ImportResult{}
	for _, path := range paths {
		item, err := s.importOne(path, folderID)
		if err != nil {
			s.logger.WithField("file", filepath.Base(path)).WithError(err).Warn("Import failed")
			result.Failed = append(result.Failed, ImportFailure{
				Name: filepath.Base(path),
				Err:  err,
			})
			continue
		}
		result.Imported = append(result.Imported, item)
	}

	if len(result.Imported) > 0 {
		s.cache.InvalidateFolder(folderID)
		s.audit.Record(audit.EventImport, "", fmt.Sprintf("imported %d files", len(result.Imported)))
	}

	s.logger.WithFields(map[string]interface{}{
		"imported": len(result.Imported),
		"failed":   len(result.Failed),
	}).Info("Import finished")

	return result, nil
}

// importOne moves a single file into the vault.
func (s *Service) importOne(path, folderID string) (*models.StoredItem, error) {
	name := filepath.Base(path)

	kind, ok := models.KindFromName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported extension %q", models.ErrInvalidType, filepath.Ext(name))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", models.ErrInvalidInput, s.maxFileSize)
	}

	id, err := s.provider.NewItemID(name, s.session.PIN())
	if err != nil {
		return nil, err
	}

	if err := s.store.Write(id, data, s.session.Key()); err != nil {
		return nil, err
	}

	item := &models.StoredItem{
		ID:           id,
		OriginalName: name,
		Kind:         kind,
		CreatedAt:    time.Now().UTC(),
		ByteSize:     int64(len(data)),
		FolderID:     folderID,
	}

	if err := s.meta.CreateItem(item); err != nil {
		// Roll the blob back; the import of this file must not leave a
		// partial entry on either side.
		if delErr := s.store.Delete(id); delErr != nil {
			s.logger.WithField("id", id).WithError(delErr).Error("Failed to roll back blob")
		}
		return nil, err
	}

	return item, nil
}
