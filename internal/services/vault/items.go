package vault

import (
	"mediavault/internal/audit"
	"mediavault/internal/models"
)

// ListItems returns the items in one folder. An empty folderID lists the
// root level only.
func (s *Service) ListItems(folderID string) ([]*models.StoredItem, error) {
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

	return s.meta.Items(folderID)
}

// DeleteItem removes an item's metadata and blob and invalidates every
// cache that may hold its payload.
func (s *Service) DeleteItem(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return err
	}

	item, err := s.meta.Item(id)
	if err != nil {
		return err
	}

	if err := s.meta.DeleteItem(id); err != nil {
		return err
	}

	if err := s.store.Delete(id); err != nil {
		// Metadata is already gone; the blob is unreachable either way.
		s.logger.WithField("id", id).WithError(err).Warn("Failed to delete blob")
	}

	s.cache.Invalidate(id)
	s.cache.InvalidateFolder(item.FolderID)
	s.ranges.Invalidate(id)

	s.audit.Record(audit.EventDelete, id, "")
	return nil
}
