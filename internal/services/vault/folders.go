package vault

import (
	"mediavault/internal/audit"
	"mediavault/internal/models"
)

// CreateFolder adds a folder to the catalog.
func (s *Service) CreateFolder(name string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	folder, err := s.meta.CreateFolder(name)
	if err != nil {
		return nil, err
	}

	s.audit.Record(audit.EventFolderCreate, folder.ID, "")
	return folder, nil
}

// ListFolders returns the folder catalog.
func (s *Service) ListFolders() ([]*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	return s.meta.Folders()
}

// DeleteFolder removes a folder. Member items survive and move to the
// root as part of the same metadata transaction.
func (s *Service) DeleteFolder(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return err
	}

	if err := s.meta.DeleteFolder(id); err != nil {
		return err
	}

	s.cache.InvalidateFolder(id)
	s.audit.Record(audit.EventFolderDelete, id, "")
	return nil
}

// ReassignFolder moves an item between folders (empty folderID = root)
// and invalidates the previews on both sides.
func (s *Service) ReassignFolder(id, folderID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return err
	}

	item, err := s.meta.Item(id)
	if err != nil {
		return err
	}

	if err := s.meta.ReassignFolder(id, folderID); err != nil {
		return err
	}

	s.cache.InvalidateFolder(item.FolderID)
	s.cache.InvalidateFolder(folderID)
	return nil
}
