package vault

import (
	"fmt"
	"sort"

	"mediavault/internal/models"
	"mediavault/internal/stream"
)

// Payload is one decrypted item ready for presentation.
type Payload struct {
	Data []byte
	Kind models.MediaKind
	Name string
}

// FetchPayload decrypts one item, at most once per session for repeat
// reads thanks to the session cache.
func (s *Service) FetchPayload(id string) (*Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	item, err := s.meta.Item(id)
	if err != nil {
		return nil, err
	}

	data, err := s.cache.GetOrLoad(id, s.readBlob)
	if err != nil {
		return nil, err
	}

	return &Payload{Data: data, Kind: item.Kind, Name: item.OriginalName}, nil
}

// FetchPayloadBatch resolves many items with per-id errors. Only the ids
// missing from the cache are decrypted.
func (s *Service) FetchPayloadBatch(ids []string) (map[string]*Payload, map[string]error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(map[string]*Payload)
	errs := make(map[string]error)

	if err := s.requireAuth(); err != nil {
		for _, id := range ids {
			errs[id] = err
		}
		return results, errs
	}

	for _, id := range ids {
		item, err := s.meta.Item(id)
		if err != nil {
			errs[id] = err
			continue
		}

		data, err := s.cache.GetOrLoad(id, s.readBlob)
		if err != nil {
			errs[id] = err
			continue
		}

		results[id] = &Payload{Data: data, Kind: item.Kind, Name: item.OriginalName}
	}

	return results, errs
}

// FetchRange serves a clamped byte window of a video payload. Images are
// always served whole via FetchPayload.
func (s *Service) FetchRange(id string, start, end int64) (*stream.Range, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	item, err := s.meta.Item(id)
	if err != nil {
		return nil, err
	}
	if item.Kind != models.KindVideo {
		return nil, fmt.Errorf("%w: range reads require a video item, got %s", models.ErrInvalidType, item.Kind)
	}

	return s.ranges.ReadRange(id, start, end)
}

// FolderPreview returns the newest image in a folder as its preview,
// decrypting it once and caching it for the session. The boolean is false
// when the folder holds no images.
func (s *Service) FolderPreview(folderID string) (*Payload, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireAuth(); err != nil {
		return nil, false, err
	}

	if _, err := s.meta.Folder(folderID); err != nil {
		return nil, false, err
	}

	items, err := s.meta.Items(folderID)
	if err != nil {
		return nil, false, err
	}

	var images []*models.StoredItem
	for _, item := range items {
		if item.Kind == models.KindImage {
			images = append(images, item)
		}
	}
	if len(images) == 0 {
		return nil, false, nil
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	newest := images[0]

	data, err := s.cache.GetOrLoadPreview(folderID, func() ([]byte, error) {
		return s.readBlob(newest.ID)
	})
	if err != nil {
		return nil, false, err
	}

	return &Payload{Data: data, Kind: newest.Kind, Name: newest.OriginalName}, true, nil
}
