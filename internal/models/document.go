package models

// MetadataDocument is the aggregate persisted as a single encrypted blob.
// It is re-serialized and re-encrypted atomically on every mutation.
type MetadataDocument struct {
	Items   map[string]*StoredItem `json:"items"`
	Folders map[string]*Folder     `json:"folders"`
}

// NewMetadataDocument returns an empty, well-formed document.
func NewMetadataDocument() *MetadataDocument {
	return &MetadataDocument{
		Items:   make(map[string]*StoredItem),
		Folders: make(map[string]*Folder),
	}
}

// Normalize repairs a structurally incomplete document. Older writes could
// omit either map, so the loader must tolerate and fill them in.
func (d *MetadataDocument) Normalize() {
	if d.Items == nil {
		d.Items = make(map[string]*StoredItem)
	}
	if d.Folders == nil {
		d.Folders = make(map[string]*Folder)
	}
}

// Empty reports whether the document records nothing.
func (d *MetadataDocument) Empty() bool {
	return len(d.Items) == 0 && len(d.Folders) == 0
}
