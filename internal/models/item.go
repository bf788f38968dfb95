package models

import (
	"path/filepath"
	"strings"
	"time"
)

// MediaKind classifies a stored item.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// imageExts and videoExts are the extensions accepted for import.
var (
	imageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	videoExts = map[string]bool{
		".mp4": true,
		".mov": true,
		".avi": true,
	}
)

// KindFromName classifies a file by its extension. The boolean is false
// for extensions that are not importable media.
func KindFromName(name string) (MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if imageExts[ext] {
		return KindImage, true
	}
	if videoExts[ext] {
		return KindVideo, true
	}
	return "", false
}

// StoredItem is the metadata record for one encrypted blob in the vault.
// The ID doubles as the on-disk filename.
type StoredItem struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Kind         MediaKind `json:"kind"`
	CreatedAt    time.Time `json:"created_at"`
	ByteSize     int64     `json:"byte_size"`

	// FolderID references a Folder; empty means the item lives at the root.
	FolderID string `json:"folder_id,omitempty"`
}

// Folder groups stored items. Deleting a folder never deletes its items.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
