package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediavault/internal/models"
)

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		kind models.MediaKind
		ok   bool
	}{
		{"photo.jpg", models.KindImage, true},
		{"photo.JPEG", models.KindImage, true},
		{"anim.gif", models.KindImage, true},
		{"clip.mp4", models.KindVideo, true},
		{"clip.MOV", models.KindVideo, true},
		{"doc.pdf", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := models.KindFromName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestMetadataDocument_Normalize(t *testing.T) {
	doc := &models.MetadataDocument{}
	doc.Normalize()

	assert.NotNil(t, doc.Items)
	assert.NotNil(t, doc.Folders)
	assert.True(t, doc.Empty())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, models.ErrCodeAuth, models.CodeOf(models.ErrNotAuthenticated))
	assert.Equal(t, models.ErrCodeDecryption, models.CodeOf(models.ErrDecryptionFailed))
	assert.Equal(t, models.ErrCodeIO, models.CodeOf(errors.New("disk on fire")))
}

func TestVaultError(t *testing.T) {
	err := models.NewVaultError("fetch", "vault_abc.jpg", models.ErrNotFound)

	assert.Equal(t, models.ErrCodeNotFound, err.Code)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "vault_abc.jpg")
}
