package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/client"
	"mediavault/internal/config"
	"mediavault/internal/events"
	"mediavault/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dataDir
	cfg.Storage.VaultDir = filepath.Join(dataDir, "Vault")
	cfg.Storage.SettingsFile = filepath.Join(dataDir, "settings.json")
	cfg.Storage.MetadataFile = filepath.Join(dataDir, "metadata.dat")
	cfg.Storage.AuditFile = filepath.Join(dataDir, "audit.db")
	return cfg
}

func newTestClient(t *testing.T, cfg *config.Config) *client.Client {
	t.Helper()

	c, err := client.New(cfg, events.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func writeSource(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func setupVault(t *testing.T, c *client.Client) {
	t.Helper()
	require.NoError(t, c.Vault.SetupPin("1234"))
}

func TestService_SetupImportFetch(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	payload := []byte("0123456789")
	src := writeSource(t, "a.jpg", payload)

	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Empty(t, result.Failed)

	item := result.Imported[0]
	assert.Equal(t, "a.jpg", item.OriginalName)
	assert.Equal(t, models.KindImage, item.Kind)
	assert.Equal(t, int64(10), item.ByteSize)
	assert.Empty(t, item.FolderID)

	items, err := c.Vault.ListItems("")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	got, err := c.Vault.FetchPayload(item.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, got.Data)
	assert.Equal(t, models.KindImage, got.Kind)
	assert.Equal(t, "a.jpg", got.Name)
}

func TestService_Import_MixedBatch(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	good := writeSource(t, "a.jpg", []byte("image"))
	unsupported := writeSource(t, "doc.pdf", []byte("pdf"))
	missing := filepath.Join(t.TempDir(), "gone.jpg")

	result, err := c.Vault.ImportFiles([]string{good, unsupported, missing}, "")
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	require.Len(t, result.Failed, 2)

	byName := map[string]error{}
	for _, f := range result.Failed {
		byName[f.Name] = f.Err
	}
	assert.ErrorIs(t, byName["doc.pdf"], models.ErrInvalidType)
	assert.Error(t, byName["gone.jpg"])
}

func TestService_Import_FileTooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.MaxFileSize = 4
	c := newTestClient(t, cfg)
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("too large"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed[0].Err, models.ErrInvalidInput)
}

func TestService_WrongPinDeniesEverything(t *testing.T) {
	cfg := testConfig(t)
	c := newTestClient(t, cfg)
	setupVault(t, c)
	require.NoError(t, c.Vault.Logout())

	ok, err := c.Vault.VerifyPin("0000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, c.Vault.Authenticated())

	_, err = c.Vault.ListItems("")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, err = c.Vault.ImportFiles([]string{"a.jpg"}, "")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, err = c.Vault.FetchPayload("vault_abc.jpg")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, err = c.Vault.CreateFolder("Trip")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	assert.ErrorIs(t, c.Vault.WipeAll(), models.ErrNotAuthenticated)
}

func TestService_VerifyPin_NoneConfigured(t *testing.T) {
	c := newTestClient(t, testConfig(t))

	_, err := c.Vault.VerifyPin("1234")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestService_Folders(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	folder, err := c.Vault.CreateFolder("Trip")
	require.NoError(t, err)
	assert.NotEmpty(t, folder.ID)

	folders, err := c.Vault.ListFolders()
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Trip", folders[0].Name)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, folder.ID)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	id := result.Imported[0].ID

	inFolder, err := c.Vault.ListItems(folder.ID)
	require.NoError(t, err)
	require.Len(t, inFolder, 1)

	root, err := c.Vault.ListItems("")
	require.NoError(t, err)
	assert.Empty(t, root)

	require.NoError(t, c.Vault.ReassignFolder(id, ""))
	root, err = c.Vault.ListItems("")
	require.NoError(t, err)
	assert.Len(t, root, 1)

	require.NoError(t, c.Vault.DeleteFolder(folder.ID))
	_, err = c.Vault.ListItems(folder.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_Import_UnknownFolder(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	_, err := c.Vault.ImportFiles([]string{src}, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_DeleteFolder_MembersSurvive(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	folder, err := c.Vault.CreateFolder("Trip")
	require.NoError(t, err)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, folder.ID)
	require.NoError(t, err)
	id := result.Imported[0].ID

	require.NoError(t, c.Vault.DeleteFolder(folder.ID))

	root, err := c.Vault.ListItems("")
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, id, root[0].ID)

	// The payload is still readable after the folder is gone.
	got, err := c.Vault.FetchPayload(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got.Data)
}

func TestService_DeleteItem(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	id := result.Imported[0].ID

	require.NoError(t, c.Vault.DeleteItem(id))

	_, err = c.Vault.FetchPayload(id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, c.Vault.DeleteItem(id), models.ErrNotFound)
}

func TestService_FetchPayloadBatch_PartialSuccess(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	a := writeSource(t, "a.jpg", []byte("image-a"))
	b := writeSource(t, "b.jpg", []byte("image-b"))
	result, err := c.Vault.ImportFiles([]string{a, b}, "")
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)

	ids := []string{result.Imported[0].ID, "vault_missing.jpg", result.Imported[1].ID}
	payloads, errs := c.Vault.FetchPayloadBatch(ids)

	assert.Len(t, payloads, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs["vault_missing.jpg"], models.ErrNotFound)
}

func TestService_FetchRange(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	video := writeSource(t, "clip.mp4", []byte("0123456789"))
	image := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{video, image}, "")
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)

	var videoID, imageID string
	for _, item := range result.Imported {
		if item.Kind == models.KindVideo {
			videoID = item.ID
		} else {
			imageID = item.ID
		}
	}

	rng, err := c.Vault.FetchRange(videoID, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("2345"), rng.Data)
	assert.Equal(t, int64(10), rng.TotalSize)

	// Out-of-bounds windows clamp instead of erroring.
	rng, err = c.Vault.FetchRange(videoID, -5, 110)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), rng.Data)
	assert.Equal(t, int64(0), rng.Start)
	assert.Equal(t, int64(9), rng.End)

	_, err = c.Vault.FetchRange(imageID, 0, 4)
	assert.ErrorIs(t, err, models.ErrInvalidType)
}

func TestService_FolderPreview(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	folder, err := c.Vault.CreateFolder("Trip")
	require.NoError(t, err)

	_, ok, err := c.Vault.FolderPreview(folder.ID)
	require.NoError(t, err)
	assert.False(t, ok, "empty folder has no preview")

	video := writeSource(t, "clip.mp4", []byte("video"))
	image := writeSource(t, "a.jpg", []byte("image"))
	_, err = c.Vault.ImportFiles([]string{video, image}, folder.ID)
	require.NoError(t, err)

	preview, ok, err := c.Vault.FolderPreview(folder.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.KindImage, preview.Kind)
	assert.Equal(t, []byte("image"), preview.Data)

	_, _, err = c.Vault.FolderPreview("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_Relocate(t *testing.T) {
	cfg := testConfig(t)
	c := newTestClient(t, cfg)
	setupVault(t, c)

	names := []string{"a.jpg", "b.jpg", "c.mp4"}
	var ids []string
	for _, name := range names {
		src := writeSource(t, name, []byte("payload-"+name))
		result, err := c.Vault.ImportFiles([]string{src}, "")
		require.NoError(t, err)
		require.Len(t, result.Imported, 1)
		ids = append(ids, result.Imported[0].ID)
	}

	newDir := filepath.Join(t.TempDir(), "Relocated")
	result, err := c.Vault.RelocateVault(newDir)
	require.NoError(t, err)
	assert.Equal(t, 3, result.FilesMoved)
	assert.Empty(t, result.Failures)
	assert.Equal(t, newDir, result.Path)

	entries, err := os.ReadDir(cfg.Storage.VaultDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "old vault directory must be drained")

	for i, id := range ids {
		got, err := c.Vault.FetchPayload(id)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload-"+names[i]), got.Data)
	}
}

func TestService_Relocate_SurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	c := newTestClient(t, cfg)
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	id := result.Imported[0].ID

	newDir := filepath.Join(t.TempDir(), "Relocated")
	_, err = c.Vault.RelocateVault(newDir)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// A second client over the same settings finds the moved blobs.
	c2 := newTestClient(t, cfg)
	ok, err := c2.Vault.VerifyPin("1234")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := c2.Vault.FetchPayload(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got.Data)
}

func TestService_WipeAll(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	id := result.Imported[0].ID

	require.NoError(t, c.Vault.WipeAll())

	items, err := c.Vault.ListItems("")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = c.Vault.FetchPayload(id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_Logout_DeniesAccess(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	id := result.Imported[0].ID

	require.NoError(t, c.Vault.Logout())
	assert.False(t, c.Vault.Authenticated())

	_, err = c.Vault.FetchPayload(id)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	// Re-authenticating restores access to the same content.
	ok, err := c.Vault.VerifyPin("1234")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := c.Vault.FetchPayload(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got.Data)
}

func TestService_SetupResetsVault(t *testing.T) {
	c := newTestClient(t, testConfig(t))
	setupVault(t, c)

	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, "")
	require.NoError(t, err)
	id := result.Imported[0].ID

	// A new setup regenerates the installation secret; the old blobs are
	// unreachable and must be gone.
	require.NoError(t, c.Vault.SetupPin("9876"))

	items, err := c.Vault.ListItems("")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = c.Vault.FetchPayload(id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_PersistenceAcrossClients(t *testing.T) {
	cfg := testConfig(t)
	c := newTestClient(t, cfg)
	setupVault(t, c)

	folder, err := c.Vault.CreateFolder("Trip")
	require.NoError(t, err)
	src := writeSource(t, "a.jpg", []byte("image"))
	result, err := c.Vault.ImportFiles([]string{src}, folder.ID)
	require.NoError(t, err)
	id := result.Imported[0].ID
	require.NoError(t, c.Close())

	c2 := newTestClient(t, cfg)
	ok, err := c2.Vault.VerifyPin("1234")
	require.NoError(t, err)
	require.True(t, ok)

	folders, err := c2.Vault.ListFolders()
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Trip", folders[0].Name)

	got, err := c2.Vault.FetchPayload(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got.Data)
	assert.Equal(t, "a.jpg", got.Name)
}
