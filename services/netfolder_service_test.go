package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNetfolderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.Document{},
		&models.Component{},
		&models.ComponentDocument{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// setupNetfolderEnv wires a temp upload area and a temp network base path
// through the configuration, returning both
func setupNetfolderEnv(t *testing.T, db *gorm.DB) (uploadDir, basePath string) {
	uploadDir = t.TempDir()
	basePath = t.TempDir()
	config.SetConfig(&config.Config{UploadDir: uploadDir})
	_, err := SetSystemConfig(models.ConfigKeyNetworkBasePath, basePath, "test base path", "test")
	require.NoError(t, err)
	return uploadDir, basePath
}

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no special characters", "F-2507-1", "F-2507-1"},
		{"all forbidden characters", `a<b>c:d"e|f?g*h`, "a_b_c_d_e_f_g_h"},
		{"spaces and dots survive", "Deckel v2.1 (links)", "Deckel v2.1 (links)"},
		{"umlauts survive", "Gehäuse", "Gehäuse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFolderName(tt.input))
		})
	}
}

func TestClassifySubfolder(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"part.dxf", "CAD_CAM"},
		{"part.DWG", "CAD_CAM"},
		{"model.step", "CAD_CAM"},
		{"photo.png", "Bilder"},
		{"photo.JPEG", "Bilder"},
		{"drawing.pdf", "Dokumentation"},
		{"offer.docx", "Dokumente"},
		{"list.xlsx", "Dokumente"},
		{"mystery.unknownext", "Dokumentation"},
		{"noextension", "Dokumentation"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifySubfolder(tt.filename))
		})
	}
}

func TestEnsureOrderFolderNotConfigured(t *testing.T) {
	db := setupNetfolderTestDB(t)
	config.SetConfig(&config.Config{})

	order := models.Order{OrderNumber: "F-2507-1", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not configured")
	assert.Empty(t, result.Path)

	// the order's bookkeeping must be untouched
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.False(t, reloaded.NetworkFolderCreated)
	assert.Nil(t, reloaded.NetworkPath)
}

func TestEnsureOrderFolderBaseUnreachable(t *testing.T) {
	db := setupNetfolderTestDB(t)
	config.SetConfig(&config.Config{})
	_, err := SetSystemConfig(models.ConfigKeyNetworkBasePath, "/nonexistent/werkstatt/base", "", "test")
	require.NoError(t, err)

	order := models.Order{OrderNumber: "F-2507-1", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not reachable")
}

func TestEnsureOrderFolderCreatesTree(t *testing.T) {
	db := setupNetfolderTestDB(t)
	_, basePath := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-1", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)

	require.True(t, result.Success)
	assert.Equal(t, filepath.Join(basePath, "F-2507-1"), result.Path)

	for _, sub := range []string{"CAD_CAM", "Zeichnungen", "Dokumentation", "Bilder", "Bauteile", "Dokumente", "Archiv"} {
		info, err := os.Stat(filepath.Join(result.Path, sub))
		require.NoError(t, err, "subfolder %s should exist", sub)
		assert.True(t, info.IsDir())
	}

	// bookkeeping persisted
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.NetworkFolderCreated)
	require.NotNil(t, reloaded.NetworkPath)
	assert.Equal(t, result.Path, *reloaded.NetworkPath)
}

func TestEnsureOrderFolderSanitizesName(t *testing.T) {
	db := setupNetfolderTestDB(t)
	_, basePath := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: `F-2507-1<extra>`, Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)

	require.True(t, result.Success)
	assert.Equal(t, filepath.Join(basePath, "F-2507-1_extra_"), result.Path)
}

func TestEnsureOrderFolderIdempotent(t *testing.T) {
	db := setupNetfolderTestDB(t)
	uploadDir, _ := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-1", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	// one migratable document
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "test.pdf"), []byte("pdf content"), 0o644))
	doc := models.Document{OrderID: order.ID, Name: "test.pdf", URL: "/uploads/test.pdf"}
	require.NoError(t, db.Create(&doc).Error)

	first := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, first.Success)
	require.NotNil(t, first.Migration)
	assert.Equal(t, 1, first.Migration.MigratedFiles)

	second := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, second.Success)
	assert.Equal(t, first.Path, second.Path)
	require.NotNil(t, second.Migration)
	// nothing migrated twice, no phantom errors
	assert.Equal(t, 0, second.Migration.MigratedFiles)
	assert.Empty(t, second.Migration.Errors)
}

func TestMigrateFilesSingleDocument(t *testing.T) {
	db := setupNetfolderTestDB(t)
	uploadDir, basePath := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-1", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "test.pdf"), []byte("pdf content"), 0o644))
	doc := models.Document{OrderID: order.ID, Name: "test.pdf", URL: "/uploads/test.pdf"}
	require.NoError(t, db.Create(&doc).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, result.Success)

	migrated := filepath.Join(basePath, "F-2507-1", "Dokumentation", "test.pdf")
	content, err := os.ReadFile(migrated)
	require.NoError(t, err)
	assert.Equal(t, "pdf content", string(content))

	// copy, not move: the source survives
	_, err = os.Stat(filepath.Join(uploadDir, "test.pdf"))
	assert.NoError(t, err)

	require.NotNil(t, result.Migration)
	assert.Equal(t, 1, result.Migration.MigratedFiles)
	assert.Equal(t, map[string]int{"Dokumentation": 1}, result.Migration.FileTypes)
	assert.Empty(t, result.Migration.Errors)
}

func TestMigrateFilesRoutesByExtension(t *testing.T) {
	db := setupNetfolderTestDB(t)
	uploadDir, basePath := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-2", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	files := map[string]string{
		"part.dxf":   "CAD_CAM",
		"photo.png":  "Bilder",
		"plan.pdf":   "Dokumentation",
		"offer.docx": "Dokumente",
	}
	for name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(uploadDir, name), []byte(name), 0o644))
		doc := models.Document{OrderID: order.ID, Name: name, URL: "/uploads/" + name}
		require.NoError(t, db.Create(&doc).Error)
	}

	result := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, result.Success)
	require.NotNil(t, result.Migration)
	assert.Equal(t, 4, result.Migration.MigratedFiles)

	for name, subfolder := range files {
		_, err := os.Stat(filepath.Join(basePath, "F-2507-2", subfolder, name))
		assert.NoError(t, err, "%s should be in %s", name, subfolder)
		assert.Equal(t, 1, result.Migration.FileTypes[subfolder])
	}
}

func TestMigrateFilesComponentDocuments(t *testing.T) {
	db := setupNetfolderTestDB(t)
	uploadDir, basePath := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-3", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)
	component := models.Component{OrderID: order.ID, Title: `Deckel "links"`}
	require.NoError(t, db.Create(&component).Error)

	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "deckel.dxf"), []byte("dxf"), 0o644))
	doc := models.ComponentDocument{ComponentID: component.ID, Name: "deckel.dxf", URL: "/uploads/deckel.dxf"}
	require.NoError(t, db.Create(&doc).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, result.Success)
	require.NotNil(t, result.Migration)
	assert.Equal(t, 1, result.Migration.MigratedFiles)

	componentFolder := filepath.Join(basePath, "F-2507-3", "Bauteile", "Deckel _links_")
	_, err := os.Stat(filepath.Join(componentFolder, "CAD_CAM", "deckel.dxf"))
	assert.NoError(t, err)

	// the component gets its own fixed subfolder set
	for _, sub := range []string{"CAD_CAM", "Zeichnungen", "Dokumentation", "Bilder", "Dokumente"} {
		info, err := os.Stat(filepath.Join(componentFolder, sub))
		require.NoError(t, err, "component subfolder %s should exist", sub)
		assert.True(t, info.IsDir())
	}
}

func TestMigrateFilesMissingSource(t *testing.T) {
	db := setupNetfolderTestDB(t)
	uploadDir, _ := setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-4", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	// one document whose file exists, one whose file is gone
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "exists.pdf"), []byte("ok"), 0o644))
	require.NoError(t, db.Create(&models.Document{
		OrderID: order.ID, Name: "exists.pdf", URL: "/uploads/exists.pdf",
	}).Error)
	require.NoError(t, db.Create(&models.Document{
		OrderID: order.ID, Name: "gone.pdf", URL: "/uploads/gone.pdf",
	}).Error)

	first := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, first.Success)
	require.NotNil(t, first.Migration)
	// the batch completes despite the per-file failure
	assert.True(t, first.Migration.Success)
	assert.Equal(t, 1, first.Migration.MigratedFiles)
	require.Len(t, first.Migration.Errors, 1)
	assert.Contains(t, first.Migration.Errors[0], "gone.pdf")

	// the second run must not report the successfully migrated file as missing
	second := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.NotNil(t, second.Migration)
	assert.Equal(t, 0, second.Migration.MigratedFiles)
	for _, msg := range second.Migration.Errors {
		assert.NotContains(t, msg, "exists.pdf")
	}
}

func TestMigrateFilesIgnoresForeignURLs(t *testing.T) {
	db := setupNetfolderTestDB(t)
	setupNetfolderEnv(t, db)

	order := models.Order{OrderNumber: "F-2507-5", Title: "Test", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.Document{
		OrderID: order.ID, Name: "remote.pdf", URL: "https://example.com/remote.pdf",
	}).Error)

	result := EnsureOrderFolder(order.OrderNumber, order.ID)
	require.True(t, result.Success)
	require.NotNil(t, result.Migration)
	assert.Equal(t, 0, result.Migration.MigratedFiles)
	assert.Empty(t, result.Migration.Errors)
}

func TestTestPath(t *testing.T) {
	dir := t.TempDir()

	status := TestPath(dir)
	assert.True(t, status.Reachable)
	assert.True(t, status.Writable)

	status = TestPath(filepath.Join(dir, "missing"))
	assert.False(t, status.Reachable)
	assert.False(t, status.Writable)
}
