package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
)

// uploadsURLPrefix marks document URLs that live in the local upload area
// and are therefore eligible for migration.
const uploadsURLPrefix = "/uploads/"

// Fixed subfolder sets of the mirrored directory tree. Component folders
// nest under Bauteile and get their own, smaller set.
var (
	orderSubfolders     = []string{"CAD_CAM", "Zeichnungen", "Dokumentation", "Bilder", "Bauteile", "Dokumente", "Archiv"}
	componentSubfolders = []string{"CAD_CAM", "Zeichnungen", "Dokumentation", "Bilder", "Dokumente"}
)

// FolderResult is the outcome of an EnsureOrderFolder call. Failures are
// expected outcomes (path not configured, base unreachable), never panics.
type FolderResult struct {
	Success   bool             `json:"success"`
	Path      string           `json:"path,omitempty"`
	Message   string           `json:"message"`
	Migration *MigrationResult `json:"migration_result,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}

// MigrationResult aggregates a file migration batch. Individual file
// failures land in Errors; the batch itself still succeeds.
type MigrationResult struct {
	Success       bool           `json:"success"`
	MigratedFiles int            `json:"migrated_files"`
	FileTypes     map[string]int `json:"file_types"`
	Errors        []string       `json:"errors,omitempty"`
	Message       string         `json:"message"`
}

// SanitizeFolderName replaces the characters that are invalid in folder
// names (< > : " | ? *) with underscores.
func SanitizeFolderName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
}

// ClassifySubfolder routes a filename to its destination subfolder by
// extension: CAD/CAM formats, images, PDFs, office documents. Unknown
// extensions land in Dokumentation.
func ClassifySubfolder(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".dxf", ".dwg", ".step", ".stp", ".igs", ".iges", ".stl",
		".x_t", ".sldprt", ".sldasm", ".nc", ".mpf", ".tap":
		return "CAD_CAM"
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return "Bilder"
	case ".pdf":
		return "Dokumentation"
	case ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".csv", ".odt", ".ods":
		return "Dokumente"
	default:
		return "Dokumentation"
	}
}

// EnsureOrderFolder creates (or repairs) the network folder tree for an
// order and sweeps its uploaded files into it. Best effort: every failure
// comes back as a structured result, callers never see a panic, and the
// surrounding request (e.g. order creation) proceeds regardless.
func EnsureOrderFolder(orderNumber string, orderID uint) FolderResult {
	basePath := EffectiveNetworkBasePath()
	if basePath == "" {
		return FolderResult{
			Success: false,
			Message: "network base path is not configured",
		}
	}

	name := orderNumber
	if name == "" {
		name = strconv.FormatUint(uint64(orderID), 10)
	}
	folderName := SanitizeFolderName(name)

	if _, err := os.Stat(basePath); err != nil {
		return FolderResult{
			Success: false,
			Message: fmt.Sprintf("network base path %q is not reachable", basePath),
		}
	}

	orderFolder := filepath.Join(basePath, folderName)
	for _, sub := range orderSubfolders {
		// MkdirAll creates the order folder on first call and silently
		// skips whatever already exists on repeated calls
		if err := os.MkdirAll(filepath.Join(orderFolder, sub), 0o755); err != nil {
			return FolderResult{
				Success: false,
				Message: fmt.Sprintf("failed to create folder %s: %v", sub, err),
			}
		}
	}

	// sweep files even when the folder already existed, so uploads that
	// arrived since the last call are picked up
	migration := MigrateFiles(orderID, orderFolder)

	result := FolderResult{
		Success:   true,
		Path:      orderFolder,
		Message:   "network folder ready",
		Migration: &migration,
	}

	// bookkeeping on the order; filesystem state wins over DB state, so a
	// failed update only downgrades the result to a warning
	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		result.Warning = "order record not found, network path not persisted"
		return result
	}
	if !order.NetworkFolderCreated {
		updates := map[string]interface{}{
			"network_path":           orderFolder,
			"network_folder_created": true,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			log.Printf("failed to persist network path for order %d: %v", orderID, err)
			result.Warning = "failed to persist network path on order"
		}
	}

	return result
}

// MigrateFiles copies every locally uploaded document of an order (and of
// its components) into the order's network folder. Copies are skipped when
// the destination already exists; a missing source is recorded as a per-file
// error without aborting the batch.
func MigrateFiles(orderID uint, orderFolder string) MigrationResult {
	result := MigrationResult{
		Success:   true,
		FileTypes: map[string]int{},
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Documents").Preload("Components.Documents").
		First(&order, orderID).Error; err != nil {
		return MigrationResult{
			Success:   false,
			FileTypes: map[string]int{},
			Message:   "order not found",
		}
	}

	uploadDir := "./uploads"
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		uploadDir = cfg.UploadDir
	}

	for _, doc := range order.Documents {
		migrateDocument(doc.URL, doc.Name, orderFolder, uploadDir, &result)
	}

	for _, component := range order.Components {
		if len(component.Documents) == 0 {
			continue
		}
		componentFolder := filepath.Join(orderFolder, "Bauteile", SanitizeFolderName(component.Title))
		for _, sub := range componentSubfolders {
			if err := os.MkdirAll(filepath.Join(componentFolder, sub), 0o755); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("component %s: failed to create folder %s: %v", component.Title, sub, err))
				continue
			}
		}
		for _, doc := range component.Documents {
			migrateDocument(doc.URL, doc.Name, componentFolder, uploadDir, &result)
		}
	}

	result.Message = fmt.Sprintf("%d file(s) migrated", result.MigratedFiles)
	return result
}

// migrateDocument copies one uploaded file into targetFolder/{classified
// subfolder}. URLs outside the local upload area are ignored.
func migrateDocument(url, name, targetFolder, uploadDir string, result *MigrationResult) {
	if !strings.HasPrefix(url, uploadsURLPrefix) {
		return
	}

	filename := name
	if filename == "" {
		filename = filepath.Base(strings.TrimPrefix(url, uploadsURLPrefix))
	}

	subfolder := ClassifySubfolder(filename)
	source := filepath.Join(uploadDir, filepath.Base(strings.TrimPrefix(url, uploadsURLPrefix)))
	destination := filepath.Join(targetFolder, subfolder, filename)

	// already migrated on an earlier run
	if _, err := os.Stat(destination); err == nil {
		return
	}

	if _, err := os.Stat(source); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: source file not found", filename))
		return
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filename, err))
		return
	}

	if err := copyFile(source, destination); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filename, err))
		return
	}

	result.MigratedFiles++
	result.FileTypes[subfolder]++
}

// copyFile copies source to destination without removing the source
func copyFile(source, destination string) (err error) {
	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("warning: failed to close source file: %v", closeErr)
		}
	}()

	dst, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return nil
}
