package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is 50MB in bytes; CAD models get large
	MaxFileSize = 50 * 1024 * 1024
)

// allowedExtensions lists the upload formats the workshop accepts:
// CAD/CAM exchange formats, drawings, images and office documents.
var allowedExtensions = map[string]bool{
	".dxf": true, ".dwg": true, ".step": true, ".stp": true,
	".igs": true, ".iges": true, ".stl": true, ".x_t": true,
	".sldprt": true, ".sldasm": true, ".nc": true, ".mpf": true, ".tap": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
	".pdf": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".csv": true,
	".odt": true, ".ods": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateDocumentFile validates the uploaded file format and size
func ValidateDocumentFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("File format %q is not allowed", ext),
		}
	}

	return nil
}

// SaveUploadedFile saves the uploaded file to the local filesystem
// Returns the stored filename (relative to uploadDir)
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (filename string, err error) {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Generate unique filename to prevent collisions
	filename = fmt.Sprintf("%d_%s",
		time.Now().UnixNano(),
		filepath.Base(fileHeader.Filename))

	// Full path to save the file
	fullPath := filepath.Join(uploadDir, filename)

	// Open the uploaded file
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			// Log error since we're reading; not critical enough to fail the operation
			fmt.Printf("warning: failed to close source file: %v\n", closeErr)
		}
	}()

	// Create the destination file
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	// Copy the file
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	// Return relative path (from uploadDir)
	return filename, nil
}

// GetDocumentURL returns the URL path for accessing an uploaded document
func GetDocumentURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/uploads/%s", filename)
}
