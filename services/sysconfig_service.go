package services

import (
	"errors"
	"os"
	"strings"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"gorm.io/gorm"
)

// GetSystemConfig returns the stored value for a configuration key.
// The second return value is false when the key has never been set.
func GetSystemConfig(key string) (string, bool) {
	db := config.GetDB()
	var entry models.SystemConfig
	if err := db.Where("key = ?", key).First(&entry).Error; err != nil {
		return "", false
	}
	return entry.Value, true
}

// SetSystemConfig upserts a configuration entry and echoes the stored record.
// The network base path key gets its value normalized before storage so every
// later read sees the cleaned-up form.
func SetSystemConfig(key, value, description, updatedBy string) (*models.SystemConfig, error) {
	if strings.TrimSpace(key) == "" {
		return nil, &ValidationError{Message: "configuration key must not be empty"}
	}

	if key == models.ConfigKeyNetworkBasePath {
		value = NormalizeNetworkPath(value)
	}

	db := config.GetDB()
	var entry models.SystemConfig
	err := db.Where("key = ?", key).First(&entry).Error
	switch {
	case err == nil:
		entry.Value = value
		entry.Description = description
		entry.UpdatedBy = updatedBy
		if err := db.Save(&entry).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.SystemConfig{
			Key:         key,
			Value:       value,
			Description: description,
			UpdatedBy:   updatedBy,
		}
		if err := db.Create(&entry).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &entry, nil
}

// NormalizeNetworkPath cleans up a user-entered base path: surrounding quotes
// are stripped, UNC paths (\\server\share) and Windows drive-letter paths
// (C:\...) pass through unchanged, anything else gets backslashes converted
// to forward slashes.
func NormalizeNetworkPath(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"'`)

	if strings.HasPrefix(value, `\\`) {
		return value
	}
	if len(value) >= 3 && value[1] == ':' && (value[2] == '\\' || value[2] == '/') &&
		((value[0] >= 'A' && value[0] <= 'Z') || (value[0] >= 'a' && value[0] <= 'z')) {
		return value
	}
	return strings.ReplaceAll(value, `\`, `/`)
}

// EffectiveNetworkBasePath resolves the base path the synchronizer should
// use right now: the runtime-configured value wins, the environment-supplied
// default is the fallback, and an empty string means "not configured".
// Read fresh on every synchronizer operation, never cached process-wide.
func EffectiveNetworkBasePath() string {
	if value, ok := GetSystemConfig(models.ConfigKeyNetworkBasePath); ok && strings.TrimSpace(value) != "" {
		return value
	}
	if cfg := config.GetConfig(); cfg != nil && cfg.NetworkBasePath != "" {
		return cfg.NetworkBasePath
	}
	return ""
}

// PathStatus reports whether a path can be reached and written to
type PathStatus struct {
	Reachable bool `json:"reachable"`
	Writable  bool `json:"writable"`
}

// TestPath probes a path for reachability and writability. Writability is
// checked by creating and removing a throwaway directory.
func TestPath(path string) PathStatus {
	status := PathStatus{}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return status
	}
	status.Reachable = true

	probe, err := os.MkdirTemp(path, ".probe-")
	if err != nil {
		return status
	}
	if err := os.Remove(probe); err != nil {
		return status
	}
	status.Writable = true
	return status
}
