package services

import (
	"testing"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSysConfigTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.SystemConfig{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func TestNormalizeNetworkPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain unix path", "/mnt/werkstatt", "/mnt/werkstatt"},
		{"surrounding double quotes", `"/mnt/werkstatt"`, "/mnt/werkstatt"},
		{"surrounding single quotes", `'/mnt/werkstatt'`, "/mnt/werkstatt"},
		{"UNC path untouched", `\\fileserver\werkstatt`, `\\fileserver\werkstatt`},
		{"quoted UNC path", `"\\fileserver\werkstatt"`, `\\fileserver\werkstatt`},
		{"drive letter untouched", `C:\Werkstatt\Auftraege`, `C:\Werkstatt\Auftraege`},
		{"lowercase drive letter untouched", `d:\share`, `d:\share`},
		{"relative backslashes flipped", `mnt\werkstatt\orders`, "mnt/werkstatt/orders"},
		{"whitespace trimmed", "  /mnt/werkstatt  ", "/mnt/werkstatt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeNetworkPath(tt.input))
		})
	}
}

func TestSetSystemConfigUpsert(t *testing.T) {
	setupSysConfigTestDB(t)

	entry, err := SetSystemConfig("SOME_KEY", "one", "first value", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "one", entry.Value)
	assert.Equal(t, "admin-1", entry.UpdatedBy)

	// second set updates in place, no duplicate rows
	entry, err = SetSystemConfig("SOME_KEY", "two", "second value", "admin-2")
	require.NoError(t, err)
	assert.Equal(t, "two", entry.Value)
	assert.Equal(t, "admin-2", entry.UpdatedBy)

	value, ok := GetSystemConfig("SOME_KEY")
	assert.True(t, ok)
	assert.Equal(t, "two", value)

	var count int64
	config.GetDB().Model(&models.SystemConfig{}).Where("key = ?", "SOME_KEY").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSetSystemConfigNormalizesBasePath(t *testing.T) {
	setupSysConfigTestDB(t)

	entry, err := SetSystemConfig(models.ConfigKeyNetworkBasePath, `"mnt\werkstatt"`, "", "admin")
	require.NoError(t, err)
	assert.Equal(t, "mnt/werkstatt", entry.Value)
}

func TestSetSystemConfigEmptyKey(t *testing.T) {
	setupSysConfigTestDB(t)

	_, err := SetSystemConfig("  ", "value", "", "admin")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetSystemConfigMissing(t *testing.T) {
	setupSysConfigTestDB(t)

	value, ok := GetSystemConfig("NEVER_SET")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestEffectiveNetworkBasePath(t *testing.T) {
	setupSysConfigTestDB(t)

	// nothing configured anywhere
	config.SetConfig(&config.Config{})
	assert.Empty(t, EffectiveNetworkBasePath())

	// environment default applies when the store is empty
	config.SetConfig(&config.Config{NetworkBasePath: "/mnt/env-default"})
	assert.Equal(t, "/mnt/env-default", EffectiveNetworkBasePath())

	// a runtime set takes effect immediately, no restart needed
	_, err := SetSystemConfig(models.ConfigKeyNetworkBasePath, "/mnt/runtime", "", "admin")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/runtime", EffectiveNetworkBasePath())
}
