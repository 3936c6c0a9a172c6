package models

import (
	"time"
)

// ConfigKeyNetworkBasePath is the configuration key governing the network
// folder synchronizer's root path.
const ConfigKeyNetworkBasePath = "NETWORK_BASE_PATH"

// SystemConfig is a key/value configuration entry that can be changed at
// runtime without a restart
type SystemConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `json:"description"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SystemConfig model
func (SystemConfig) TableName() string {
	return "system_configs"
}
