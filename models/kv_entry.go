package models

import "time"

// KVEntry là backend Postgres cho kho key-value có TTL.
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey;size:255" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expires_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
