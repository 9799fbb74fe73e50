package utils

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/eventcall-server/models"
)

// Store là kho key-value có TTL. Mọi entry mang expires_at tuyệt đối;
// Get trả về absent cho entry hết hạn và xoá luôn khi gặp.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Remove(key string)
	Keys(prefix string) []string
	Purge() // dọn entry hết hạn
}

// KV là store mặc định của tiến trình. Khởi động là bản in-memory;
// main thay bằng bản Postgres sau khi ConnectDB. Fallback này cũng là
// store của test.
var KV Store = NewMemStore()

// GetJSON đọc và giải mã value; dữ liệu hỏng coi như absent (có log, không crash).
func GetJSON(s Store, key string, out interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("kvstore: entry %q hỏng, bỏ qua: %v", key, err)
		s.Remove(key)
		return false
	}
	return true
}

func SetJSON(s Store, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, raw, ttl)
}

// StartKVSweeper dọn entry hết hạn theo chu kỳ.
func StartKVSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			KV.Purge()
		}
	}()
}

// ===== Backend Postgres =====

type dbStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) Get(key string) ([]byte, bool) {
	var e models.KVEntry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		return nil, false
	}
	if time.Now().After(e.ExpiresAt) {
		s.db.Delete(&models.KVEntry{}, "key = ?", key)
		return nil, false
	}
	return []byte(e.Value), true
}

func (s *dbStore) Set(key string, value []byte, ttl time.Duration) error {
	e := models.KVEntry{
		Key:       key,
		Value:     string(value),
		ExpiresAt: time.Now().Add(ttl),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&e).Error
}

func (s *dbStore) Remove(key string) {
	s.db.Delete(&models.KVEntry{}, "key = ?", key)
}

func (s *dbStore) Keys(prefix string) []string {
	var keys []string
	s.db.Model(&models.KVEntry{}).
		Where("key LIKE ? AND expires_at > ?", prefix+"%", time.Now()).
		Pluck("key", &keys)
	return keys
}

func (s *dbStore) Purge() {
	res := s.db.Delete(&models.KVEntry{}, "expires_at <= ?", time.Now())
	if res.RowsAffected > 0 {
		log.Printf("kvstore: đã dọn %d entry hết hạn", res.RowsAffected)
	}
}

// ===== Fallback in-memory =====

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

type memStore struct {
	mu sync.RWMutex
	m  map[string]memEntry
}

func NewMemStore() Store {
	return &memStore{m: make(map[string]memEntry)}
}

func (s *memStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (s *memStore) Set(key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *memStore) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	var keys []string
	for k, e := range s.m {
		if strings.HasPrefix(k, prefix) && now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *memStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, e := range s.m {
		if now.After(e.expiresAt) {
			delete(s.m, k)
		}
	}
}
