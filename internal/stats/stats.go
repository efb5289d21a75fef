package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samuli/blockdive/internal/model"
)

// Stats holds persistent session statistics and preferences
type Stats struct {
	FilesCreatedLifetime int64                `json:"files_created_lifetime"`
	DefaultStrategy      model.AllocationType `json:"default_strategy,omitempty"` // Allocation strategy to use on startup
	DeviceBytes          int64                `json:"device_bytes,omitempty"`     // Device size to use on startup
}

// Manager handles loading and saving stats
type Manager struct {
	path         string
	stats        Stats
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a new stats manager
func NewManager() *Manager {
	return &Manager{
		path:         defaultPath(),
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// defaultPath returns the default stats file path
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blockdive-stats.json"
	}
	return filepath.Join(home, ".blockdive", "stats.json")
}

// Load loads stats from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No stats file yet, start fresh
			m.stats = Stats{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.stats)
}

// Save saves stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves stats without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// FilesCreatedLifetime returns the lifetime created-file counter
func (m *Manager) FilesCreatedLifetime() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.FilesCreatedLifetime
}

// DefaultStrategy returns the preferred startup allocation strategy
func (m *Manager) DefaultStrategy() model.AllocationType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.DefaultStrategy
}

// SetDefaultStrategy records the preferred strategy and schedules a save
func (m *Manager) SetDefaultStrategy(t model.AllocationType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stats.DefaultStrategy == t {
		return
	}

	m.stats.DefaultStrategy = t
	m.dirty = true
	m.scheduleSaveLocked()
}

// DeviceBytes returns the preferred startup device size
func (m *Manager) DeviceBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.DeviceBytes
}

// SetDeviceBytes records the preferred device size and schedules a save
func (m *Manager) SetDeviceBytes(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stats.DeviceBytes == n {
		return
	}

	m.stats.DeviceBytes = n
	m.dirty = true
	m.scheduleSaveLocked()
}

// AddCreated adds to the lifetime created-file counter and schedules a
// debounced save
func (m *Manager) AddCreated(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FilesCreatedLifetime += n
	m.dirty = true
	m.scheduleSaveLocked()
}

// scheduleSaveLocked schedules a debounced save (caller must hold lock)
func (m *Manager) scheduleSaveLocked() {
	// Cancel any pending save timer
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close ensures any pending saves are written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
