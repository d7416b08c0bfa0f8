package config

import "sync"

var (
	globalManager *Manager
	globalOnce    sync.Once
	globalMu      sync.RWMutex
)

// Init initializes the global manager. Call once at program startup; later
// calls are no-ops.
func Init() error {
	var err error
	globalOnce.Do(func() {
		var m *Manager
		m, err = NewManager()
		if err == nil {
			SetGlobal(m)
		}
	})
	return err
}

// Global returns the global manager, or nil before Init.
func Global() *Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// SetGlobal replaces the global manager, mainly for tests.
func SetGlobal(m *Manager) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = m
}

// Get resolves a key through the global manager; "" before Init.
func Get(key string) string {
	return GetWithDefault(key, "")
}

// GetWithDefault resolves a key through the global manager with a default.
func GetWithDefault(key, defaultValue string) string {
	m := Global()
	if m == nil {
		return defaultValue
	}
	return m.GetWithDefault(key, defaultValue)
}
