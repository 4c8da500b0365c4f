package internal

import (
	"strings"
	"sync"
)

// DebugBuffer collects log output for the log overlay. Engines log from their
// own goroutines, so access is serialized.
type DebugBuffer struct {
	mu      sync.Mutex
	content strings.Builder
}

func (db *DebugBuffer) Write(p []byte) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.content.Write(p)
}

func (db *DebugBuffer) String() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.content.String()
}
