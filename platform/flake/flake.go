package flake

import (
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

var (
	mu     sync.Mutex
	flakes = map[string]*sonyflake.Sonyflake{}
)

// NextID returns the next safe to use ID for the given namespace.
func NextID(namespace string) (uint64, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := flakes[namespace]; !ok {
		var s sonyflake.Settings
		s.StartTime = time.Date(2024, 2, 12, 9, 0, 0, 0, time.UTC)

		flakes[namespace] = sonyflake.NewSonyflake(s)
	}

	return flakes[namespace].NextID()
}
