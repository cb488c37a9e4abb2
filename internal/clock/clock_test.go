package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_TruncatesToSeconds(t *testing.T) {
	now := SystemClock{}.Now()
	assert.Equal(t, 0, now.Nanosecond())
}

func TestFakeClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 700_000_000, time.UTC)
	c := NewFakeClock(start)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), c.Now())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC), c.Now())

	c.Set(time.Date(2024, 3, 1, 13, 5, 9, 1, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 13, 5, 9, 0, time.UTC), c.Now())
}

func TestFakeClock_ThreadSafe(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Second), c.Now())
}
