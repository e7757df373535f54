package translator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_UnlimitedNeverBlocks(t *testing.T) {
	r := NewRateLimiter(0, 0)
	for range 100 {
		assert.NoError(t, r.Wait(context.Background()))
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	r := NewRateLimiter(0.001, 1)
	assert.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, r.Wait(ctx))
}
