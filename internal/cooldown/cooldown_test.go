package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemainingMidCooldown(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	last := now.Add(-30 * time.Second).Unix()

	assert.Equal(t, 30*time.Second, Remaining(now, last, 60*time.Second))
}

func TestRemainingElapsed(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	last := now.Add(-90 * time.Second).Unix()

	assert.Equal(t, time.Duration(0), Remaining(now, last, 60*time.Second))
}

func TestRemainingExactBoundary(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	last := now.Add(-60 * time.Second).Unix()

	assert.Equal(t, time.Duration(0), Remaining(now, last, 60*time.Second))
}

func TestRemainingRoundsUp(t *testing.T) {
	// Elapsed 30.3s of 60s leaves 29.7s, displayed as 30s, never 29s.
	now := time.Unix(1_000_000, 300_000_000)
	last := int64(1_000_000 - 30)

	assert.Equal(t, 30*time.Second, Remaining(now, last, 60*time.Second))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(0))
	assert.Equal(t, "", Format(-5*time.Second))
	assert.Equal(t, "45s", Format(45*time.Second))
	assert.Equal(t, "2m 30s", Format(150*time.Second))
	assert.Equal(t, "10m 0s", Format(TokenMine))
}
