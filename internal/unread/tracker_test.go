package unread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveWhileUnfocusedCounts(t *testing.T) {
	tr := NewTracker(false, nil)

	tr.Observe(1)
	tr.Observe(3)
	tr.Observe(1)
	assert.Equal(t, 5, tr.Count())

	badge := tr.Badge()
	assert.True(t, badge.Visible)
	assert.True(t, badge.Marker)
	assert.Equal(t, 5, badge.Count)
}

func TestFocusResetsCount(t *testing.T) {
	tr := NewTracker(false, nil)
	tr.Observe(7)

	tr.Focus()
	assert.Equal(t, 0, tr.Count())
	assert.False(t, tr.Badge().Visible)
	assert.False(t, tr.Badge().Marker)
}

func TestObserveWhileFocusedDoesNotCount(t *testing.T) {
	cues := 0
	tr := NewTracker(true, func() { cues++ })
	tr.Focus()

	tr.Observe(4)
	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, 0, cues)
}

func TestBlurResumesCounting(t *testing.T) {
	tr := NewTracker(false, nil)
	tr.Focus()
	tr.Blur()

	tr.Observe(2)
	assert.Equal(t, 2, tr.Count())
}

func TestOneCuePerMessage(t *testing.T) {
	cues := 0
	tr := NewTracker(true, func() { cues++ })

	// Bursts are deliberately not batched: three messages, three cues.
	tr.Observe(3)
	assert.Equal(t, 3, cues)
}

func TestSoundDisabledSuppressesCue(t *testing.T) {
	cues := 0
	tr := NewTracker(false, func() { cues++ })

	tr.Observe(2)
	assert.Equal(t, 0, cues)
	assert.Equal(t, 2, tr.Count(), "count is independent of sound")

	tr.SetSound(true)
	tr.Observe(1)
	assert.Equal(t, 1, cues)
}

func TestObserveZeroOrNegativeIsNoop(t *testing.T) {
	cues := 0
	tr := NewTracker(true, func() { cues++ })

	tr.Observe(0)
	tr.Observe(-2)
	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, 0, cues)
}
