// Package unread counts chat messages that arrive while the chat view is not
// focused, and drives the badge and the audible cue.
package unread

// Cue is invoked once per newly observed message while unfocused, when sound
// is enabled. The terminal bell in practice.
type Cue func()

// Badge is the render-ready projection of the tracker.
type Badge struct {
	Count   int
	Visible bool // hidden when Count is 0
	Marker  bool // persistent indicator on the chat entry point
}

// Tracker is the Focused/Unfocused state machine. It is fed exclusively with
// the reconciler's newly-arrived suffix, so a message is never counted twice.
// Confined to the controller goroutine, like the view model it derives from.
type Tracker struct {
	count   int
	focused bool
	sound   bool
	cue     Cue
}

// NewTracker starts unfocused with a zero count.
func NewTracker(soundEnabled bool, cue Cue) *Tracker {
	return &Tracker{sound: soundEnabled, cue: cue}
}

// Observe records n newly arrived messages. While focused nothing counts and
// nothing alerts. While unfocused each message adds one to the count and
// plays one cue; bursts are deliberately not batched or deduplicated.
func (t *Tracker) Observe(n int) {
	if t.focused || n <= 0 {
		return
	}
	t.count += n
	if t.sound && t.cue != nil {
		for i := 0; i < n; i++ {
			t.cue()
		}
	}
}

// Focus marks the chat view active. The transition atomically zeroes the
// count and clears the marker.
func (t *Tracker) Focus() {
	t.focused = true
	t.count = 0
}

// Blur marks the chat view inactive again.
func (t *Tracker) Blur() {
	t.focused = false
}

// Focused reports whether the chat view is active.
func (t *Tracker) Focused() bool {
	return t.focused
}

// Count returns the number of unseen messages.
func (t *Tracker) Count() int {
	return t.count
}

// SetSound toggles the audible cue. The count is unaffected.
func (t *Tracker) SetSound(enabled bool) {
	t.sound = enabled
}

// Badge returns the current render state.
func (t *Tracker) Badge() Badge {
	return Badge{
		Count:   t.count,
		Visible: t.count > 0,
		Marker:  t.count > 0,
	}
}
