// Package state holds the client's view model and the reconciliation engine
// that merges polled snapshots into it. The remote service is the source of
// truth; everything here is a potentially stale copy, replaced wholesale when
// a fetch succeeds and left untouched when one fails.
package state

import "relic-exchange/internal/models"

// Resource identifies one independently polled remote collection.
type Resource string

const (
	ResourceAccount     Resource = "account"
	ResourceMarket      Resource = "market"
	ResourceMessages    Resource = "messages"
	ResourceLeaderboard Resource = "leaderboard"
	ResourceStats       Resource = "stats"
	ResourceBanner      Resource = "banner"
)

// PolledResources lists every resource the scheduler fetches each tick.
var PolledResources = []Resource{
	ResourceAccount,
	ResourceMarket,
	ResourceMessages,
	ResourceLeaderboard,
	ResourceStats,
	ResourceBanner,
}

// Result is one completed fetch, successful or not, tagged with the session
// generation it was issued under so late answers from a dead session can be
// dropped.
type Result struct {
	Resource   Resource
	Generation uint64
	Value      interface{}
	Err        error
}

// Outcome tells the controller what a reconciliation changed.
type Outcome struct {
	// Applied is true when the stored snapshot was replaced.
	Applied bool
	// Rerender is true when the replacement is worth repainting. For chat it
	// can be false even though Applied is true, when the cheap no-change
	// check fired.
	Rerender bool
	// NewMessages is the suffix of chat messages not present in the previous
	// snapshot. Only ever set for ResourceMessages.
	NewMessages []models.ChatMessage
	// SessionLost is true when this result invalidated the session. Across
	// any number of concurrent auth rejections it is true exactly once.
	SessionLost bool
	// RoleChanged is true when an account snapshot arrived with a different
	// role than the previous one. The controller must move the user off any
	// panel the new role no longer reaches.
	RoleChanged bool
	// LockoutChanged is true when the ban/freeze state flipped.
	LockoutChanged bool
}

// Store is the client's in-memory view model. It is confined to the
// controller goroutine: only Reconcile writes it, and every other component
// (filters, unread tracker, cooldowns, render) just reads and derives.
//
// Accessors hand out internal slices directly; callers treat them as
// immutable snapshots.
type Store struct {
	account     *models.Account
	market      []models.MarketListing
	messages    []models.ChatMessage
	leaderboard []models.LeaderboardEntry
	stats       *models.Stats
	banner      string
}

// NewStore creates an empty view model.
func NewStore() *Store {
	return &Store{}
}

// Account returns the last reconciled account snapshot, nil before the first
// successful fetch.
func (s *Store) Account() *models.Account { return s.account }

// Market returns the last reconciled market listings.
func (s *Store) Market() []models.MarketListing { return s.market }

// Messages returns the last reconciled chat backlog, in server order.
func (s *Store) Messages() []models.ChatMessage { return s.messages }

// Leaderboard returns the last reconciled leaderboard.
func (s *Store) Leaderboard() []models.LeaderboardEntry { return s.leaderboard }

// Stats returns the last reconciled aggregate stats, nil before the first
// successful fetch.
func (s *Store) Stats() *models.Stats { return s.stats }

// Banner returns the current announcement banner text.
func (s *Store) Banner() string { return s.banner }
