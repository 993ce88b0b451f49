package models

// Role is the privilege tier the server assigned to an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleMod   Role = "mod"
	RoleAdmin Role = "admin"
)

// AtLeast reports whether r grants every privilege of min.
// Ordering is user < mod < admin; unknown roles rank below user.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleMod:
		return 1
	case RoleUser:
		return 0
	}
	return -1
}

// Account is the full account snapshot returned by /api/account.
// It is replaced wholesale on every successful fetch; the server copy is
// authoritative and this one is always potentially stale.
type Account struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Tokens       int    `json:"tokens"`
	Level        int    `json:"level"`
	EXP          int    `json:"exp"`
	LastItemTime int64  `json:"last_item_time"` // unix seconds of last forge
	LastMineTime int64  `json:"last_mine_time"` // unix seconds of last mine
	Banned       bool   `json:"banned"`
	BanReason    string `json:"ban_reason,omitempty"`
	Frozen       bool   `json:"frozen"`
	Muted        bool   `json:"muted"`
	Items        []Item `json:"items"`
	Pets         []Pet  `json:"pets"`
}

// LockedOut reports whether the account may interact at all.
func (a *Account) LockedOut() bool {
	return a.Banned || a.Frozen
}

// PetStatus describes how urgently a pet needs feeding.
type PetStatus string

const (
	PetHealthy  PetStatus = "healthy"
	PetHungry   PetStatus = "hungry"
	PetStarving PetStatus = "starving"
)

// Pet is a companion creature owned by an account.
type Pet struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Level   int       `json:"level"`
	Status  PetStatus `json:"status"`
	LastFed int64     `json:"last_fed"`
}

// LeaderboardEntry is one row of the global token leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Tokens   int    `json:"tokens"`
	Level    int    `json:"level"`
}

// Stats holds the aggregate figures shown on the stats view.
type Stats struct {
	Users               int `json:"users"`
	ItemsForged         int `json:"items_forged"`
	TokensInCirculation int `json:"tokens_in_circulation"`
}
