package client

import (
	"time"

	"relic-exchange/internal/cooldown"
	"relic-exchange/internal/filter"
	"relic-exchange/internal/models"
	"relic-exchange/internal/unread"
)

// View identifies one screen of the client.
type View int

const (
	ViewInventory View = iota
	ViewMarket
	ViewChat
	ViewLeaderboard
	ViewStats
	ViewPets
	ViewAdmin
	ViewLocked
)

// viewOrder is the Tab cycle. Admin is appended only when the role allows.
var viewOrder = []View{ViewInventory, ViewMarket, ViewChat, ViewLeaderboard, ViewStats, ViewPets}

// RequiredRole returns the minimum role that may open a view.
func (v View) RequiredRole() models.Role {
	if v == ViewAdmin {
		return models.RoleMod
	}
	return models.RoleUser
}

// Title returns the tab label.
func (v View) Title() string {
	switch v {
	case ViewInventory:
		return "Inventory"
	case ViewMarket:
		return "Market"
	case ViewChat:
		return "Chat"
	case ViewLeaderboard:
		return "Leaderboard"
	case ViewStats:
		return "Stats"
	case ViewPets:
		return "Pets"
	case ViewAdmin:
		return "Admin"
	case ViewLocked:
		return "Locked"
	}
	return "?"
}

// ListVM is an immutable, ready-to-paint projection of one filtered list:
// the visible rows, the pagination descriptor, and the current selection.
type ListVM struct {
	Rows       []filter.Row
	Pagination filter.Pagination
	Selected   int // index into Rows, -1 when nothing is selected
	Controls   filter.Controls
}

// Flags are the role-gated action availability bits the render layer shows.
type Flags struct {
	CanModerate       bool // delete any chat message
	CanAdmin          bool // open the admin panel
	CanBypassCooldown bool // reset-cooldowns control next to the timers
}

// PromptVM is the active modal prompt, when one is open.
type PromptVM struct {
	Label  string
	Buffer string
}

// Frame is everything the render layer needs for one paint. It is rebuilt
// from the view model on demand and holds no state of its own.
type Frame struct {
	View      View
	Account   *models.Account
	Banner    string
	Status    string
	Badge     unread.Badge
	Inventory ListVM
	Market    ListVM
	Messages  []models.ChatMessage
	ChatScroll int // lines scrolled up from the bottom
	Leaderboard []models.LeaderboardEntry
	Stats     *models.Stats
	ForgeWait string
	MineWait  string
	Flags     Flags
	Prompt    *PromptVM
	Views     []View
}

// buildFrame derives the full render frame from the reconciled state. It
// never writes the store, but it does commit the post-evaluation filter state
// (reset and clamped pages) so the next key event sees current page bounds.
func (a *App) buildFrame(now time.Time) Frame {
	acc := a.store.Account()

	f := Frame{
		View:       a.view,
		Account:    acc,
		Banner:     a.store.Banner(),
		Status:     a.status,
		Badge:      a.tracker.Badge(),
		Messages:   a.store.Messages(),
		ChatScroll: a.chatScroll,
		Leaderboard: a.store.Leaderboard(),
		Stats:      a.store.Stats(),
		Views:      a.visibleViews(),
		Prompt:     a.promptVM(),
	}

	if acc != nil {
		f.Flags = Flags{
			CanModerate:       acc.Role.AtLeast(models.RoleMod),
			CanAdmin:          acc.Role.AtLeast(models.RoleMod),
			CanBypassCooldown: acc.Role.AtLeast(models.RoleAdmin),
		}
		f.ForgeWait = cooldown.Format(cooldown.Remaining(now, acc.LastItemTime, cooldown.ItemForge))
		f.MineWait = cooldown.Format(cooldown.Remaining(now, acc.LastMineTime, cooldown.TokenMine))

		rows, nextState, p := filter.Apply(filter.ItemRows(acc.Items), a.invControls, a.invFilter)
		a.invFilter = nextState
		f.Inventory = ListVM{Rows: rows, Pagination: p, Selected: clampSelection(a.invSelected, len(rows)), Controls: a.invControls}
	}

	rows, nextState, p := filter.Apply(filter.ListingRows(a.store.Market()), a.mktControls, a.mktFilter)
	a.mktFilter = nextState
	f.Market = ListVM{Rows: rows, Pagination: p, Selected: clampSelection(a.mktSelected, len(rows)), Controls: a.mktControls}

	return f
}

// visibleViews returns the tab cycle for the current role.
func (a *App) visibleViews() []View {
	views := make([]View, len(viewOrder))
	copy(views, viewOrder)
	if acc := a.store.Account(); acc != nil && acc.Role.AtLeast(models.RoleMod) {
		views = append(views, ViewAdmin)
	}
	return views
}

func clampSelection(sel, n int) int {
	if sel < 0 || n == 0 {
		return -1
	}
	if sel >= n {
		return n - 1
	}
	return sel
}
