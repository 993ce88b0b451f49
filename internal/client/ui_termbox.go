package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/nsf/termbox-go"
)

// TermboxUI paints frames onto the terminal. It holds no authoritative state:
// everything it draws comes from the Frame, so it can be rebuilt at any time
// without information loss.
type TermboxUI struct{}

// NewTermboxUI creates the render layer.
func NewTermboxUI() *TermboxUI {
	return &TermboxUI{}
}

// Init initializes the termbox screen.
func (ui *TermboxUI) Init() error {
	return termbox.Init()
}

// Close releases the terminal.
func (ui *TermboxUI) Close() {
	termbox.Close()
}

// drawText draws a string at the given coordinates.
func (ui *TermboxUI) drawText(x, y int, text string, fg, bg termbox.Attribute) {
	for i, r := range []rune(text) {
		termbox.SetCell(x+i, y, r, fg, bg)
	}
}

// Render paints one full frame.
func (ui *TermboxUI) Render(f Frame) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	_, height := termbox.Size()

	y := 0
	if f.Banner != "" {
		ui.drawText(1, y, "** "+f.Banner+" **", termbox.ColorYellow, termbox.ColorDefault)
		y++
	}

	ui.drawText(1, y, ui.tabLine(f), termbox.ColorCyan, termbox.ColorDefault)
	y++

	if f.Account != nil {
		header := fmt.Sprintf("%s [%s]  Tokens: %d  Level %d (%d exp)",
			f.Account.Username, f.Account.Role, f.Account.Tokens, f.Account.Level, f.Account.EXP)
		ui.drawText(1, y, header, termbox.ColorWhite, termbox.ColorDefault)
	} else {
		ui.drawText(1, y, "Waiting for first account snapshot...", termbox.ColorWhite, termbox.ColorDefault)
	}
	y += 2

	switch f.View {
	case ViewInventory:
		ui.renderInventory(f, y)
	case ViewMarket:
		ui.renderMarket(f, y)
	case ViewChat:
		ui.renderChat(f, y, height)
	case ViewLeaderboard:
		ui.renderLeaderboard(f, y)
	case ViewStats:
		ui.renderStats(f, y)
	case ViewPets:
		ui.renderPets(f, y)
	case ViewAdmin:
		ui.renderAdmin(f, y)
	case ViewLocked:
		ui.renderLocked(f, y)
	}

	if f.Status != "" {
		ui.drawText(1, height-3, f.Status, termbox.ColorYellow, termbox.ColorDefault)
	}
	if f.Prompt != nil {
		line := f.Prompt.Label + " " + f.Prompt.Buffer + "_"
		ui.drawText(1, height-2, line, termbox.ColorWhite, termbox.ColorBlue)
	} else {
		ui.drawText(1, height-2, ui.helpLine(f.View), termbox.ColorBlue, termbox.ColorDefault)
	}

	termbox.Flush()
}

// tabLine renders the view cycle with the unread badge on the chat entry
// point. The badge is hidden at zero; the '*' marker persists while anything
// is unread.
func (ui *TermboxUI) tabLine(f Frame) string {
	var parts []string
	for _, v := range f.Views {
		label := v.Title()
		if v == ViewChat && f.Badge.Visible {
			label = fmt.Sprintf("%s(%d)", label, f.Badge.Count)
			if f.Badge.Marker {
				label += "*"
			}
		}
		if v == f.View {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (ui *TermboxUI) renderInventory(f Frame, y int) {
	ui.drawText(1, y, ui.filterLine(f.Inventory), termbox.ColorMagenta, termbox.ColorDefault)
	y++
	if f.ForgeWait != "" {
		ui.drawText(1, y, "Forge cooldown: "+f.ForgeWait, termbox.ColorRed, termbox.ColorDefault)
	} else {
		ui.drawText(1, y, "Forge ready.", termbox.ColorGreen, termbox.ColorDefault)
	}
	y++
	if f.MineWait != "" {
		line := "Mine cooldown: " + f.MineWait
		if f.Flags.CanBypassCooldown {
			line += "  (resettable from the admin panel)"
		}
		ui.drawText(1, y, line, termbox.ColorRed, termbox.ColorDefault)
	} else {
		ui.drawText(1, y, "Mine ready.", termbox.ColorGreen, termbox.ColorDefault)
	}
	y += 2

	ui.renderRows(f.Inventory, y, func(row int) string {
		r := f.Inventory.Rows[row]
		sale := ""
		if r.ForSale {
			sale = fmt.Sprintf("  [for sale: %d]", r.Price)
		}
		return fmt.Sprintf("%d. %s (%s)%s", row+1, r.DisplayName, r.Rarity, sale)
	})
}

func (ui *TermboxUI) renderMarket(f Frame, y int) {
	ui.drawText(1, y, ui.filterLine(f.Market), termbox.ColorMagenta, termbox.ColorDefault)
	y += 2
	ui.renderRows(f.Market, y, func(row int) string {
		r := f.Market.Rows[row]
		return fmt.Sprintf("%d. %s (%s) - %d tokens - seller %s", row+1, r.DisplayName, r.Rarity, r.Price, r.Owner)
	})
}

// renderRows paints a visible page plus its pagination descriptor.
func (ui *TermboxUI) renderRows(vm ListVM, y int, line func(row int) string) {
	if len(vm.Rows) == 0 {
		ui.drawText(3, y, "(nothing here)", termbox.ColorDefault, termbox.ColorDefault)
	}
	for i := range vm.Rows {
		fg := termbox.ColorDefault
		if i == vm.Selected {
			fg = termbox.ColorGreen | termbox.AttrBold
		}
		ui.drawText(3, y+i, line(i), fg, termbox.ColorDefault)
	}
	pag := fmt.Sprintf("Page %d/%d (%d total)", vm.Pagination.Page, vm.Pagination.TotalPages, vm.Pagination.TotalCount)
	ui.drawText(3, y+6, pag, termbox.ColorCyan, termbox.ColorDefault)
}

func (ui *TermboxUI) filterLine(vm ListVM) string {
	var parts []string
	c := vm.Controls
	if c.Search != "" {
		parts = append(parts, "name~"+c.Search)
	}
	if c.Rarity != "" {
		parts = append(parts, "rarity="+c.Rarity)
	}
	if c.Sale != "" {
		parts = append(parts, "sale="+c.Sale)
	}
	if c.PriceMin != "" {
		parts = append(parts, "min="+c.PriceMin)
	}
	if c.PriceMax != "" {
		parts = append(parts, "max="+c.PriceMax)
	}
	if c.Seller != "" {
		parts = append(parts, "seller~"+c.Seller)
	}
	if len(parts) == 0 {
		return "Filters: none"
	}
	return "Filters: " + strings.Join(parts, " ")
}

// renderChat shows the tail of the backlog, offset by the scroll position.
func (ui *TermboxUI) renderChat(f Frame, y, height int) {
	visible := height - y - 4
	if visible < 1 {
		visible = 1
	}

	msgs := f.Messages
	end := len(msgs) - f.ChatScroll
	if end < 0 {
		end = 0
	}
	start := end - visible
	if start < 0 {
		start = 0
	}

	for i, msg := range msgs[start:end] {
		fg := termbox.ColorDefault
		switch msg.Type {
		case "system":
			fg = termbox.ColorYellow
		case "mod":
			fg = termbox.ColorGreen
		case "admin":
			fg = termbox.ColorRed
		}
		ts := time.Unix(msg.Timestamp, 0).Format("15:04")
		ui.drawText(1, y+i, fmt.Sprintf("[%s] %s: %s", ts, msg.Username, msg.Message), fg, termbox.ColorDefault)
	}
	if f.ChatScroll > 0 {
		ui.drawText(1, y+visible, fmt.Sprintf("-- scrolled up %d --", f.ChatScroll), termbox.ColorCyan, termbox.ColorDefault)
	}
}

func (ui *TermboxUI) renderLeaderboard(f Frame, y int) {
	if len(f.Leaderboard) == 0 {
		ui.drawText(3, y, "(no entries yet)", termbox.ColorDefault, termbox.ColorDefault)
		return
	}
	for i, e := range f.Leaderboard {
		ui.drawText(3, y+i, fmt.Sprintf("#%d %-20s %8d tokens  lvl %d", e.Rank, e.Username, e.Tokens, e.Level), termbox.ColorDefault, termbox.ColorDefault)
	}
}

func (ui *TermboxUI) renderStats(f Frame, y int) {
	if f.Stats == nil {
		ui.drawText(3, y, "(no stats yet)", termbox.ColorDefault, termbox.ColorDefault)
		return
	}
	ui.drawText(3, y, fmt.Sprintf("Players:               %d", f.Stats.Users), termbox.ColorDefault, termbox.ColorDefault)
	ui.drawText(3, y+1, fmt.Sprintf("Items forged:          %d", f.Stats.ItemsForged), termbox.ColorDefault, termbox.ColorDefault)
	ui.drawText(3, y+2, fmt.Sprintf("Tokens in circulation: %d", f.Stats.TokensInCirculation), termbox.ColorDefault, termbox.ColorDefault)
}

func (ui *TermboxUI) renderPets(f Frame, y int) {
	if f.Account == nil || len(f.Account.Pets) == 0 {
		ui.drawText(3, y, "(no pets)", termbox.ColorDefault, termbox.ColorDefault)
		return
	}
	for i, p := range f.Account.Pets {
		fg := termbox.ColorDefault
		switch p.Status {
		case "hungry":
			fg = termbox.ColorYellow
		case "starving":
			fg = termbox.ColorRed
		}
		ui.drawText(3, y+i, fmt.Sprintf("%s (lvl %d) - %s", p.Name, p.Level, p.Status), fg, termbox.ColorDefault)
	}
}

func (ui *TermboxUI) renderAdmin(f Frame, y int) {
	ui.drawText(1, y, "Admin panel - press a key to run a command:", termbox.ColorWhite, termbox.ColorDefault)
	y += 2
	for i, cmd := range adminCommands {
		col := 3 + (i/9)*36
		row := y + i%9
		ui.drawText(col, row, fmt.Sprintf("%c  %s", cmd.key, cmd.label), termbox.ColorDefault, termbox.ColorDefault)
	}
}

func (ui *TermboxUI) renderLocked(f Frame, y int) {
	reason := "Your account is frozen."
	if f.Account != nil && f.Account.Banned {
		reason = "Your account is banned."
		if f.Account.BanReason != "" {
			reason += " Reason: " + f.Account.BanReason
		}
	}
	ui.drawText(1, y, reason, termbox.ColorRed|termbox.AttrBold, termbox.ColorDefault)
	ui.drawText(1, y+2, "Press q to quit.", termbox.ColorDefault, termbox.ColorDefault)
}

func (ui *TermboxUI) helpLine(v View) string {
	switch v {
	case ViewInventory:
		return "f forge  m mine  1-5 select  s sell  u unlist  t take  v secret  / search  r rarity  g sale  c clear  arrows page  Tab next  q quit"
	case ViewMarket:
		return "1-5 select  b buy  / search  r rarity  [ min  ] max  w seller  c clear  arrows page  Tab next  q quit"
	case ViewChat:
		return "Enter say  d delete  up/down scroll  Tab next  q quit"
	}
	return "Tab next view  x logout  q quit"
}
