package client

import (
	"github.com/nsf/termbox-go"

	"relic-exchange/internal/filter"
	"relic-exchange/internal/models"
)

// handleEvent routes one termbox event. An open prompt swallows every key
// first; nothing else reacts until the flow resolves or cancels.
func (a *App) handleEvent(ev termbox.Event) {
	switch ev.Type {
	case termbox.EventResize:
		// Render after dispatch repaints at the new size.
	case termbox.EventError:
		a.log.Errorw("termbox event error", "err", ev.Err)
	case termbox.EventKey:
		if a.prompt != nil {
			a.handlePromptKey(ev)
			return
		}
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev termbox.Event) {
	if a.view == ViewLocked {
		// Banned or frozen accounts can only quit.
		if ev.Ch == 'q' || ev.Key == termbox.KeyEsc {
			a.quit = true
		}
		return
	}

	switch ev.Key {
	case termbox.KeyEsc:
		a.quit = true
		return
	case termbox.KeyTab:
		a.cycleView()
		return
	case termbox.KeyArrowLeft:
		a.pagePrev()
		return
	case termbox.KeyArrowRight:
		a.pageNext()
		return
	case termbox.KeyArrowUp:
		a.moveSelection(-1)
		return
	case termbox.KeyArrowDown:
		a.moveSelection(1)
		return
	case termbox.KeyEnter:
		if a.view == ViewChat {
			a.composeMessage()
		}
		return
	}

	switch ev.Ch {
	case 'q':
		a.quit = true
	case 'x':
		a.logout()
	case '1', '2', '3', '4', '5':
		a.selectRow(int(ev.Ch - '1'))
	default:
		a.handleViewKey(ev.Ch)
	}
}

func (a *App) handleViewKey(ch rune) {
	switch a.view {
	case ViewInventory:
		a.handleInventoryKey(ch)
	case ViewMarket:
		a.handleMarketKey(ch)
	case ViewChat:
		a.handleChatKey(ch)
	case ViewAdmin:
		a.handleAdminKey(ch)
	}
}

func (a *App) handleInventoryKey(ch rune) {
	switch ch {
	case 'f':
		a.forgeItem()
	case 'm':
		a.mineTokens()
	case 's':
		a.sellSelected()
	case 'u':
		a.cancelSelected()
	case 't':
		a.takeBySecret()
	case 'v':
		a.revealSecret()
	case '/':
		a.editSearch(&a.invControls)
	case 'r':
		a.invControls.Rarity = cycleRarity(a.invControls.Rarity)
	case 'g':
		a.invControls.Sale = cycleSale(a.invControls.Sale)
	case 'c':
		a.invControls = filter.Controls{}
	}
}

func (a *App) handleMarketKey(ch rune) {
	switch ch {
	case 'b':
		a.buySelected()
	case '/':
		a.editSearch(&a.mktControls)
	case 'r':
		a.mktControls.Rarity = cycleRarity(a.mktControls.Rarity)
	case '[':
		a.editPriceBound(&a.mktControls.PriceMin, "Min price (blank for none):")
	case ']':
		a.editPriceBound(&a.mktControls.PriceMax, "Max price (blank for none):")
	case 'w':
		a.editSeller()
	case 'c':
		a.mktControls = filter.Controls{}
	}
}

func (a *App) handleChatKey(ch rune) {
	switch ch {
	case 'd':
		a.deleteMessage()
	}
}

func (a *App) cycleView() {
	views := a.visibleViews()
	for i, v := range views {
		if v == a.view {
			a.setView(views[(i+1)%len(views)])
			return
		}
	}
	a.setView(views[0])
}

// pageNext/pagePrev move the cursor for the list on screen. Both are no-ops
// at their boundary.
func (a *App) pageNext() {
	switch a.view {
	case ViewInventory:
		a.invFilter = a.invFilter.Next(a.lastPages(ViewInventory))
		a.invSelected = -1
	case ViewMarket:
		a.mktFilter = a.mktFilter.Next(a.lastPages(ViewMarket))
		a.mktSelected = -1
	}
}

func (a *App) pagePrev() {
	switch a.view {
	case ViewInventory:
		a.invFilter = a.invFilter.Prev()
		a.invSelected = -1
	case ViewMarket:
		a.mktFilter = a.mktFilter.Prev()
		a.mktSelected = -1
	}
}

// lastPages recomputes the page count for bounds checks. Cheap at page-size
// scale and keeps navigation in step with the filter engine.
func (a *App) lastPages(v View) int {
	var rows []filter.Row
	var st filter.State
	var controls filter.Controls
	switch v {
	case ViewInventory:
		if acc := a.store.Account(); acc != nil {
			rows = filter.ItemRows(acc.Items)
		}
		st, controls = a.invFilter, a.invControls
	case ViewMarket:
		rows = filter.ListingRows(a.store.Market())
		st, controls = a.mktFilter, a.mktControls
	}
	_, _, p := filter.Apply(rows, controls, st)
	return p.TotalPages
}

func (a *App) moveSelection(delta int) {
	switch a.view {
	case ViewChat:
		a.chatScroll -= delta // up = scroll back
		if a.chatScroll < 0 {
			a.chatScroll = 0
		}
		if max := len(a.store.Messages()); a.chatScroll > max {
			a.chatScroll = max
		}
	case ViewInventory:
		a.invSelected = stepSelection(a.invSelected, delta)
	case ViewMarket:
		a.mktSelected = stepSelection(a.mktSelected, delta)
	}
}

func stepSelection(sel, delta int) int {
	sel += delta
	if sel < 0 {
		return 0
	}
	if sel >= filter.PageSize {
		return filter.PageSize - 1
	}
	return sel
}

func (a *App) selectRow(i int) {
	switch a.view {
	case ViewInventory:
		a.invSelected = i
	case ViewMarket:
		a.mktSelected = i
	}
}

// cycleRarity walks any -> common -> ... -> legendary -> any.
func cycleRarity(current string) string {
	if current == "" {
		return models.Rarities[0]
	}
	for i, r := range models.Rarities {
		if r == current && i+1 < len(models.Rarities) {
			return models.Rarities[i+1]
		}
	}
	return ""
}

func cycleSale(current string) string {
	switch current {
	case filter.SaleAny:
		return filter.SaleListed
	case filter.SaleListed:
		return filter.SaleUnlisted
	}
	return filter.SaleAny
}

func (a *App) editSearch(c *filter.Controls) {
	a.openPrompt("Search name (blank clears):", func(value string) *promptStep {
		c.Search = value
		return nil
	})
}

func (a *App) editPriceBound(bound *string, label string) {
	a.openPrompt(label, func(value string) *promptStep {
		*bound = value
		return nil
	})
}

func (a *App) editSeller() {
	a.openPrompt("Seller contains (blank clears):", func(value string) *promptStep {
		a.mktControls.Seller = value
		return nil
	})
}
