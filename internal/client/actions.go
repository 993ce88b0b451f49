package client

import (
	"context"
	"fmt"

	"relic-exchange/internal/api"
	"relic-exchange/internal/filter"
	"relic-exchange/internal/models"
)

// User-initiated writes. Each is a one-shot request outside the polling loop;
// the next account poll picks up whatever the server changed.

func (a *App) forgeItem() {
	a.doWrite("Forge", func(ctx context.Context) error {
		item, err := a.api.ForgeItem(ctx)
		if err != nil {
			return err
		}
		a.log.Infow("forged item", "id", item.ID, "rarity", item.Rarity)
		return nil
	})
}

func (a *App) mineTokens() {
	a.doWriteMsg("Mine", func(ctx context.Context) (string, error) {
		mined, err := a.api.MineTokens(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Mined %d tokens.", mined), nil
	})
}

func (a *App) takeBySecret() {
	a.openPrompt("Item secret:", func(secret string) *promptStep {
		if secret == "" {
			return nil
		}
		a.doWrite("Take", func(ctx context.Context) error {
			_, err := a.api.TakeItem(ctx, secret)
			return err
		})
		return nil
	})
}

func (a *App) sellSelected() {
	row, ok := a.selectedInventoryRow()
	if !ok {
		a.setStatus("Select an item first (1-5).")
		return
	}
	a.openPrompt(fmt.Sprintf("Price for %s:", row.DisplayName), askInt("Price:", func(price int) *promptStep {
		a.doWrite("Sell", func(ctx context.Context) error {
			return a.api.SellItem(ctx, row.ID, price)
		})
		return nil
	}))
}

func (a *App) cancelSelected() {
	row, ok := a.selectedInventoryRow()
	if !ok {
		a.setStatus("Select an item first (1-5).")
		return
	}
	a.doWrite("Cancel sale", func(ctx context.Context) error {
		return a.api.CancelSale(ctx, row.ID)
	})
}

func (a *App) buySelected() {
	row, ok := a.selectedMarketRow()
	if !ok {
		a.setStatus("Select a listing first (1-5).")
		return
	}
	a.openPrompt(fmt.Sprintf("Buy %s for %d tokens? (y/n)", row.DisplayName, row.Price), func(answer string) *promptStep {
		if answer != "y" && answer != "Y" {
			return nil
		}
		a.doWrite("Buy", func(ctx context.Context) error {
			return a.api.BuyItem(ctx, row.ID)
		})
		return nil
	})
}

// revealSecret shows the selected item's capability string in the status
// line. That line is the holder's own private display; the secret still never
// goes to the log.
func (a *App) revealSecret() {
	row, ok := a.selectedInventoryRow()
	if !ok {
		a.setStatus("Select an item first (1-5).")
		return
	}
	acc := a.store.Account()
	if acc == nil {
		return
	}
	for _, it := range acc.Items {
		if it.ID == row.ID {
			a.setStatus("Secret: " + it.Secret)
			return
		}
	}
}

func (a *App) composeMessage() {
	a.openPrompt("Say:", func(message string) *promptStep {
		if message == "" {
			return nil
		}
		a.doWrite("Send", func(ctx context.Context) error {
			return a.api.SendMessage(ctx, a.cfg.Room, message)
		})
		return nil
	})
}

// deleteMessage asks which message counting back from the newest, then issues
// the delete. The server decides whether the caller may remove it.
func (a *App) deleteMessage() {
	msgs := a.store.Messages()
	if len(msgs) == 0 {
		return
	}
	a.openPrompt("Delete message # (1 = newest):", askInt("Message #:", func(n int) *promptStep {
		if n < 1 || n > len(msgs) {
			a.setStatus("No such message.")
			return nil
		}
		target := msgs[len(msgs)-n]
		a.doWrite("Delete", func(ctx context.Context) error {
			return a.api.DeleteMessage(ctx, target.ID)
		})
		return nil
	}))
}

func (a *App) logout() {
	a.sessions.Logout()
	a.quit = true
	a.log.Infow("logged out")
}

func (a *App) selectedInventoryRow() (filter.Row, bool) {
	return a.selectedRow(ViewInventory)
}

func (a *App) selectedMarketRow() (filter.Row, bool) {
	return a.selectedRow(ViewMarket)
}

func (a *App) selectedRow(v View) (filter.Row, bool) {
	var rows []filter.Row
	var sel int
	switch v {
	case ViewInventory:
		acc := a.store.Account()
		if acc == nil {
			return filter.Row{}, false
		}
		rows, _, _ = filter.Apply(filter.ItemRows(acc.Items), a.invControls, a.invFilter)
		sel = a.invSelected
	case ViewMarket:
		rows, _, _ = filter.Apply(filter.ListingRows(a.store.Market()), a.mktControls, a.mktFilter)
		sel = a.mktSelected
	}
	if sel < 0 || sel >= len(rows) {
		return filter.Row{}, false
	}
	return rows[sel], true
}

// --- Admin actions ---

// adminCommand describes one privileged write and the prompts it needs.
type adminCommand struct {
	key    rune
	label  string
	action api.AdminAction
	role   models.Role
	args   adminArgs
}

type adminArgs int

const (
	argsUsername adminArgs = iota
	argsUsernameAmount
	argsItemID
	argsValue
	argsNone
)

// adminCommands is the panel menu. Mods get the moderation half; the rest is
// admin-only, enforced again server-side.
var adminCommands = []adminCommand{
	{'b', "Ban user", api.AdminBan, models.RoleMod, argsUsername},
	{'B', "Unban user", api.AdminUnban, models.RoleMod, argsUsername},
	{'m', "Mute user", api.AdminMute, models.RoleMod, argsUsername},
	{'M', "Unmute user", api.AdminUnmute, models.RoleMod, argsUsername},
	{'f', "Freeze user", api.AdminFreeze, models.RoleAdmin, argsUsername},
	{'F', "Unfreeze user", api.AdminUnfreeze, models.RoleAdmin, argsUsername},
	{'i', "Fine user", api.AdminFine, models.RoleAdmin, argsUsernameAmount},
	{'t', "Edit tokens", api.AdminEditTokens, models.RoleAdmin, argsUsernameAmount},
	{'e', "Edit EXP", api.AdminEditEXP, models.RoleAdmin, argsUsernameAmount},
	{'l', "Edit level", api.AdminEditLevel, models.RoleAdmin, argsUsernameAmount},
	{'A', "Add admin", api.AdminAddAdmin, models.RoleAdmin, argsUsername},
	{'o', "Add mod", api.AdminAddMod, models.RoleAdmin, argsUsername},
	{'O', "Remove mod", api.AdminRemoveMod, models.RoleAdmin, argsUsername},
	{'E', "Edit item name", api.AdminEditItem, models.RoleAdmin, argsItemID},
	{'D', "Delete item", api.AdminDeleteItem, models.RoleAdmin, argsItemID},
	{'r', "Reset cooldowns", api.AdminResetCooldowns, models.RoleAdmin, argsUsername},
	{'n', "Set banner", api.AdminSetBanner, models.RoleAdmin, argsValue},
}

func (a *App) handleAdminKey(ch rune) {
	for _, cmd := range adminCommands {
		if cmd.key == ch {
			a.runAdminCommand(cmd)
			return
		}
	}
}

// runAdminCommand collects the command's arguments one prompt at a time, then
// fires the privileged write. A stale local role just means a server-side
// rejection surfaced in the status line.
func (a *App) runAdminCommand(cmd adminCommand) {
	if !a.role().AtLeast(cmd.role) {
		a.setStatus("That action needs a higher role.")
		return
	}

	fire := func(req api.AdminRequest) {
		a.doWrite(cmd.label, func(ctx context.Context) error {
			return a.api.Admin(ctx, cmd.action, req)
		})
	}

	switch cmd.args {
	case argsUsername:
		a.openPrompt(cmd.label+" - username:", func(username string) *promptStep {
			if username == "" {
				return nil
			}
			fire(api.AdminRequest{Username: username})
			return nil
		})
	case argsUsernameAmount:
		a.openPrompt(cmd.label+" - username:", func(username string) *promptStep {
			if username == "" {
				return nil
			}
			return &promptStep{
				label: cmd.label + " - amount:",
				next: askInt(cmd.label+" - amount:", func(amount int) *promptStep {
					fire(api.AdminRequest{Username: username, Amount: amount})
					return nil
				}),
			}
		})
	case argsItemID:
		a.openPrompt(cmd.label+" - item id:", func(itemID string) *promptStep {
			if itemID == "" {
				return nil
			}
			if cmd.action == api.AdminEditItem {
				return &promptStep{
					label: cmd.label + " - new name:",
					next: func(value string) *promptStep {
						fire(api.AdminRequest{ItemID: itemID, Value: value})
						return nil
					},
				}
			}
			fire(api.AdminRequest{ItemID: itemID})
			return nil
		})
	case argsValue:
		a.openPrompt(cmd.label+":", func(value string) *promptStep {
			fire(api.AdminRequest{Value: value})
			return nil
		})
	case argsNone:
		fire(api.AdminRequest{})
	}
}
