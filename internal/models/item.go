package models

import "fmt"

// Rarity tiers, lowest to highest.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Rarities lists every tier in ascending order, for filter controls.
var Rarities = []string{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// ItemName is the composed name of a forged item. The server generates the
// parts; the client only formats them.
type ItemName struct {
	Icon      string `json:"icon"`
	Adjective string `json:"adjective"`
	Material  string `json:"material"`
	Noun      string `json:"noun"`
	Suffix    string `json:"suffix"`
	Number    int    `json:"number"`
}

// Display renders the name without the icon, e.g.
// "Ancient Mythril Sword of the Stars #4821".
func (n ItemName) Display() string {
	return fmt.Sprintf("%s %s %s %s #%d", n.Adjective, n.Material, n.Noun, n.Suffix, n.Number)
}

// Item is a forged item. Identity is ID. Secret is a capability string that
// lets anyone holding it take the item; it must only ever be shown to the
// current owner and must never be written to the log.
type Item struct {
	ID      string   `json:"id"`
	Name    ItemName `json:"name"`
	Rarity  string   `json:"rarity"`
	ForSale bool     `json:"for_sale"`
	Price   int      `json:"price"`
	Owner   string   `json:"owner"`
	Secret  string   `json:"item_secret,omitempty"`
}

// MarketListing is an item offered for sale by another player. The server
// strips the secret before it ever reaches the market feed.
type MarketListing struct {
	ID     string   `json:"id"`
	Name   ItemName `json:"name"`
	Rarity string   `json:"rarity"`
	Price  int      `json:"price"`
	Owner  string   `json:"owner"`
}
