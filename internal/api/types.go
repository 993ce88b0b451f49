package api

import "relic-exchange/internal/models"

// --- Client to Server (C2S) requests ---

// LoginRequest is the credential payload for /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SellRequest lists an owned item at a price.
type SellRequest struct {
	ItemID string `json:"item_id"`
	Price  int    `json:"price"`
}

// BuyRequest purchases a market listing.
type BuyRequest struct {
	ItemID string `json:"item_id"`
}

// CancelSaleRequest delists an owned item.
type CancelSaleRequest struct {
	ItemID string `json:"item_id"`
}

// TakeRequest claims an item by its capability secret.
type TakeRequest struct {
	ItemSecret string `json:"item_secret"`
}

// ChatSendRequest posts one message to a room.
type ChatSendRequest struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// ChatDeleteRequest removes a message (own message, or any for mods).
type ChatDeleteRequest struct {
	MessageID string `json:"message_id"`
}

// AdminRequest is the shared payload for the privileged write family. Which
// fields are read depends on the action: user actions take Username (Fine and
// the edit-* actions also take Amount), item actions take ItemID, set-banner
// takes Value.
type AdminRequest struct {
	Username string `json:"username,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Value    string `json:"value,omitempty"`
}

// --- Server to Client (S2C) responses ---

// LoginResponse is the server's answer to a login attempt.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// WriteResponse is the generic answer to any POST-style write. A non-success
// answer means the operation did not happen at all; there are no partial
// state changes to undo.
type WriteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ForgeResponse returns the freshly forged item, secret included.
type ForgeResponse struct {
	WriteResponse
	Item models.Item `json:"item"`
}

// MineResponse reports how many tokens a mine yielded.
type MineResponse struct {
	WriteResponse
	TokensMined int `json:"tokens_mined"`
}

// TakeResponse returns the claimed item with its rotated secret.
type TakeResponse struct {
	WriteResponse
	Item models.Item `json:"item"`
}

// BannerResponse carries the announcement banner text.
type BannerResponse struct {
	Text string `json:"text"`
}
