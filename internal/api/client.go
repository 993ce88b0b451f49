package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"relic-exchange/internal/models"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// AdminAction names one privileged write endpoint under /api/admin/.
type AdminAction string

const (
	AdminBan            AdminAction = "ban"
	AdminUnban          AdminAction = "unban"
	AdminMute           AdminAction = "mute"
	AdminUnmute         AdminAction = "unmute"
	AdminFreeze         AdminAction = "freeze"
	AdminUnfreeze       AdminAction = "unfreeze"
	AdminFine           AdminAction = "fine"
	AdminEditTokens     AdminAction = "edit_tokens"
	AdminEditEXP        AdminAction = "edit_exp"
	AdminEditLevel      AdminAction = "edit_level"
	AdminAddAdmin       AdminAction = "add_admin"
	AdminAddMod         AdminAction = "add_mod"
	AdminRemoveMod      AdminAction = "remove_mod"
	AdminEditItem       AdminAction = "edit_item"
	AdminDeleteItem     AdminAction = "delete_item"
	AdminResetCooldowns AdminAction = "reset_cooldowns"
	AdminSetBanner      AdminAction = "set_banner"
)

// Client performs authenticated calls against the game service. Reads return
// *TransientError on transport or decode failure so the polling loop can skip
// the tick; a 401 from any call maps to ErrUnauthorized.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	instanceID string
	log        *zap.SugaredLogger
}

// NewClient creates a fetcher for the service at baseURL. Each process gets a
// random instance ID, sent with every request so server logs can tell
// concurrent clients of one account apart.
func NewClient(baseURL string, tokens TokenSource, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// Login exchanges credentials for a session token. Login is the one call made
// without a token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/api/login", LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &ValidationError{Message: resp.Message}
	}
	return resp.Token, nil
}

// --- Polled reads ---

// Account fetches the caller's full account snapshot.
func (c *Client) Account(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	if err := c.get(ctx, "/api/account", &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Market fetches every listing currently for sale by other players.
func (c *Client) Market(ctx context.Context) ([]models.MarketListing, error) {
	var listings []models.MarketListing
	if err := c.get(ctx, "/api/market", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Messages fetches the chat backlog for one room, in server order.
func (c *Client) Messages(ctx context.Context, room string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := c.get(ctx, "/api/messages?room="+room, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Leaderboard fetches the global token leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := c.get(ctx, "/api/leaderboard", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats fetches the aggregate game statistics.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := c.get(ctx, "/api/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Banner fetches the announcement banner text.
func (c *Client) Banner(ctx context.Context) (string, error) {
	var resp BannerResponse
	if err := c.get(ctx, "/api/banner", &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// --- User-initiated writes ---

// ForgeItem creates a new random item. Costs tokens and starts the forge
// cooldown server-side.
func (c *Client) ForgeItem(ctx context.Context) (*models.Item, error) {
	var resp ForgeResponse
	if err := c.post(ctx, "/api/create_item", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ValidationError{Message: resp.Error}
	}
	return &resp.Item, nil
}

// MineTokens mines a random token yield, subject to the mine cooldown.
func (c *Client) MineTokens(ctx context.Context) (int, error) {
	var resp MineResponse
	if err := c.post(ctx, "/api/mine_tokens", struct{}{}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, &ValidationError{Message: resp.Error}
	}
	return resp.TokensMined, nil
}

// TakeItem claims an item by its secret. The server rotates the secret on
// transfer, so the returned item carries a fresh one.
func (c *Client) TakeItem(ctx context.Context, secret string) (*models.Item, error) {
	var resp TakeResponse
	if err := c.post(ctx, "/api/take_item", TakeRequest{ItemSecret: secret}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ValidationError{Message: resp.Error}
	}
	return &resp.Item, nil
}

// SellItem lists an owned item on the market.
func (c *Client) SellItem(ctx context.Context, itemID string, price int) error {
	return c.write(ctx, "/api/sell_item", SellRequest{ItemID: itemID, Price: price})
}

// CancelSale delists an owned item.
func (c *Client) CancelSale(ctx context.Context, itemID string) error {
	return c.write(ctx, "/api/cancel_sale", CancelSaleRequest{ItemID: itemID})
}

// BuyItem purchases a market listing at its asking price.
func (c *Client) BuyItem(ctx context.Context, itemID string) error {
	return c.write(ctx, "/api/buy_item", BuyRequest{ItemID: itemID})
}

// SendMessage posts a chat message to a room.
func (c *Client) SendMessage(ctx context.Context, room, message string) error {
	return c.write(ctx, "/api/send_message", ChatSendRequest{Room: room, Message: message})
}

// DeleteMessage removes a chat message by ID.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.write(ctx, "/api/delete_message", ChatDeleteRequest{MessageID: messageID})
}

// Admin performs one of the privileged writes. The server enforces the role
// check; the client only hides the controls.
func (c *Client) Admin(ctx context.Context, action AdminAction, req AdminRequest) error {
	return c.write(ctx, "/api/admin/"+string(action), req)
}

// write posts a request whose only interesting result is success or an error
// message.
func (c *Client) write(ctx context.Context, path string, body interface{}) error {
	var resp WriteResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &ValidationError{Message: resp.Error}
	}
	return nil
}

// --- Transport ---

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransientError{Err: err}
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &TransientError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransientError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Client-ID", c.instanceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		// Server trouble, not a rejection of this request; the next poll is
		// the retry.
		return &TransientError{Err: fmt.Errorf("server error (%s)", resp.Status)}
	case resp.StatusCode >= 400:
		// The server explains rejections in an error field; fall back to the
		// status text when the body is not parseable.
		var rejection struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &rejection) == nil && rejection.Error != "" {
			return &ValidationError{Message: rejection.Error}
		}
		return &ValidationError{Message: fmt.Sprintf("request failed (%s)", resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Debugw("decode failed", "path", req.URL.Path, "err", err)
		return &TransientError{Err: err}
	}
	return nil
}
