package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relic-exchange/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("tok-123"), zap.NewNop().Sugar())
}

func TestAccountSendsBearerToken(t *testing.T) {
	var gotAuth, gotClientID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("X-Client-ID")
		json.NewEncoder(w).Encode(models.Account{Username: "alice", Tokens: 100})
	}))

	acc, err := c.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, 100, acc.Tokens)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotClientID)
}

func TestUnauthorizedMapsToErrUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Account(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerRejectionCarriesMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not enough tokens"})
	}))

	_, err := c.ForgeItem(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Not enough tokens", ve.Message)
}

func TestApplicationLevelFailureIsValidation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(WriteResponse{Success: false, Error: "Cooldown active"})
	}))

	err := c.BuyItem(context.Background(), "item-1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Cooldown active", ve.Message)
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse every connection
	c := NewClient(srv.URL, staticToken(""), zap.NewNop().Sugar())

	_, err := c.Market(context.Background())
	assert.True(t, IsTransient(err), "connection errors are transient: skip the tick, keep the snapshot")
}

func TestServerErrorIsTransient(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Market(context.Background())
	assert.True(t, IsTransient(err), "a 5xx is server trouble, not a rejection of the request")
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestMalformedBodyIsTransient(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))

	_, err := c.Messages(context.Background(), "global")
	assert.True(t, IsTransient(err))
}

func TestLoginReturnsToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		json.NewEncoder(w).Encode(LoginResponse{Success: true, Token: "fresh-token"})
	}))

	token, err := c.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestLoginFailureSurfacesMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResponse{Success: false, Message: "Invalid username or password."})
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid username or password.", ve.Message)
}

func TestMineTokensParsesYield(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mine_tokens", r.URL.Path)
		json.NewEncoder(w).Encode(MineResponse{WriteResponse: WriteResponse{Success: true}, TokensMined: 7})
	}))

	mined, err := c.MineTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, mined)
}

func TestAdminActionHitsNamedEndpoint(t *testing.T) {
	var gotPath string
	var gotReq AdminRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(WriteResponse{Success: true})
	}))

	err := c.Admin(context.Background(), AdminFine, AdminRequest{Username: "bob", Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/fine", gotPath)
	assert.Equal(t, "bob", gotReq.Username)
	assert.Equal(t, 50, gotReq.Amount)
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("boom")
	var err error = &TransientError{Err: inner}
	assert.ErrorIs(t, err, inner)
}
