package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relic-exchange/internal/api"
	"relic-exchange/internal/models"
	"relic-exchange/internal/session"
)

func newTestReconciler(t *testing.T) (*Reconciler, *Store, *session.Store) {
	t.Helper()
	store := NewStore()
	sessions := session.NewStore()
	sessions.SetToken("tok")
	return NewReconciler(store, sessions, zap.NewNop().Sugar()), store, sessions
}

func messages(n int) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, models.ChatMessage{
			ID:       fmt.Sprintf("msg-%d", i+1),
			Username: "alice",
			Message:  fmt.Sprintf("hello %d", i+1),
			Type:     models.MessageUser,
		})
	}
	return msgs
}

func TestTransientFailureRetainsPreviousSnapshot(t *testing.T) {
	rec, store, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	s1 := []models.MarketListing{{ID: "x", Price: 10}}
	out := rec.Reconcile(Result{Resource: ResourceMarket, Generation: gen, Value: s1})
	require.True(t, out.Applied)

	out = rec.Reconcile(Result{
		Resource:   ResourceMarket,
		Generation: gen,
		Err:        &api.TransientError{Err: errors.New("connection refused")},
	})
	assert.False(t, out.Applied)
	assert.False(t, out.Rerender)
	assert.Equal(t, s1, store.Market(), "visible state still reflects S1 after the failed tick")
	assert.True(t, sessions.Active(), "transient failures never touch the session")
}

func TestAuthRejectionInvalidatesSessionExactlyOnce(t *testing.T) {
	rec, _, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	// A whole tick's worth of resources rejecting at once.
	lost := 0
	for _, r := range PolledResources {
		out := rec.Reconcile(Result{Resource: r, Generation: gen, Err: api.ErrUnauthorized})
		if out.SessionLost {
			lost++
		}
	}
	assert.Equal(t, 1, lost, "exactly one forced logout")
	assert.False(t, sessions.Active())
}

func TestStaleGenerationResultIsDropped(t *testing.T) {
	rec, store, sessions := newTestReconciler(t)
	oldGen := sessions.Generation()

	sessions.Logout()
	sessions.SetToken("fresh")

	out := rec.Reconcile(Result{
		Resource:   ResourceMarket,
		Generation: oldGen,
		Value:      []models.MarketListing{{ID: "late"}},
	})
	assert.False(t, out.Applied)
	assert.Nil(t, store.Market(), "a late response after logout is discarded, not applied")
}

func TestChatUnchangedCountSkipsRerender(t *testing.T) {
	rec, store, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	first := messages(3)
	out := rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: first})
	require.True(t, out.Rerender)
	assert.Len(t, out.NewMessages, 3)

	// Same count, different content: the cheap check accepts it unrendered.
	edited := messages(3)
	edited[1].Message = "edited"
	out = rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: edited})
	assert.True(t, out.Applied, "the snapshot itself is still replaced")
	assert.False(t, out.Rerender)
	assert.Empty(t, out.NewMessages)
	assert.Equal(t, "edited", store.Messages()[1].Message)
}

func TestChatGrowthYieldsNewSuffix(t *testing.T) {
	rec, _, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: messages(2)})
	out := rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: messages(5)})

	require.True(t, out.Rerender)
	require.Len(t, out.NewMessages, 3)
	assert.Equal(t, "msg-3", out.NewMessages[0].ID)
	assert.Equal(t, "msg-5", out.NewMessages[2].ID)
}

func TestChatShrinkRerendersWithoutNewMessages(t *testing.T) {
	rec, _, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: messages(5)})
	out := rec.Reconcile(Result{Resource: ResourceMessages, Generation: gen, Value: messages(4)})

	assert.True(t, out.Rerender)
	assert.Empty(t, out.NewMessages, "deletions introduce nothing to count as unread")
}

func TestAccountRoleAndLockoutTransitions(t *testing.T) {
	rec, _, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	out := rec.Reconcile(Result{Resource: ResourceAccount, Generation: gen, Value: &models.Account{
		Username: "alice", Role: models.RoleMod,
	}})
	require.True(t, out.Applied)
	assert.False(t, out.RoleChanged, "first snapshot has nothing to differ from")

	out = rec.Reconcile(Result{Resource: ResourceAccount, Generation: gen, Value: &models.Account{
		Username: "alice", Role: models.RoleUser,
	}})
	assert.True(t, out.RoleChanged)
	assert.False(t, out.LockoutChanged)

	out = rec.Reconcile(Result{Resource: ResourceAccount, Generation: gen, Value: &models.Account{
		Username: "alice", Role: models.RoleUser, Banned: true,
	}})
	assert.True(t, out.LockoutChanged)
}

func TestBannerRerendersOnlyOnChange(t *testing.T) {
	rec, store, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	out := rec.Reconcile(Result{Resource: ResourceBanner, Generation: gen, Value: "maintenance at noon"})
	assert.True(t, out.Rerender)

	out = rec.Reconcile(Result{Resource: ResourceBanner, Generation: gen, Value: "maintenance at noon"})
	assert.False(t, out.Rerender)
	assert.Equal(t, "maintenance at noon", store.Banner())
}

func TestResourcesAreIndependent(t *testing.T) {
	rec, store, sessions := newTestReconciler(t)
	gen := sessions.Generation()

	rec.Reconcile(Result{Resource: ResourceMarket, Generation: gen, Value: []models.MarketListing{{ID: "m"}}})
	rec.Reconcile(Result{
		Resource:   ResourceLeaderboard,
		Generation: gen,
		Err:        &api.TransientError{Err: errors.New("timeout")},
	})
	rec.Reconcile(Result{Resource: ResourceStats, Generation: gen, Value: &models.Stats{Users: 9}})

	assert.Len(t, store.Market(), 1)
	assert.Nil(t, store.Leaderboard())
	assert.Equal(t, 9, store.Stats().Users)
}
