package state

import (
	"errors"

	"go.uber.org/zap"

	"relic-exchange/internal/api"
	"relic-exchange/internal/models"
	"relic-exchange/internal/session"
)

// Reconciler applies fetch results to a Store. Resources are independent: a
// failure or staleness in one never blocks another.
type Reconciler struct {
	store    *Store
	sessions *session.Store
	log      *zap.SugaredLogger
}

// NewReconciler wires the engine to the view model and the session store it
// invalidates on auth rejection.
func NewReconciler(store *Store, sessions *session.Store, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{store: store, sessions: sessions, log: log}
}

// Reconcile merges one fetch result into the view model.
//
// Failure policy: an auth rejection invalidates the session (once per
// generation, no matter how many resources reject in the same tick burst);
// any other error keeps the previous snapshot and skips the tick, the next
// scheduled poll being the only retry.
func (r *Reconciler) Reconcile(res Result) Outcome {
	if res.Generation != r.sessions.Generation() {
		// Late answer from a previous login, or from before a logout. The
		// fetch was never cancelled; its result just gets dropped here.
		r.log.Debugw("dropping stale result", "resource", res.Resource, "generation", res.Generation)
		return Outcome{}
	}

	if errors.Is(res.Err, api.ErrUnauthorized) {
		lost := r.sessions.Invalidate(res.Generation)
		if lost {
			r.log.Warnw("session rejected by server", "resource", res.Resource)
		}
		return Outcome{SessionLost: lost}
	}
	if res.Err != nil {
		// Transient read failure: stale-but-valid beats flicker. Not
		// surfaced to the user.
		r.log.Debugw("poll failed, keeping previous snapshot", "resource", res.Resource, "err", res.Err)
		return Outcome{}
	}

	switch res.Resource {
	case ResourceAccount:
		return r.reconcileAccount(res.Value.(*models.Account))
	case ResourceMarket:
		r.store.market = res.Value.([]models.MarketListing)
		return Outcome{Applied: true, Rerender: true}
	case ResourceMessages:
		return r.reconcileMessages(res.Value.([]models.ChatMessage))
	case ResourceLeaderboard:
		r.store.leaderboard = res.Value.([]models.LeaderboardEntry)
		return Outcome{Applied: true, Rerender: true}
	case ResourceStats:
		r.store.stats = res.Value.(*models.Stats)
		return Outcome{Applied: true, Rerender: true}
	case ResourceBanner:
		return r.reconcileBanner(res.Value.(string))
	}

	r.log.Errorw("unknown resource", "resource", res.Resource)
	return Outcome{}
}

func (r *Reconciler) reconcileAccount(fresh *models.Account) Outcome {
	prev := r.store.account
	r.store.account = fresh

	out := Outcome{Applied: true, Rerender: true}
	if prev != nil {
		out.RoleChanged = prev.Role != fresh.Role
		out.LockoutChanged = prev.LockedOut() != fresh.LockedOut()
	} else {
		out.LockoutChanged = fresh.LockedOut()
	}
	return out
}

// reconcileMessages replaces the chat backlog. A full chat repaint discards
// the scroll position, so an unchanged message count skips the repaint
// entirely. Count equality is a knowingly cheap check: a same-length
// delete-and-add goes unrendered until the count next changes.
func (r *Reconciler) reconcileMessages(fresh []models.ChatMessage) Outcome {
	prev := r.store.messages
	r.store.messages = fresh

	if len(fresh) == len(prev) {
		return Outcome{Applied: true}
	}

	out := Outcome{Applied: true, Rerender: true}
	if len(fresh) > len(prev) {
		// Server order is append-only in the common case; the suffix is what
		// the unread tracker counts. A shrink (moderator deletions) renders
		// but introduces no new messages.
		out.NewMessages = fresh[len(prev):]
	}
	return out
}

func (r *Reconciler) reconcileBanner(fresh string) Outcome {
	changed := r.store.banner != fresh
	r.store.banner = fresh
	return Outcome{Applied: true, Rerender: changed}
}
