// Package client wires the polled view model to the termbox interface: one
// controller goroutine owns all state mutation, reconciling poll results and
// key events as they arrive. Network calls never run on this goroutine.
package client

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/nsf/termbox-go"
	"go.uber.org/zap"

	"relic-exchange/internal/api"
	"relic-exchange/internal/config"
	"relic-exchange/internal/filter"
	"relic-exchange/internal/models"
	"relic-exchange/internal/poll"
	"relic-exchange/internal/session"
	"relic-exchange/internal/state"
	"relic-exchange/internal/unread"
)

// ErrSessionExpired is returned by Run when the server rejected the session;
// the caller should prompt for a fresh login and start over.
var ErrSessionExpired = errors.New("client: session expired, re-login required")

// statusTTL is how long a one-shot status message stays on screen.
const statusTTL = 5 * time.Second

// writeResult is the completion of a user-initiated write, delivered back to
// the controller goroutine.
type writeResult struct {
	message     string
	sessionLost bool
}

// App is the controller. Everything below the api client is confined to the
// Run goroutine.
type App struct {
	cfg      config.Config
	api      *api.Client
	sessions *session.Store
	store    *state.Store
	rec      *state.Reconciler
	sched    *poll.Scheduler
	tracker  *unread.Tracker
	ui       *TermboxUI
	log      *zap.SugaredLogger

	view        View
	invControls filter.Controls
	mktControls filter.Controls
	invFilter   filter.State
	mktFilter   filter.State
	invSelected int
	mktSelected int
	chatScroll  int

	prompt      *activePrompt
	status      string
	statusUntil time.Time

	writes  chan writeResult
	cfgCh   chan config.Config
	events  chan termbox.Event
	quit    bool
	expired bool
}

// New assembles the full client around an authenticated session.
func New(cfg config.Config, apiClient *api.Client, sessions *session.Store, log *zap.SugaredLogger) *App {
	store := state.NewStore()
	a := &App{
		cfg:         cfg,
		api:         apiClient,
		sessions:    sessions,
		store:       store,
		rec:         state.NewReconciler(store, sessions, log),
		log:         log,
		view:        ViewInventory,
		invFilter:   filter.NewState(),
		mktFilter:   filter.NewState(),
		invSelected: -1,
		mktSelected: -1,
		writes:      make(chan writeResult, 4),
		cfgCh:       make(chan config.Config, 1),
		events:      make(chan termbox.Event, 16),
	}
	a.tracker = unread.NewTracker(cfg.Sound, terminalBell)
	a.sched = poll.NewScheduler(cfg.Interval(), sessions, a.fetch, log)
	a.ui = NewTermboxUI()
	return a
}

// terminalBell rings the terminal bell. BEL moves no cursor, so emitting it
// under termbox is safe.
func terminalBell() {
	os.Stdout.WriteString("\a")
}

// fetch performs one poll read. Runs on a scheduler goroutine.
func (a *App) fetch(ctx context.Context, r state.Resource) (interface{}, error) {
	switch r {
	case state.ResourceAccount:
		return a.api.Account(ctx)
	case state.ResourceMarket:
		return a.api.Market(ctx)
	case state.ResourceMessages:
		return a.api.Messages(ctx, a.cfg.Room)
	case state.ResourceLeaderboard:
		return a.api.Leaderboard(ctx)
	case state.ResourceStats:
		return a.api.Stats(ctx)
	case state.ResourceBanner:
		return a.api.Banner(ctx)
	}
	return nil, &api.TransientError{Err: errors.New("unknown resource " + string(r))}
}

// Run owns the terminal until the user quits or the session dies.
func (a *App) Run(ctx context.Context) error {
	if err := a.ui.Init(); err != nil {
		return err
	}
	defer a.ui.Close()
	// Unblock the PollEvent goroutine before the terminal closes, so a later
	// Run after re-login does not race a stale event pump.
	defer termbox.Interrupt()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.sched.Run(ctx)
	go a.pollEvents(ctx)

	// Watch the file the config was actually loaded from; a --config flag
	// moves it away from the default location.
	cfgPath := a.cfg.Path
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	stopWatch, err := config.Watch(cfgPath, a.log, func(cfg config.Config) {
		select {
		case a.cfgCh <- cfg:
		default:
		}
	})
	if err != nil {
		a.log.Warnw("config watch unavailable", "err", err)
	} else {
		defer stopWatch()
	}

	// Repaint every interval tick so cooldown countdowns and status expiry
	// stay current even when nothing else happens.
	redraw := time.NewTicker(a.cfg.Interval())
	defer redraw.Stop()

	a.render()
	for !a.quit && !a.expired {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.events:
			a.handleEvent(ev)
			a.render()
		case res := <-a.sched.Results():
			if a.applyResult(res) {
				a.render()
			}
		case wr := <-a.writes:
			if wr.sessionLost {
				a.expired = true
				break
			}
			a.setStatus(wr.message)
			a.render()
		case cfg := <-a.cfgCh:
			a.cfg.Sound = cfg.Sound
			a.tracker.SetSound(cfg.Sound)
		case <-redraw.C:
			if !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
				a.status = ""
				a.statusUntil = time.Time{}
			}
			a.render()
		}
	}
	if a.expired {
		return ErrSessionExpired
	}
	return nil
}

// pollEvents pumps termbox events into the controller channel.
func (a *App) pollEvents(ctx context.Context) {
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case a.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// applyResult reconciles one poll result and reports whether a repaint is
// due.
func (a *App) applyResult(res state.Result) bool {
	out := a.rec.Reconcile(res)
	if out.SessionLost {
		a.expired = true
		return false
	}
	if len(out.NewMessages) > 0 {
		a.tracker.Observe(len(out.NewMessages))
	}
	if res.Resource == state.ResourceAccount && out.Applied {
		a.applyAccountTransitions(out)
	}
	return out.Rerender || len(out.NewMessages) > 0
}

// applyAccountTransitions moves the user off views the fresh account snapshot
// no longer permits.
func (a *App) applyAccountTransitions(out state.Outcome) {
	acc := a.store.Account()
	if acc == nil {
		return
	}
	if acc.LockedOut() {
		a.view = ViewLocked
		return
	}
	if a.view == ViewLocked {
		a.setView(ViewInventory)
	}
	if out.RoleChanged && !acc.Role.AtLeast(a.view.RequiredRole()) {
		// Role-gated panel lost: land on the neutral view.
		a.setView(ViewInventory)
		a.setStatus("Your role changed; returning to inventory.")
	}
}

// setView switches screens. Entering chat focuses the unread tracker and
// clears the badge; leaving it blurs the tracker again.
func (a *App) setView(v View) {
	if acc := a.store.Account(); acc != nil && !acc.Role.AtLeast(v.RequiredRole()) {
		a.setStatus("That panel needs a higher role.")
		return
	}
	wasChat := a.view == ViewChat
	a.view = v
	if v == ViewChat {
		a.tracker.Focus()
		a.chatScroll = 0
	} else if wasChat {
		a.tracker.Blur()
	}
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusUntil = time.Now().Add(statusTTL)
}

func (a *App) render() {
	frame := a.buildFrame(time.Now())
	a.ui.Render(frame)
}

// doWrite runs one user-initiated write off the controller goroutine and
// reports the outcome as a one-shot status message. Reads may fail silently;
// writes never do.
func (a *App) doWrite(verb string, fn func(ctx context.Context) error) {
	a.doWriteMsg(verb, func(ctx context.Context) (string, error) {
		if err := fn(ctx); err != nil {
			return "", err
		}
		return verb + " done.", nil
	})
}

// doWriteMsg is doWrite with a caller-supplied success message.
func (a *App) doWriteMsg(verb string, fn func(ctx context.Context) (string, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		msg, err := fn(ctx)
		res := writeResult{message: msg}
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			res.sessionLost = a.sessions.Invalidate(a.sessions.Generation())
			res.message = "Session expired."
		case err != nil:
			var ve *api.ValidationError
			if errors.As(err, &ve) {
				res.message = ve.Message
			} else {
				res.message = verb + " failed: " + err.Error()
			}
		}
		a.writes <- res
	}()
}

// role returns the current role, defaulting to user before the first account
// snapshot lands.
func (a *App) role() models.Role {
	if acc := a.store.Account(); acc != nil {
		return acc.Role
	}
	return models.RoleUser
}
