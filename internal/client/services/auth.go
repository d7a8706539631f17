// Package services contains the application services of the recipebook
// client. This file defines the session controller: the single owner of the
// current session, driven by signup, login, restore and logout intents.
package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/expiry"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

var (
	// ErrStopped is returned by Dispatch once Run has returned.
	ErrStopped = errors.New("session controller stopped")
	// ErrAlreadyRunning is returned by a second concurrent call to Run.
	ErrAlreadyRunning = errors.New("session controller already running")
)

// AuthService is what the rest of the client sees of the session controller.
//
// Contract:
//   - Dispatch hands an intent to the controller and returns a channel that
//     receives the intent's outcome, or is closed without one when the
//     intent produces none (a restore with nothing to restore, a login
//     overtaken by a logout).
//   - Signup, Login, Restore and Logout are Dispatch shorthands.
//   - Subscribe streams every published outcome in publication order.
//   - Current and IsAuthenticated answer from the session's own expiry,
//     checked at call time.
type AuthService interface {
	Dispatch(ctx context.Context, intent Intent) (<-chan Outcome, error)
	Signup(ctx context.Context, email, password string) (<-chan Outcome, error)
	Login(ctx context.Context, email, password string) (<-chan Outcome, error)
	Restore(ctx context.Context) (<-chan Outcome, error)
	Logout(ctx context.Context) (<-chan Outcome, error)
	Subscribe() (<-chan Outcome, func())
	Current() (models.Session, bool)
	IsAuthenticated() bool
	State() State
}

const defaultQueueSize = 64

type request struct {
	intent Intent
	reply  chan Outcome
	epoch  uint64
}

type callResult struct {
	req  request
	resp *client.IdentityResponse
	err  error
}

type snapshot struct {
	state   State
	session models.Session
}

// SessionController serialises every change of authentication state through
// one goroutine (Run). Signup and login intents are queued and sent to the
// identity endpoint one at a time; restore and logout are handled at once,
// even while an identity call is outstanding.
type SessionController struct {
	client client.Client
	store  *SessionStore
	timer  *expiry.Timer
	clock  clockwork.Clock
	logger logging.Logger

	intents chan request
	results chan callResult
	expired chan uint64
	done    chan struct{}
	running atomic.Bool

	view atomic.Pointer[snapshot]
	subs *broadcaster

	// Owned by the Run goroutine.
	state    State
	session  models.Session
	handle   *expiry.Handle
	timerGen uint64
	queue    []request
	inFlight *request
	epoch    uint64
}

var _ AuthService = (*SessionController)(nil)

// Option configures a SessionController.
type Option func(*SessionController)

// WithClock replaces the wall clock used for expiry and the expiry timer.
func WithClock(clock clockwork.Clock) Option {
	return func(c *SessionController) {
		c.clock = clock
		c.timer = expiry.New(clock)
	}
}

// WithQueueSize sets how many intents may wait for the controller loop.
func WithQueueSize(n int) Option {
	return func(c *SessionController) {
		c.intents = make(chan request, n)
	}
}

// NewSessionController wires a controller to its identity client and store.
// Nothing happens until Run is called.
func NewSessionController(identity client.Client, store *SessionStore, logger logging.Logger, opts ...Option) *SessionController {
	clock := clockwork.NewRealClock()
	c := &SessionController{
		client:  identity,
		store:   store,
		timer:   expiry.New(clock),
		clock:   clock,
		logger:  logger.With("component", "session"),
		intents: make(chan request, defaultQueueSize),
		results: make(chan callResult),
		expired: make(chan uint64),
		done:    make(chan struct{}),
		subs:    newBroadcaster(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view.Store(&snapshot{state: StateAnonymous})
	return c
}

// Run processes intents until ctx is cancelled. It may be called once.
// On return the expiry timer is disarmed, pending intents are dropped
// without an outcome and subscriber streams are closed. The stored record
// is left as it is, so the next process can restore it.
func (c *SessionController) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.shutdown()
	defer close(c.done)

	c.logger.Debug(ctx, "session controller started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-c.intents:
			c.accept(ctx, req)
		case res := <-c.results:
			c.finish(ctx, res)
		case gen := <-c.expired:
			c.expire(ctx, gen)
		}
	}
}

// Dispatch enqueues intent. It blocks only while the intent queue is full.
func (c *SessionController) Dispatch(ctx context.Context, intent Intent) (<-chan Outcome, error) {
	req := request{intent: intent, reply: make(chan Outcome, 1)}

	select {
	case <-c.done:
		return nil, ErrStopped
	default:
	}

	select {
	case c.intents <- req:
		return req.reply, nil
	case <-c.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Signup dispatches a signup intent.
func (c *SessionController) Signup(ctx context.Context, email, password string) (<-chan Outcome, error) {
	return c.Dispatch(ctx, SignupIntent(email, password))
}

// Login dispatches a login intent.
func (c *SessionController) Login(ctx context.Context, email, password string) (<-chan Outcome, error) {
	return c.Dispatch(ctx, LoginIntent(email, password))
}

// Restore dispatches a restore intent for the persisted session.
func (c *SessionController) Restore(ctx context.Context) (<-chan Outcome, error) {
	return c.Dispatch(ctx, RestoreIntent())
}

// Logout dispatches a logout intent.
func (c *SessionController) Logout(ctx context.Context) (<-chan Outcome, error) {
	return c.Dispatch(ctx, LogoutIntent())
}

// Subscribe returns a stream of every outcome published from now on, and a
// function that ends the subscription.
func (c *SessionController) Subscribe() (<-chan Outcome, func()) {
	return c.subs.subscribe()
}

// Current returns the session if it is valid right now.
func (c *SessionController) Current() (models.Session, bool) {
	s := c.view.Load().session
	if !s.ValidAt(c.clock.Now()) {
		return models.Session{}, false
	}
	return s, true
}

// IsAuthenticated reports whether a valid session exists right now.
func (c *SessionController) IsAuthenticated() bool {
	_, ok := c.Current()
	return ok
}

// State returns the controller's current state.
func (c *SessionController) State() State {
	return c.view.Load().state
}

func (c *SessionController) accept(ctx context.Context, req request) {
	req.epoch = c.epoch

	switch {
	case req.intent.needsIdentityCall():
		c.queue = append(c.queue, req)
		c.startNext(ctx)
	case req.intent.Kind == IntentRestore:
		c.restore(ctx, req)
	case req.intent.Kind == IntentLogout:
		c.endSession(ctx, "logout")
		c.publish(req, Outcome{Kind: OutcomeLoggedOut})
	default:
		c.logger.Warn(ctx, "ignoring unknown intent", "kind", req.intent.Kind.String())
		close(req.reply)
	}
}

// startNext launches the next queued identity call unless one is already
// outstanding. Requests accepted before the latest logout are dropped.
func (c *SessionController) startNext(ctx context.Context) {
	for c.inFlight == nil && len(c.queue) > 0 {
		req := c.queue[0]
		c.queue = c.queue[1:]

		if req.epoch != c.epoch {
			close(req.reply)
			continue
		}

		c.inFlight = &req
		c.setState(StateAuthenticating)
		c.logger.Info(ctx, "authenticating", "intent", req.intent.Kind.String(), "email", req.intent.Email)

		go c.call(ctx, req)
	}
}

func (c *SessionController) call(ctx context.Context, req request) {
	var (
		resp *client.IdentityResponse
		err  error
	)
	if req.intent.Kind == IntentSignup {
		resp, err = c.client.Signup(ctx, req.intent.Email, req.intent.Password)
	} else {
		resp, err = c.client.Login(ctx, req.intent.Email, req.intent.Password)
	}

	select {
	case c.results <- callResult{req: req, resp: resp, err: err}:
	case <-c.done:
	}
}

func (c *SessionController) finish(ctx context.Context, res callResult) {
	c.inFlight = nil
	defer c.startNext(ctx)

	if res.req.epoch != c.epoch {
		c.logger.Debug(ctx, "discarding identity result overtaken by logout", "intent", res.req.intent.Kind.String())
		close(res.req.reply)
		return
	}

	if res.err != nil {
		c.fail(ctx, res)
		return
	}

	email := res.resp.Email
	if email == "" {
		email = res.req.intent.Email
	}
	session := models.NewSession(c.clock.Now(), res.resp.ExpiresIn, email, res.resp.LocalID, res.resp.IDToken)

	if err := c.store.Save(ctx, session.Record()); err != nil {
		c.logger.Warn(ctx, "session not persisted", "email", email, "error", err)
	}
	c.session = session
	c.arm(res.resp.ExpiresIn)
	c.setState(StateAuthenticated)

	c.logger.Info(ctx, "authenticated", "email", email, "expires_at", session.ExpiresAt())
	c.publish(res.req, Outcome{Kind: OutcomeAuthenticated, Session: session})
}

// fail leaves the controller anonymous. A session held from before the
// failed attempt is ended too, so nothing half-authenticated remains.
func (c *SessionController) fail(ctx context.Context, res callResult) {
	ended := !c.session.IsZero()
	if ended {
		c.disarm()
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn(ctx, "session record not cleared", "error", err)
		}
		c.session = models.Session{}
	}
	c.setState(StateAnonymous)

	reason := FailureReason(res.err)
	c.logger.Info(ctx, "authentication failed", "intent", res.req.intent.Kind.String(), "email", res.req.intent.Email, "error", res.err)
	c.publish(res.req, Outcome{Kind: OutcomeFailed, Reason: reason, Err: res.err, SessionEnded: ended})
}

func (c *SessionController) restore(ctx context.Context, req request) {
	if c.state != StateAnonymous {
		c.logger.Debug(ctx, "restore ignored", "state", c.state.String())
		close(req.reply)
		return
	}

	rec, ok := c.store.Load(ctx)
	if !ok {
		close(req.reply)
		return
	}

	session := rec.Session()
	now := c.clock.Now()
	if !session.ValidAt(now) {
		c.logger.Info(ctx, "stored session expired", "email", session.Email(), "expired_at", session.ExpiresAt())
		close(req.reply)
		return
	}

	c.session = session
	c.arm(session.Remaining(now))
	c.setState(StateAuthenticated)

	c.logger.Info(ctx, "session restored", "email", session.Email(), "expires_at", session.ExpiresAt())
	c.publish(req, Outcome{Kind: OutcomeAuthenticated, Session: session})
}

func (c *SessionController) expire(ctx context.Context, gen uint64) {
	if c.handle == nil || gen != c.timerGen {
		return
	}
	c.handle = nil
	c.endSession(ctx, "expired")
	c.publish(request{}, Outcome{Kind: OutcomeLoggedOut})
}

// endSession is shared by logout and expiry and is safe to repeat: disarm,
// clear the store, forget the session, become anonymous. It also makes any
// outstanding or queued identity call stale.
func (c *SessionController) endSession(ctx context.Context, cause string) {
	c.disarm()
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "session record not cleared", "error", err)
	}
	c.epoch++
	c.session = models.Session{}
	c.setState(StateAnonymous)
	c.logger.Info(ctx, "logged out", "cause", cause)
}

// arm replaces the expiry timer; at most one is ever pending.
func (c *SessionController) arm(d time.Duration) {
	c.disarm()
	c.timerGen++
	gen := c.timerGen
	c.handle = c.timer.Arm(d, func() {
		select {
		case c.expired <- gen:
		case <-c.done:
		}
	})
}

func (c *SessionController) disarm() {
	c.timer.Disarm(c.handle)
	c.handle = nil
}

func (c *SessionController) setState(s State) {
	c.state = s
	c.view.Store(&snapshot{state: s, session: c.session})
}

// publish answers the intent that caused o, if any, and tells subscribers.
func (c *SessionController) publish(req request, o Outcome) {
	if req.reply != nil {
		req.reply <- o
		close(req.reply)
	}
	c.subs.publish(o)
}

func (c *SessionController) shutdown() {
	c.disarm()
	if c.inFlight != nil {
		close(c.inFlight.reply)
		c.inFlight = nil
	}
	for _, req := range c.queue {
		close(req.reply)
	}
	c.queue = nil
	for {
		select {
		case req := <-c.intents:
			close(req.reply)
		default:
			c.subs.close()
			return
		}
	}
}
