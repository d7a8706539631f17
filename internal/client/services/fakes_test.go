package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const waitFor = 2 * time.Second

var start = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type identityResult struct {
	resp *client.IdentityResponse
	err  error
}

// identityCall is one request seen by fakeIdentity; the test decides when
// and how it completes.
type identityCall struct {
	kind     IntentKind
	email    string
	password string
	result   chan identityResult
}

func (c identityCall) succeed(localID, token string, ttl time.Duration) {
	c.result <- identityResult{resp: &client.IdentityResponse{
		IDToken:   token,
		Email:     c.email,
		LocalID:   localID,
		ExpiresIn: ttl,
	}}
}

func (c identityCall) fail(err error) {
	c.result <- identityResult{err: err}
}

type fakeIdentity struct {
	calls chan identityCall
}

var _ client.Client = (*fakeIdentity)(nil)

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{calls: make(chan identityCall, 16)}
}

func (f *fakeIdentity) Signup(ctx context.Context, email, password string) (*client.IdentityResponse, error) {
	return f.do(ctx, IntentSignup, email, password)
}

func (f *fakeIdentity) Login(ctx context.Context, email, password string) (*client.IdentityResponse, error) {
	return f.do(ctx, IntentLogin, email, password)
}

func (f *fakeIdentity) do(ctx context.Context, kind IntentKind, email, password string) (*client.IdentityResponse, error) {
	call := identityCall{kind: kind, email: email, password: password, result: make(chan identityResult, 1)}
	select {
	case f.calls <- call:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-call.result:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeIdentity) next(t *testing.T) identityCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(waitFor):
		t.Fatal("no identity call made")
		return identityCall{}
	}
}

func (f *fakeIdentity) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected identity call: %s %s", c.kind, c.email)
	case <-time.After(30 * time.Millisecond):
	}
}

// failingRepo fails every operation.
type failingRepo struct{}

var errBackend = errors.New("backend down")

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingRepo) Set(context.Context, string, []byte) error   { return errBackend }
func (failingRepo) Delete(context.Context, string) error        { return errBackend }

type harness struct {
	ctrl     *SessionController
	identity *fakeIdentity
	repo     metadata.Repository
	store    *SessionStore
	clock    *clockwork.FakeClock
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithRepo(t, metadata.NewMemoryRepository())
}

func newHarnessWithRepo(t *testing.T, repo metadata.Repository) *harness {
	t.Helper()

	h := &harness{
		identity: newFakeIdentity(),
		repo:     repo,
		clock:    clockwork.NewFakeClockAt(start),
	}
	h.store = NewSessionStore(repo, "userData", logging.Discard())
	h.ctrl = NewSessionController(h.identity, h.store, logging.Discard(), WithClock(h.clock))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.ctrl.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			require.NoError(t, err)
		case <-time.After(waitFor):
			t.Error("controller did not stop")
		}
	})
	return h
}

func (h *harness) dispatch(t *testing.T, intent Intent) <-chan Outcome {
	t.Helper()
	reply, err := h.ctrl.Dispatch(context.Background(), intent)
	require.NoError(t, err)
	return reply
}

// awaitOutcome waits for the single outcome on reply.
func awaitOutcome(t *testing.T, reply <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o, ok := <-reply:
		require.True(t, ok, "intent finished without an outcome")
		return o
	case <-time.After(waitFor):
		t.Fatal("no outcome")
		return Outcome{}
	}
}

// awaitNoOutcome waits for reply to close without a value.
func awaitNoOutcome(t *testing.T, reply <-chan Outcome) {
	t.Helper()
	select {
	case o, ok := <-reply:
		require.False(t, ok, "unexpected outcome %s", o.Kind)
	case <-time.After(waitFor):
		t.Fatal("reply channel not closed")
	}
}

func awaitState(t *testing.T, ctrl *SessionController, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return ctrl.State() == want }, waitFor, time.Millisecond,
		"state never became %s", want)
}
