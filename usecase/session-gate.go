package usecase

import (
	"log"
	"os"
	"sync"

	"github.com/gammazero/deque"
	"github.com/spooky-finn/go-nashio-adapter/domain/interfaces"
)

var logger = log.New(os.Stdout, "[session-gate] ", log.LstdFlags)

type sessionState int

const (
	sessionNotStarted sessionState = iota
	sessionInFlight
	sessionAuthenticated
)

// SessionGate owns the process-wide client handle and serializes access to
// authentication. Login is single-flight: while a login request is
// outstanding, further callers are queued and resumed in arrival order once
// the request resolves. The authenticated state is entered at most once per
// process; there is no logout path.
type SessionGate struct {
	mu      sync.Mutex
	state   sessionState
	client  interfaces.SyncAPI
	waiters deque.Deque[func(error)]

	newClient func() interfaces.SyncAPI
	creds     interfaces.Credentials

	// onAuthenticated establishes the push-subscription handle. It runs
	// exactly once, after a successful login and before the authenticated
	// state becomes observable, so no caller resumes ahead of it.
	onAuthenticated func()
}

func NewSessionGate(newClient func() interfaces.SyncAPI, creds interfaces.Credentials) *SessionGate {
	return &SessionGate{
		state:     sessionNotStarted,
		newClient: newClient,
		creds:     creds,
	}
}

func (g *SessionGate) SetOnAuthenticated(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onAuthenticated = fn
}

// Client returns the lazily constructed, memoized client handle. The same
// handle serves unauthenticated and authenticated calls; authentication is
// a separate step.
func (g *SessionGate) Client() interfaces.SyncAPI {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clientLocked()
}

func (g *SessionGate) clientLocked() interfaces.SyncAPI {
	if g.client == nil {
		g.client = g.newClient()
	}
	return g.client
}

func (g *SessionGate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == sessionAuthenticated
}

// Login resumes cb once the session is authenticated. An already
// authenticated gate resumes cb immediately. Otherwise cb joins the waiter
// queue, and only the caller that finds the gate in the notStarted state
// issues the login request. On failure every queued waiter receives the
// error and the gate returns to notStarted, so a later call may retry.
func (g *SessionGate) Login(cb func(error)) {
	g.mu.Lock()

	switch g.state {
	case sessionAuthenticated:
		g.mu.Unlock()
		cb(nil)
		return
	case sessionInFlight:
		g.waiters.PushBack(cb)
		g.mu.Unlock()
		return
	}

	g.state = sessionInFlight
	g.waiters.PushBack(cb)
	client := g.clientLocked()
	g.mu.Unlock()

	go func() {
		err := client.Login(g.creds)

		if err != nil {
			logger.Printf("login failed: %s", err)
			g.mu.Lock()
			g.state = sessionNotStarted
			drained := g.drainWaitersLocked()
			g.mu.Unlock()

			for _, waiter := range drained {
				waiter(err)
			}
			return
		}

		// The gate stays inFlight until the hook has run, so no caller can
		// take the authenticated fast path before the stream is connected.
		g.mu.Lock()
		onAuthenticated := g.onAuthenticated
		g.mu.Unlock()
		if onAuthenticated != nil {
			onAuthenticated()
		}

		g.mu.Lock()
		g.state = sessionAuthenticated
		drained := g.drainWaitersLocked()
		g.mu.Unlock()

		for _, waiter := range drained {
			waiter(nil)
		}
	}()
}

func (g *SessionGate) drainWaitersLocked() []func(error) {
	drained := make([]func(error), 0, g.waiters.Len())
	for g.waiters.Len() > 0 {
		drained = append(drained, g.waiters.PopFront())
	}
	return drained
}
