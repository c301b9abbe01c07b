package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iksnae/complaint-desk/internal"
	"go.uber.org/multierr"
)

// Resolver owns the console's single Session. It restores the session from
// the Store at start-up and keeps memory and storage in step on sign-in and
// sign-out.
type Resolver struct {
	store   Store
	timeout time.Duration

	// op serializes Bootstrap, SignIn and SignOut
	op sync.Mutex

	mu           sync.RWMutex
	current      Session
	bootstrapped bool
	signOutErr   error
	listeners    []listener
	nextID       int
}

type listener struct {
	id int
	fn func(Session)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout bounds every store call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// NewResolver creates a Resolver in the bootstrapping state
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		current: Session{Bootstrapping: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns a copy of the current session
func (r *Resolver) Session() Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Route returns the tree for the current session
func (r *Resolver) Route() Tree {
	return Route(r.Session())
}

// Watch registers fn to be called after every session change and returns a
// function that removes it.
func (r *Resolver) Watch(fn func(Session)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// LastSignOutError returns the storage errors swallowed by the most recent
// SignOut, or nil.
func (r *Resolver) LastSignOutError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.signOutErr
}

// Bootstrap restores the persisted session. Read failures are logged and
// treated as absent values; it only fails when called more than once.
func (r *Resolver) Bootstrap(ctx context.Context) error {
	r.op.Lock()
	defer r.op.Unlock()

	r.mu.Lock()
	if r.bootstrapped {
		r.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	r.bootstrapped = true
	r.mu.Unlock()

	var token, tag string
	defer func() {
		next := Session{}
		if _, ok := ParseRole(tag); ok && token != "" {
			next = signedIn(token, tag)
		} else if token != "" || tag != "" {
			internal.LogWarn("Discarding incomplete stored session (token set: %t, role set: %t)", token != "", tag != "")
		}
		r.set(next)
		internal.LogDebug("Session restored, routing to %s", Route(next))
	}()

	token = r.read(ctx, KeyToken)
	tag = r.read(ctx, KeyRole)
	return nil
}

// SignIn persists token and role and then makes them the current session.
// If either write fails the previous stored values are restored on a best
// effort basis and the in-memory session is not changed.
func (r *Resolver) SignIn(ctx context.Context, token, tag string) error {
	if strings.TrimSpace(token) == "" {
		return &InvalidSignInError{Field: "token", Reason: "is empty"}
	}
	if _, ok := ParseRole(tag); !ok {
		return &InvalidSignInError{Field: "role", Reason: "is empty"}
	}
	tag = strings.TrimSpace(tag)

	r.op.Lock()
	defer r.op.Unlock()

	prev := r.Session()
	r.transition(prev)

	for _, kv := range [][2]string{{KeyToken, token}, {KeyRole, tag}} {
		if err := r.write(ctx, kv[0], kv[1]); err != nil {
			internal.LogError("Failed to persist %s: %v", kv[0], err)
			r.rollback(ctx, prev)
			r.set(prev)
			return &SignInError{Key: kv[0], Err: err}
		}
	}

	next := signedIn(token, tag)
	if next.Role == RoleNormalAdmin && tag != "normal_admin" {
		internal.LogDebug("Role %q treated as normal admin", tag)
	}
	r.set(next)
	return nil
}

// SignOut removes the persisted credentials and clears the session. Storage
// failures are logged and kept for LastSignOutError; the in-memory session is
// always cleared.
func (r *Resolver) SignOut(ctx context.Context) {
	r.op.Lock()
	defer r.op.Unlock()

	r.transition(r.Session())

	var errs error
	for _, key := range []string{KeyToken, KeyRole} {
		if err := r.remove(ctx, key); err != nil {
			internal.LogWarn("Failed to remove %s: %v", key, err)
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}

	r.mu.Lock()
	r.signOutErr = errs
	r.mu.Unlock()

	r.set(Session{})
}

func (r *Resolver) transition(s Session) {
	s.Bootstrapping = true
	r.set(s)
}

func (r *Resolver) set(s Session) {
	r.mu.Lock()
	r.current = s
	fns := make([]func(Session), 0, len(r.listeners))
	for _, l := range r.listeners {
		fns = append(fns, l.fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (r *Resolver) rollback(ctx context.Context, prev Session) {
	ctx = context.WithoutCancel(ctx)
	if prev.Authenticated() {
		if err := r.write(ctx, KeyToken, prev.Token); err != nil {
			internal.LogWarn("Failed to restore %s: %v", KeyToken, err)
		}
		if err := r.write(ctx, KeyRole, prev.RoleTag); err != nil {
			internal.LogWarn("Failed to restore %s: %v", KeyRole, err)
		}
		return
	}
	for _, key := range []string{KeyToken, KeyRole} {
		if err := r.remove(ctx, key); err != nil {
			internal.LogWarn("Failed to roll back %s: %v", key, err)
		}
	}
}

func (r *Resolver) read(ctx context.Context, key string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		internal.LogWarn("Failed to load %s: %v", key, err)
		return ""
	}
	if !ok || strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

func (r *Resolver) write(ctx context.Context, key, value string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return r.store.Set(ctx, key, value)
}

func (r *Resolver) remove(ctx context.Context, key string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	return r.store.Remove(ctx, key)
}

func (r *Resolver) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
