package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("storage unavailable")

func bootstrapped(t *testing.T, store Store) *Resolver {
	t.Helper()
	r := NewResolver(store)
	require.NoError(t, r.Bootstrap(context.Background()))
	return r
}

func TestNewResolver_StartsBootstrapping(t *testing.T) {
	r := NewResolver(NewMemoryStore(nil))
	s := r.Session()
	assert.True(t, s.Bootstrapping)
	assert.False(t, s.Authenticated())
	assert.Equal(t, TreeLoading, r.Route())
}

func TestBootstrap(t *testing.T) {
	tests := []struct {
		name      string
		stored    map[string]string
		failGet   map[string]error
		wantToken string
		wantRole  Role
		wantTree  Tree
	}{
		{
			name:     "empty store",
			stored:   nil,
			wantTree: TreeUnauthenticated,
		},
		{
			name:      "super admin",
			stored:    map[string]string{KeyToken: "abc", KeyRole: "super_admin"},
			wantToken: "abc",
			wantRole:  RoleSuperAdmin,
			wantTree:  TreeSuperAdmin,
		},
		{
			name:      "branch admin",
			stored:    map[string]string{KeyToken: "xyz", KeyRole: "branch_admin"},
			wantToken: "xyz",
			wantRole:  RoleNormalAdmin,
			wantTree:  TreeNormalAdmin,
		},
		{
			name:     "token without role",
			stored:   map[string]string{KeyToken: "abc"},
			wantTree: TreeUnauthenticated,
		},
		{
			name:     "role without token",
			stored:   map[string]string{KeyRole: "super_admin"},
			wantTree: TreeUnauthenticated,
		},
		{
			name:     "blank role",
			stored:   map[string]string{KeyToken: "abc", KeyRole: "  "},
			wantTree: TreeUnauthenticated,
		},
		{
			name:     "token read fails",
			stored:   map[string]string{KeyToken: "abc", KeyRole: "super_admin"},
			failGet:  map[string]error{KeyToken: errUnavailable},
			wantTree: TreeUnauthenticated,
		},
		{
			name:     "role read fails",
			stored:   map[string]string{KeyToken: "abc", KeyRole: "super_admin"},
			failGet:  map[string]error{KeyRole: errUnavailable},
			wantTree: TreeUnauthenticated,
		},
		{
			name:     "both reads fail",
			failGet:  map[string]error{KeyToken: errUnavailable, KeyRole: errUnavailable},
			wantTree: TreeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(tt.stored)
			for k, err := range tt.failGet {
				store.FailGet[k] = err
			}

			r := NewResolver(store)
			err := r.Bootstrap(context.Background())
			require.NoError(t, err)

			s := r.Session()
			assert.False(t, s.Bootstrapping)
			assert.Equal(t, tt.wantToken, s.Token)
			assert.Equal(t, tt.wantRole, s.Role)
			assert.Equal(t, tt.wantToken != "", s.Role != RoleNone, "token and role must be set together")
			assert.Equal(t, tt.wantTree, r.Route())
		})
	}
}

func TestBootstrap_OnlyOnce(t *testing.T) {
	store := NewMemoryStore(map[string]string{KeyToken: "abc", KeyRole: "super_admin"})
	r := bootstrapped(t, store)

	require.NoError(t, store.Set(context.Background(), KeyRole, "branch_admin"))
	err := r.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyBootstrapped)
	assert.Equal(t, RoleSuperAdmin, r.Session().Role)
	assert.False(t, r.Session().Bootstrapping)
}

func TestBootstrap_CancelledContextStillClearsFlag(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(NewMemoryStore(map[string]string{KeyToken: "abc", KeyRole: "super_admin"}))
	require.NoError(t, r.Bootstrap(ctx))
	assert.False(t, r.Session().Bootstrapping)
	assert.Equal(t, TreeUnauthenticated, r.Route())
}

type slowStore struct {
	*MemoryStore
}

func (s slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-time.After(time.Second):
		return s.MemoryStore.Get(ctx, key)
	}
}

func TestBootstrap_TimeoutFailsOpen(t *testing.T) {
	store := slowStore{NewMemoryStore(map[string]string{KeyToken: "abc", KeyRole: "super_admin"})}
	r := NewResolver(store, WithTimeout(10*time.Millisecond))

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, TreeUnauthenticated, r.Route())
}

func TestSignIn(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		role     string
		wantRole Role
		wantTree Tree
	}{
		{name: "super admin", token: "t1", role: "super_admin", wantRole: RoleSuperAdmin, wantTree: TreeSuperAdmin},
		{name: "branch admin", token: "xyz", role: "branch_admin", wantRole: RoleNormalAdmin, wantTree: TreeNormalAdmin},
		{name: "normal admin", token: "t2", role: "normal_admin", wantRole: RoleNormalAdmin, wantTree: TreeNormalAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(nil)
			r := bootstrapped(t, store)

			require.NoError(t, r.SignIn(context.Background(), tt.token, tt.role))

			s := r.Session()
			assert.False(t, s.Bootstrapping)
			assert.Equal(t, tt.token, s.Token)
			assert.Equal(t, tt.wantRole, s.Role)
			assert.Equal(t, tt.role, s.RoleTag)
			assert.Equal(t, tt.wantTree, r.Route())

			stored := store.Snapshot()
			assert.Equal(t, tt.token, stored[KeyToken])
			assert.Equal(t, tt.role, stored[KeyRole])
		})
	}
}

func TestSignIn_Idempotent(t *testing.T) {
	r := bootstrapped(t, NewMemoryStore(nil))

	require.NoError(t, r.SignIn(context.Background(), "abc", "super_admin"))
	first := r.Session()
	require.NoError(t, r.SignIn(context.Background(), "abc", "super_admin"))
	assert.Equal(t, first, r.Session())
}

func TestSignIn_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		role      string
		wantField string
	}{
		{name: "empty token", token: "", role: "super_admin", wantField: "token"},
		{name: "blank token", token: "   ", role: "super_admin", wantField: "token"},
		{name: "empty role", token: "abc", role: "", wantField: "role"},
		{name: "blank role", token: "abc", role: "\t", wantField: "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(map[string]string{KeyToken: "old", KeyRole: "branch_admin"})
			store.FailSet[KeyToken] = errors.New("must not be called")
			r := bootstrapped(t, store)
			before := r.Session()

			err := r.SignIn(context.Background(), tt.token, tt.role)

			var invalid *InvalidSignInError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Equal(t, before, r.Session())
			assert.Equal(t, TreeNormalAdmin, r.Route())
			assert.Equal(t, map[string]string{KeyToken: "old", KeyRole: "branch_admin"}, store.Snapshot())
		})
	}
}

func TestSignIn_WriteFailure(t *testing.T) {
	tests := []struct {
		name       string
		stored     map[string]string
		failKey    string
		wantKey    string
		wantTree   Tree
		wantStored map[string]string
	}{
		{
			name:       "token write fails from signed out",
			failKey:    KeyToken,
			wantKey:    KeyToken,
			wantTree:   TreeUnauthenticated,
			wantStored: map[string]string{},
		},
		{
			name:       "role write fails from signed out",
			failKey:    KeyRole,
			wantKey:    KeyRole,
			wantTree:   TreeUnauthenticated,
			wantStored: map[string]string{},
		},
		{
			name:       "role write fails from signed in",
			stored:     map[string]string{KeyToken: "old", KeyRole: "branch_admin"},
			failKey:    KeyRole,
			wantKey:    KeyRole,
			wantTree:   TreeNormalAdmin,
			wantStored: map[string]string{KeyToken: "old", KeyRole: "branch_admin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(tt.stored)
			r := bootstrapped(t, store)
			before := r.Session()
			store.FailSet[tt.failKey] = errUnavailable

			err := r.SignIn(context.Background(), "new-token", "super_admin")

			var signInErr *SignInError
			require.ErrorAs(t, err, &signInErr)
			assert.Equal(t, tt.wantKey, signInErr.Key)
			assert.ErrorIs(t, err, errUnavailable)
			assert.Equal(t, before, r.Session())
			assert.Equal(t, tt.wantTree, r.Route())
			assert.Equal(t, tt.wantStored, store.Snapshot())
		})
	}
}

func TestSignOut(t *testing.T) {
	store := NewMemoryStore(map[string]string{KeyToken: "abc", KeyRole: "super_admin"})
	r := bootstrapped(t, store)

	r.SignOut(context.Background())

	s := r.Session()
	assert.False(t, s.Authenticated())
	assert.Equal(t, RoleNone, s.Role)
	assert.False(t, s.Bootstrapping)
	assert.Equal(t, TreeUnauthenticated, r.Route())
	assert.Empty(t, store.Snapshot())
	assert.NoError(t, r.LastSignOutError())
}

func TestSignOut_RemoveFailureStillClears(t *testing.T) {
	store := NewMemoryStore(map[string]string{KeyToken: "abc", KeyRole: "super_admin"})
	store.FailRemove[KeyToken] = errUnavailable
	store.FailRemove[KeyRole] = errUnavailable
	r := bootstrapped(t, store)

	r.SignOut(context.Background())

	s := r.Session()
	assert.Empty(t, s.Token)
	assert.Equal(t, RoleNone, s.Role)
	assert.False(t, s.Bootstrapping)
	assert.Equal(t, TreeUnauthenticated, r.Route())
	assert.ErrorIs(t, r.LastSignOutError(), errUnavailable)
}

func TestSignInThenSignOut(t *testing.T) {
	r := bootstrapped(t, NewMemoryStore(nil))
	require.Equal(t, TreeUnauthenticated, r.Route())

	require.NoError(t, r.SignIn(context.Background(), "xyz", "branch_admin"))
	assert.Equal(t, TreeNormalAdmin, r.Route())

	r.SignOut(context.Background())
	assert.Equal(t, TreeUnauthenticated, r.Route())
}

func TestSessionSurvivesRestart(t *testing.T) {
	store := NewMemoryStore(nil)
	first := bootstrapped(t, store)
	require.NoError(t, first.SignIn(context.Background(), "abc", "super_admin"))

	second := bootstrapped(t, store)
	assert.Equal(t, first.Session(), second.Session())
	assert.Equal(t, TreeSuperAdmin, second.Route())
}

func TestWatch_SeesTransitions(t *testing.T) {
	r := bootstrapped(t, NewMemoryStore(nil))

	var mu sync.Mutex
	var trees []Tree
	stop := r.Watch(func(s Session) {
		mu.Lock()
		defer mu.Unlock()
		trees = append(trees, Route(s))
	})

	require.NoError(t, r.SignIn(context.Background(), "abc", "super_admin"))
	r.SignOut(context.Background())
	stop()
	require.NoError(t, r.SignIn(context.Background(), "abc", "branch_admin"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Tree{
		TreeLoading, TreeSuperAdmin,
		TreeLoading, TreeUnauthenticated,
	}, trees)
}

func TestSignIn_ConcurrentCallsSerialize(t *testing.T) {
	r := bootstrapped(t, NewMemoryStore(nil))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.SignIn(context.Background(), "abc", "super_admin")
			r.SignOut(context.Background())
		}()
	}
	wg.Wait()

	s := r.Session()
	assert.False(t, s.Bootstrapping)
	assert.Equal(t, s.Token != "", s.Role != RoleNone)
}
