package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type screen int

const (
	title screen = iota
	inGame
	settings
)

type phase int

const (
	running phase = iota
	paused
	over
)

// recorder counts despawned scopes and keeps the order hooks ran in.
type recorder struct {
	despawned map[any]int
	events    []string
}

func newRecorder() *recorder {
	return &recorder{despawned: map[any]int{}}
}

func (r *recorder) DespawnScope(scope any) int {
	r.despawned[scope]++
	r.events = append(r.events, "despawn")
	return 1
}

func (r *recorder) hook(name string) func() {
	return func() { r.events = append(r.events, name) }
}

func newScreens(t *testing.T, r *recorder) (*Machine[screen], *Machine[phase]) {
	log := zaptest.NewLogger(t)
	s := New("screen", title, r, log).
		Allow(title, inGame).
		Allow(title, settings).
		Allow(inGame, title).
		Allow(settings, title)
	p := Sub(s, "phase", running, func(s screen) bool { return s == inGame }, r, log).
		Allow(running, paused).
		Allow(paused, running).
		Allow(running, over).
		Allow(over, running)
	return s, p
}

func TestSetIsDeferred(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)
	entered := 0
	s.OnEnter(inGame, func() { entered++ })

	require.NoError(t, s.Set(inGame))
	assert.True(t, s.Is(title))
	pending, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, inGame, pending)
	assert.Zero(t, entered)

	assert.True(t, s.Apply())
	assert.True(t, s.Is(inGame))
	assert.Equal(t, 1, entered)
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestDisallowedTransition(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)
	require.NoError(t, s.Set(inGame))
	require.True(t, s.Apply())

	err := s.Set(settings)
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "screen", terr.Machine)
	assert.Equal(t, inGame, terr.From)
	assert.Equal(t, settings, terr.To)
	assert.False(t, s.Apply())
	assert.True(t, s.Is(inGame))
}

func TestSameStateIsNoOp(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)
	entered := 0
	s.OnEnter(title, func() { entered++ })

	require.NoError(t, s.Set(title))
	assert.False(t, s.Apply())
	assert.Zero(t, entered)
	assert.Empty(t, r.despawned)
}

func TestLastSetWins(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)
	require.NoError(t, s.Set(inGame))
	require.NoError(t, s.Set(settings))
	s.Apply()
	assert.True(t, s.Is(settings))
}

func TestScopeDespawnedOnExit(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)

	require.NoError(t, s.Set(settings))
	s.Apply()
	assert.Equal(t, 1, r.despawned[s.Scope(title)])

	require.NoError(t, s.Set(title))
	s.Apply()
	assert.Equal(t, 1, r.despawned[s.Scope(settings)])
	assert.Equal(t, 1, r.despawned[s.Scope(title)])
}

func TestScopesAreKeyedPerMachine(t *testing.T) {
	r := newRecorder()
	s, p := newScreens(t, r)
	assert.NotEqual(t, s.Scope(title), p.Scope(running))

	other := New("other", title, r, zaptest.NewLogger(t))
	assert.NotEqual(t, s.Scope(title), other.Scope(title))
	assert.Equal(t, s.Scope(inGame), s.Scope(inGame))
}

func TestSubStateExistsOnlyUnderParent(t *testing.T) {
	r := newRecorder()
	s, p := newScreens(t, r)

	assert.False(t, p.Active())
	assert.ErrorIs(t, p.Set(paused), ErrInactive)

	require.NoError(t, s.Set(inGame))
	s.Apply()
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, running, cur)

	require.NoError(t, p.Set(paused))
	p.Apply()
	assert.True(t, p.Is(paused))

	require.NoError(t, s.Set(title))
	s.Apply()
	assert.False(t, p.Active())
	_, ok = p.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, r.despawned[p.Scope(paused)])

	require.NoError(t, s.Set(inGame))
	s.Apply()
	assert.True(t, p.Is(running), "sub-state restarts in its default")
}

func TestSubStateHookOrder(t *testing.T) {
	r := newRecorder()
	s, p := newScreens(t, r)
	s.OnEnter(inGame, r.hook("enter inGame"))
	s.OnExit(inGame, r.hook("exit inGame"))
	p.OnEnter(running, r.hook("enter running"))
	p.OnExit(running, r.hook("exit running"))

	require.NoError(t, s.Set(inGame))
	s.Apply()
	assert.Equal(t, []string{"despawn", "enter inGame", "enter running"}, r.events)

	r.events = nil
	require.NoError(t, s.Set(title))
	s.Apply()
	assert.Equal(t, []string{"exit running", "despawn", "exit inGame", "despawn"}, r.events)
}

func TestPendingDroppedOnDeactivate(t *testing.T) {
	r := newRecorder()
	s, p := newScreens(t, r)
	require.NoError(t, s.Set(inGame))
	s.Apply()

	require.NoError(t, p.Set(over))
	require.NoError(t, s.Set(title))
	s.Apply()
	assert.False(t, p.Apply())

	require.NoError(t, s.Set(inGame))
	s.Apply()
	assert.True(t, p.Is(running))
}

func TestEnterRunsInitialHooks(t *testing.T) {
	r := newRecorder()
	s, _ := newScreens(t, r)
	entered := 0
	s.OnEnter(title, func() { entered++ })
	s.Enter()
	assert.Equal(t, 1, entered)
}

func TestNoEdgesAllowsAnything(t *testing.T) {
	m := New("free", title, nil, zaptest.NewLogger(t))
	require.NoError(t, m.Set(settings))
	assert.True(t, m.Apply())
	require.NoError(t, m.Set(inGame))
	assert.True(t, m.Apply())
}
