// Package fpscounter draws the frame rate overlay. Each of its four lines has its own
// visibility state machine driven by Options.
package fpscounter

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"igo-local/diagnostics"
	"igo-local/scene"
	"igo-local/state"
)

type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "Visible"
	}
	return "Hidden"
}

// Options selects which lines of the overlay are shown, one flag per line.
type Options struct {
	Visible              bool `json:"visible" env:"VISIBLE"`
	ShowAverage          bool `json:"show_average" env:"SHOW_AVERAGE"`
	ShowFrameTime        bool `json:"show_frame_time" env:"SHOW_FRAME_TIME"`
	ShowAverageFrameTime bool `json:"show_average_frame_time" env:"SHOW_AVERAGE_FRAME_TIME"`
}

func DefaultOptions() Options {
	return Options{
		Visible:              true,
		ShowAverage:          true,
		ShowFrameTime:        true,
		ShowAverageFrameTime: true,
	}
}

// Item is one line of the overlay. Its value is also its position under the root.
type Item int

const (
	Rate Item = iota
	AverageRate
	FrameTime
	AverageFrameTime
	itemCount
)

type itemSpec struct {
	machine   string
	label     string
	source    diagnostics.ID
	average   bool
	initial   Visibility
	frameTime bool
}

var items = [itemCount]itemSpec{
	Rate:             {"fps_counter", "FPS", diagnostics.FPS, false, Visible, false},
	AverageRate:      {"fps_average", "AVG FPS", diagnostics.FPS, true, Hidden, false},
	FrameTime:        {"fps_frame_time", "FrameTime [ms]", diagnostics.FrameTime, false, Hidden, true},
	AverageFrameTime: {"fps_frame_time_average", "FrameTime AVG [ms]", diagnostics.FrameTime, true, Hidden, true},
}

func (i Item) String() string {
	if i < 0 || i >= itemCount {
		return "unknown"
	}
	return items[i].label
}

// RootZ keeps the overlay above every screen.
const RootZ = 1 << 20

// NotAvailable is shown while a diagnostic has no sample.
const NotAvailable = " N/A"

// Counter owns the overlay entities and their visibility machines.
type Counter struct {
	world   *scene.World
	store   *diagnostics.Store
	log     *zap.Logger
	options Options
	changed bool

	machines [itemCount]*state.Machine[Visibility]
	root     *scene.Node
	values   [itemCount]*scene.Node
}

// New builds the overlay. The options count as changed, so the first visibility
// update brings the machines in line with them.
func New(world *scene.World, store *diagnostics.Store, opts Options, log *zap.Logger) *Counter {
	c := &Counter{
		world:   world,
		store:   store,
		log:     log.Named("fps"),
		options: opts,
		changed: true,
	}
	for i := range items {
		item := Item(i)
		m := state.New(items[i].machine, items[i].initial, world, c.log)
		m.OnEnter(Visible, func() { c.spawnItem(item) })
		m.OnExit(Visible, func() { c.values[item] = nil })
		c.machines[i] = m
	}
	return c
}

// Enter runs the enter hooks of the initial states.
func (c *Counter) Enter() {
	for _, m := range c.machines {
		m.Enter()
	}
}

func (c *Counter) Options() Options {
	return c.options
}

// SetOptions replaces the options and marks them changed.
func (c *Counter) SetOptions(o Options) {
	c.options = o
	c.changed = true
}

// Changed reports whether the options changed since the last visibility update.
func (c *Counter) Changed() bool {
	return c.changed
}

// UpdateVisibility requests, for each line whose option disagrees with its state, the
// matching transition. It does nothing unless the options changed.
func (c *Counter) UpdateVisibility() {
	if !c.changed {
		return
	}
	c.changed = false
	o := c.options
	want := [itemCount]bool{
		Rate:             o.Visible,
		AverageRate:      o.ShowAverage,
		FrameTime:        o.ShowFrameTime,
		AverageFrameTime: o.ShowAverageFrameTime,
	}
	for i, m := range c.machines {
		target := Hidden
		if want[i] {
			target = Visible
		}
		if m.Is(target) {
			continue
		}
		if err := m.Set(target); err != nil {
			c.log.Warn("visibility change rejected", zap.Stringer("item", Item(i)), zap.Error(err))
		}
	}
}

// Apply performs pending visibility transitions, the counter line first. The root
// goes away with the last visible line.
func (c *Counter) Apply() {
	for _, m := range c.machines {
		m.Apply()
	}
	if c.root == nil {
		return
	}
	for _, m := range c.machines {
		if m.Is(Visible) {
			return
		}
	}
	c.world.DespawnScope(c)
	c.root = nil
}

// Machine returns the visibility machine of item.
func (c *Counter) Machine(item Item) *state.Machine[Visibility] {
	return c.machines[item]
}

// Visible reports whether item is shown.
func (c *Counter) Visible(item Item) bool {
	return c.machines[item].Is(Visible)
}

// Root returns the overlay root, nil while no line is shown.
func (c *Counter) Root() *scene.Node {
	return c.root
}

// Value returns the value node of item, nil while it is hidden.
func (c *Counter) Value(item Item) *scene.Node {
	return c.values[item]
}

func (c *Counter) ensureRoot() *scene.Node {
	if c.root != nil {
		if _, ok := c.world.Get(c.root.ID); ok {
			return c.root
		}
	}
	c.root = c.world.Spawn(0, c, scene.Node{
		Kind:       scene.KindPanel,
		Name:       "fps_counter",
		Visible:    true,
		Z:          RootZ,
		Background: tcell.ColorBlack,
	})
	return c.root
}

func (c *Counter) spawnItem(item Item) {
	spec := items[item]
	root := c.ensureRoot()
	node := c.world.Spawn(root.ID, c.machines[item].Scope(Visible), scene.Node{
		Kind:    scene.KindPanel,
		Name:    spec.machine,
		Visible: true,
		Slot:    int(item),
	})
	c.world.Spawn(node.ID, nil, scene.Node{
		Kind:    scene.KindText,
		Text:    spec.label + ":",
		Color:   tcell.ColorWhite,
		Visible: true,
	})
	c.values[item] = c.world.Spawn(node.ID, nil, scene.Node{
		Kind:    scene.KindText,
		Text:    NotAvailable,
		Color:   tcell.ColorWhite,
		Visible: true,
	})
	c.log.Debug("overlay line shown", zap.Stringer("item", item))
}

// Refresh rewrites every visible value from the diagnostics store.
func (c *Counter) Refresh() {
	for i, node := range c.values {
		if node == nil {
			continue
		}
		spec := items[i]
		v, ok := c.sample(spec)
		node.Text, node.Color = Format(v, ok, spec.frameTime)
	}
}

func (c *Counter) sample(spec itemSpec) (float64, bool) {
	d, ok := c.store.Get(spec.source)
	if !ok {
		return 0, false
	}
	if spec.average {
		return d.Average()
	}
	return d.Smoothed()
}

// Format renders a sample. Frame times are coloured by the rate they amount to.
func Format(v float64, ok bool, frameTime bool) (string, tcell.Color) {
	if !ok {
		return NotAvailable, tcell.ColorWhite
	}
	if frameTime {
		rate := 0.0
		if v > 0 {
			rate = 1000 / v
		}
		return fmt.Sprintf("%6.2f", v), Color(rate)
	}
	return fmt.Sprintf("%4.0f", v), Color(v)
}

// Color picks the tier colour of a frame rate.
func Color(fps float64) tcell.Color {
	switch {
	case fps < 29:
		return tcell.ColorRed
	case fps < 59:
		return tcell.ColorYellow
	case fps < 119:
		return tcell.ColorLime
	}
	return tcell.ColorAqua
}
