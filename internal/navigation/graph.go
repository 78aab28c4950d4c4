// Package navigation resolves named destinations in the console. Every
// destination kind registers steps; each step names its prerequisite, the
// transition that reaches it and the view that proves it was reached. The
// graph walks prerequisites back to the nearest state already on screen and
// replays the transitions from there.
package navigation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/wait"
)

// Destination is anything steps can be registered for: a collection, an
// entity, the server itself.
type Destination interface {
	NavKind() string
}

// Key identifies a step.
type Key struct {
	Kind string
	Name string
}

func (k Key) String() string { return k.Kind + "/" + k.Name }

// Prerequisite names the step that must be reached first. Resolve maps the
// current destination to the one owning that step; nil means the same one.
type Prerequisite struct {
	Name    string
	Resolve func(d Destination) (Destination, error)
}

// Sibling is a prerequisite step on the same destination.
func Sibling(name string) *Prerequisite {
	return &Prerequisite{Name: name}
}

// Attribute is a prerequisite step on a destination related to the current one.
func Attribute(name string, resolve func(d Destination) (Destination, error)) *Prerequisite {
	return &Prerequisite{Name: name, Resolve: resolve}
}

// Input is what a step's transition gets to work with.
type Input struct {
	Browser     browser.Driver
	Destination Destination
	// Prev is the prerequisite's view, nil for root steps.
	Prev view.View
	View view.View
}

// Step is one registered transition.
type Step struct {
	// Prerequisite is nil for a root step.
	Prerequisite *Prerequisite
	// View builds the view proving the step was reached.
	View func(b browser.Driver, d Destination) view.View
	Do   func(ctx context.Context, in Input) error
	// Reset runs when the step ends a walk, whether or not it was executed.
	Reset func(ctx context.Context, in Input) error
}

// Options bounds the wait after each transition.
type Options struct {
	Timeout time.Duration
	Delay   time.Duration
}

// Graph holds the registered steps and the browser they drive.
type Graph struct {
	b    browser.Driver
	log  *zap.Logger
	opts Options

	mu    sync.RWMutex
	steps map[Key]Step
}

// New creates an empty graph driving b.
func New(b browser.Driver, logger *zap.Logger, opts Options) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	return &Graph{b: b, log: logger, opts: opts, steps: make(map[Key]Step)}
}

// Browser returns the driver the graph navigates with.
func (g *Graph) Browser() browser.Driver { return g.b }

// Register adds a step for kind. Registering the same step twice is an error.
func (g *Graph) Register(kind, name string, s Step) error {
	if kind == "" || name == "" {
		return fmt.Errorf("register step: kind and name are required")
	}
	if s.View == nil {
		return fmt.Errorf("register step %s/%s: view is required", kind, name)
	}
	key := Key{Kind: kind, Name: name}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.steps[key]; exists {
		return fmt.Errorf("step %s already registered", key)
	}
	g.steps[key] = s
	return nil
}

// MustRegister is Register for wiring code where a duplicate is a programming error.
func (g *Graph) MustRegister(kind, name string, s Step) {
	if err := g.Register(kind, name, s); err != nil {
		panic(err)
	}
}

// Steps lists the registered steps sorted by kind then name.
func (g *Graph) Steps() []Key {
	g.mu.RLock()
	keys := make([]Key, 0, len(g.steps))
	for k := range g.steps {
		keys = append(keys, k)
	}
	g.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// hop is one step of a resolved chain, bound to its destination.
type hop struct {
	key  Key
	dest Destination
	step Step
}

func (h hop) view(b browser.Driver) view.View { return h.step.View(b, h.dest) }

// chain resolves name on d into the list of steps from the root to the target.
func (g *Graph) chain(d Destination, name string) ([]hop, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var hops []hop
	seen := make(map[Key]bool)
	for {
		key := Key{Kind: d.NavKind(), Name: name}
		if seen[key] {
			cycle := make([]Key, 0, len(hops)+1)
			for _, h := range hops {
				cycle = append(cycle, h.key)
			}
			return nil, &CycleError{Chain: append(cycle, key)}
		}
		seen[key] = true

		step, ok := g.steps[key]
		if !ok {
			return nil, g.unknown(key)
		}
		hops = append(hops, hop{key: key, dest: d, step: step})

		pre := step.Prerequisite
		if pre == nil {
			break
		}
		if pre.Resolve != nil {
			next, err := pre.Resolve(d)
			if err != nil {
				return nil, fmt.Errorf("resolve prerequisite of %s: %w", key, err)
			}
			if next == nil {
				return nil, fmt.Errorf("resolve prerequisite of %s: no destination", key)
			}
			d = next
		}
		name = pre.Name
	}

	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return hops, nil
}

// Path returns the declared route to name on d, root first, without touching the browser.
func (g *Graph) Path(d Destination, name string) ([]Key, error) {
	hops, err := g.chain(d, name)
	if err != nil {
		return nil, err
	}
	keys := make([]Key, len(hops))
	for i, h := range hops {
		keys[i] = h.key
	}
	return keys, nil
}

// NavigateTo reaches step name of d and returns its view. Steps up to the
// nearest one already displayed are skipped; every step executed after that
// must display its view within the configured timeout.
func (g *Graph) NavigateTo(ctx context.Context, d Destination, name string) (view.View, error) {
	hops, err := g.chain(d, name)
	if err != nil {
		return nil, err
	}
	target := hops[len(hops)-1].key
	log := g.log.With(zap.String("target", target.String()))

	start := 0
	for i := len(hops) - 1; i >= 0; i-- {
		here, err := hops[i].view(g.b).IsDisplayed(ctx)
		if err != nil {
			return nil, fmt.Errorf("check %s displayed: %w", hops[i].key, err)
		}
		if here {
			start = i + 1
			log.Debug("already at step", zap.String("step", hops[i].key.String()))
			break
		}
	}

	for i := start; i < len(hops); i++ {
		h := hops[i]
		in := Input{Browser: g.b, Destination: h.dest, View: h.view(g.b)}
		if i > 0 {
			in.Prev = hops[i-1].view(g.b)
		}
		if err := g.run(ctx, h, in); err != nil {
			log.Warn("navigation failed", zap.String("step", h.key.String()), zap.Error(err))
			return nil, err
		}
	}

	last := hops[len(hops)-1]
	v := last.view(g.b)
	if last.step.Reset != nil {
		in := Input{Browser: g.b, Destination: last.dest, View: v}
		if len(hops) > 1 {
			in.Prev = hops[len(hops)-2].view(g.b)
		}
		if err := last.step.Reset(ctx, in); err != nil {
			return nil, fmt.Errorf("reset %s: %w", last.key, err)
		}
	}
	log.Info("navigated", zap.Int("steps", len(hops)-start))
	return v, nil
}

func (g *Graph) run(ctx context.Context, h hop, in Input) error {
	g.log.Debug("navigation step", zap.String("step", h.key.String()))
	if h.step.Do != nil {
		if err := h.step.Do(ctx, in); err != nil {
			return &StepFailedError{Kind: h.key.Kind, Step: h.key.Name, Err: err}
		}
	}
	err := wait.For(ctx, in.View.IsDisplayed, wait.Options{
		Timeout: g.opts.Timeout,
		Delay:   g.opts.Delay,
		Message: fmt.Sprintf("%s view to display", h.key),
	})
	if err != nil {
		return &StepFailedError{Kind: h.key.Kind, Step: h.key.Name, Err: err}
	}
	return nil
}

// To navigates like NavigateTo and asserts the concrete view type.
func To[V view.View](ctx context.Context, g *Graph, d Destination, name string) (V, error) {
	var zero V
	v, err := g.NavigateTo(ctx, d, name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(V)
	if !ok {
		return zero, fmt.Errorf("step %s/%s produced %T, not %T", d.NavKind(), name, v, zero)
	}
	return typed, nil
}
