package navigation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/browser/browsertest"
	"github.com/v2v-test/integration-tests/internal/view"
	"github.com/v2v-test/integration-tests/internal/wait"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type server struct{}

func (server) NavKind() string { return "Server" }

type collection struct{ srv server }

func (collection) NavKind() string { return "Collection" }

type entity struct{ parent collection }

func (entity) NavKind() string { return "Entity" }

type pageView struct {
	b   browser.Driver
	loc browser.Locator
}

func (v pageView) IsDisplayed(ctx context.Context) (bool, error) { return v.b.Visible(ctx, v.loc) }

var (
	loginLoc   = browser.XPath("//login-done")
	allLoc     = browser.XPath("//all")
	addLoc     = browser.XPath("//add")
	detailsLoc = browser.XPath("//details")
)

// page renders a view at loc; show makes the transition put loc on screen.
func page(loc browser.Locator) func(browser.Driver, Destination) view.View {
	return func(b browser.Driver, _ Destination) view.View { return pageView{b: b, loc: loc} }
}

func show(drv *browsertest.Driver, trail *[]string, name string, locs ...browser.Locator) func(context.Context, Input) error {
	return func(context.Context, Input) error {
		*trail = append(*trail, name)
		for _, l := range locs {
			drv.Show(l, name)
		}
		for _, other := range []browser.Locator{loginLoc, allLoc, addLoc, detailsLoc} {
			keep := false
			for _, l := range locs {
				keep = keep || l == other
			}
			if !keep {
				drv.Hide(other)
			}
		}
		return nil
	}
}

func newGraph(t *testing.T) (*Graph, *browsertest.Driver, *[]string) {
	t.Helper()
	drv := browsertest.New()
	g := New(drv, zaptest.NewLogger(t), Options{Timeout: 50 * time.Millisecond, Delay: 5 * time.Millisecond})
	trail := &[]string{}

	g.MustRegister("Server", "LoggedIn", Step{
		View: page(loginLoc),
		Do:   show(drv, trail, "login", loginLoc),
	})
	g.MustRegister("Collection", "All", Step{
		Prerequisite: Attribute("LoggedIn", func(d Destination) (Destination, error) {
			return d.(collection).srv, nil
		}),
		View: page(allLoc),
		Do:   show(drv, trail, "all", loginLoc, allLoc),
	})
	g.MustRegister("Collection", "Add", Step{
		Prerequisite: Sibling("All"),
		View:         page(addLoc),
		Do:           show(drv, trail, "add", loginLoc, addLoc),
	})
	g.MustRegister("Entity", "Details", Step{
		Prerequisite: Attribute("All", func(d Destination) (Destination, error) {
			return d.(entity).parent, nil
		}),
		View: page(detailsLoc),
		Do:   show(drv, trail, "details", loginLoc, detailsLoc),
	})
	return g, drv, trail
}

func TestNavigateTo_FromScratch(t *testing.T) {
	g, _, trail := newGraph(t)

	v, err := g.NavigateTo(context.Background(), collection{}, "Add")
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "all", "add"}, *trail)

	ok, err := v.IsDisplayed(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNavigateTo_SkipsToNearestDisplayed(t *testing.T) {
	g, drv, trail := newGraph(t)
	drv.Show(loginLoc, "")
	drv.Show(allLoc, "")

	_, err := g.NavigateTo(context.Background(), collection{}, "Add")
	require.NoError(t, err)
	assert.Equal(t, []string{"add"}, *trail, "steps up to the displayed one are skipped")
}

func TestNavigateTo_AlreadyThereRunsOnlyReset(t *testing.T) {
	g, drv, trail := newGraph(t)
	resets := 0
	require.NoError(t, g.Register("Collection", "Dashboard", Step{
		Prerequisite: Sibling("All"),
		View:         page(allLoc),
		Reset: func(_ context.Context, in Input) error {
			resets++
			assert.NotNil(t, in.View)
			return in.Browser.Refresh(context.Background())
		},
	}))
	drv.Show(loginLoc, "")
	drv.Show(allLoc, "")

	_, err := g.NavigateTo(context.Background(), collection{}, "Dashboard")
	require.NoError(t, err)
	assert.Empty(t, *trail)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 1, drv.Refreshes())
}

func TestNavigateTo_AttributePrerequisite(t *testing.T) {
	g, _, trail := newGraph(t)

	_, err := g.NavigateTo(context.Background(), entity{}, "Details")
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "all", "details"}, *trail)
}

func TestNavigateTo_StepViewNeverDisplays(t *testing.T) {
	g, drv, trail := newGraph(t)
	require.NoError(t, g.Register("Collection", "Broken", Step{
		Prerequisite: Sibling("All"),
		View:         page(browser.XPath("//never")),
		Do:           show(drv, trail, "broken", loginLoc),
	}))

	_, err := g.NavigateTo(context.Background(), collection{}, "Broken")
	var sf *StepFailedError
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "Collection", sf.Kind)
	assert.Equal(t, "Broken", sf.Step)
	assert.True(t, wait.IsTimeout(err))
	assert.Equal(t, []string{"login", "all", "broken"}, *trail)
}

func TestNavigateTo_TransitionErrorStopsWalk(t *testing.T) {
	drv := browsertest.New()
	g := New(drv, nil, Options{Timeout: 20 * time.Millisecond, Delay: time.Millisecond})
	boom := errors.New("menu missing")
	g.MustRegister("Server", "LoggedIn", Step{
		View: page(loginLoc),
		Do:   func(context.Context, Input) error { return boom },
	})
	reached := false
	g.MustRegister("Collection", "All", Step{
		Prerequisite: Attribute("LoggedIn", func(Destination) (Destination, error) { return server{}, nil }),
		View:         page(allLoc),
		Do:           func(context.Context, Input) error { reached = true; return nil },
	})

	_, err := g.NavigateTo(context.Background(), collection{}, "All")
	var sf *StepFailedError
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "LoggedIn", sf.Step)
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestNavigateTo_PrevViewIsPrerequisite(t *testing.T) {
	g, drv, trail := newGraph(t)
	var prev view.View
	require.NoError(t, g.Register("Collection", "Edit", Step{
		Prerequisite: Sibling("Add"),
		View:         page(detailsLoc),
		Do: func(_ context.Context, in Input) error {
			prev = in.Prev
			drv.Show(detailsLoc, "edit")
			return nil
		},
	}))

	_, err := g.NavigateTo(context.Background(), collection{}, "Edit")
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "all", "add"}, *trail)
	assert.Equal(t, pageView{b: drv, loc: addLoc}, prev)
}

func TestCycleDetected(t *testing.T) {
	g := New(browsertest.New(), nil, Options{})
	g.MustRegister("A", "One", Step{Prerequisite: Sibling("Two"), View: page(allLoc)})
	g.MustRegister("A", "Two", Step{Prerequisite: Sibling("Three"), View: page(allLoc)})
	g.MustRegister("A", "Three", Step{Prerequisite: Sibling("One"), View: page(allLoc)})

	_, err := g.NavigateTo(context.Background(), kind("A"), "One")
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []Key{{"A", "One"}, {"A", "Two"}, {"A", "Three"}, {"A", "One"}}, ce.Chain)
	assert.Contains(t, err.Error(), "A/One -> A/Two -> A/Three -> A/One")
}

type kind string

func (k kind) NavKind() string { return string(k) }

func TestUnknownStep_Suggestions(t *testing.T) {
	g, _, _ := newGraph(t)

	_, err := g.NavigateTo(context.Background(), collection{}, "Ad")
	var us *UnknownStepError
	require.ErrorAs(t, err, &us)
	assert.Equal(t, []string{"Add", "All"}, us.Suggestions)
	assert.Contains(t, err.Error(), "did you mean Add, All?")

	_, err = g.NavigateTo(context.Background(), kind("Colection"), "All")
	require.ErrorAs(t, err, &us)
	assert.Equal(t, []string{"Collection"}, us.Suggestions)

	_, err = g.NavigateTo(context.Background(), collection{}, "Zzzzzzzzzz")
	require.ErrorAs(t, err, &us)
	assert.Empty(t, us.Suggestions)
}

func TestUnknownPrerequisite(t *testing.T) {
	g := New(browsertest.New(), nil, Options{})
	g.MustRegister("A", "Leaf", Step{Prerequisite: Sibling("Missing"), View: page(allLoc)})

	_, err := g.Path(kind("A"), "Leaf")
	var us *UnknownStepError
	require.ErrorAs(t, err, &us)
	assert.Equal(t, "Missing", us.Name)
}

func TestRegister(t *testing.T) {
	g := New(browsertest.New(), nil, Options{})
	require.NoError(t, g.Register("A", "One", Step{View: page(allLoc)}))
	assert.Error(t, g.Register("A", "One", Step{View: page(allLoc)}), "duplicate")
	assert.Error(t, g.Register("A", "Two", Step{}), "missing view")
	assert.Error(t, g.Register("", "Two", Step{View: page(allLoc)}))
	assert.Panics(t, func() { g.MustRegister("A", "One", Step{View: page(allLoc)}) })
}

func TestStepsAndPath(t *testing.T) {
	g, _, _ := newGraph(t)
	assert.Equal(t, []Key{
		{"Collection", "Add"}, {"Collection", "All"}, {"Entity", "Details"}, {"Server", "LoggedIn"},
	}, g.Steps())

	path, err := g.Path(entity{}, "Details")
	require.NoError(t, err)
	assert.Equal(t, []Key{{"Server", "LoggedIn"}, {"Collection", "All"}, {"Entity", "Details"}}, path)
}

func TestTo_TypedView(t *testing.T) {
	g, _, _ := newGraph(t)

	v, err := To[pageView](context.Background(), g, collection{}, "All")
	require.NoError(t, err)
	assert.Equal(t, allLoc, v.loc)

	_, err = To[view.Func](context.Background(), g, collection{}, "All")
	assert.Error(t, err)
}

func TestResolveError(t *testing.T) {
	g := New(browsertest.New(), nil, Options{})
	g.MustRegister("Root", "R", Step{View: page(allLoc)})
	g.MustRegister("A", "Leaf", Step{
		Prerequisite: Attribute("R", func(Destination) (Destination, error) { return nil, errors.New("no parent") }),
		View:         page(allLoc),
	})
	_, err := g.Path(kind("A"), "Leaf")
	assert.ErrorContains(t, err, "no parent")
}
