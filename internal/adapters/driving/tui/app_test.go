package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
)

// fakeReader is a scripted driving.Reader.
type fakeReader struct {
	mu sync.Mutex

	sections []domain.Section
	toc      *domain.TableOfContents
	expanded map[string]bool
	active   string
	hasNext  bool
	hasPrev  bool

	openErr  error
	fetchErr error
	navErr   error

	opened    []domain.SessionKey
	anchors   []string
	nextCalls int
	prevCalls int
	mounts    int
	closed    bool
	targets   []domain.NavigationTarget
	onActive  func(id string)
}

var _ driving.Reader = (*fakeReader)(nil)

func newFakeReader() *fakeReader {
	return &fakeReader{
		sections: []domain.Section{{
			ID: "c1", Title: "One",
			Segments: []domain.Segment{{ID: "seg1", Ordinal: 1, Content: "alpha"}},
		}},
		expanded: map[string]bool{},
	}
}

func (f *fakeReader) ID() string { return "fake" }

func (f *fakeReader) Key() domain.SessionKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opened) == 0 {
		return domain.SessionKey{}
	}
	return f.opened[len(f.opened)-1]
}

func (f *fakeReader) Open(_ context.Context, key domain.SessionKey, anchor string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, key)
	f.anchors = append(f.anchors, anchor)
	return f.openErr
}

func (f *fakeReader) FetchNext(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCalls++
	return f.fetchErr
}

func (f *fakeReader) FetchPrevious(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prevCalls++
	return f.fetchErr
}

func (f *fakeReader) HasNext() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasNext
}

func (f *fakeReader) HasPrevious() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasPrev
}

func (f *fakeReader) Sections() []domain.Section {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneSections(f.sections)
}

func (f *fakeReader) TextDetail() domain.TextDetail {
	return domain.TextDetail{ID: "t1", Title: "The Text"}
}

func (f *fakeReader) TableOfContents() *domain.TableOfContents { return f.toc }

func (f *fakeReader) Navigate(_ context.Context, target domain.NavigationTarget) (domain.NavigationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	if f.navErr != nil {
		return domain.NavigationResult{TargetID: target.ID}, f.navErr
	}
	return domain.NavigationResult{TargetID: target.ID, Found: true}, nil
}

func (f *fakeReader) Active() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeReader) Expanded() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.expanded))
	for k, v := range f.expanded {
		out[k] = v
	}
	return out
}

func (f *fakeReader) ToggleExpanded(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expanded[id] = !f.expanded[id]
	return f.expanded[id]
}

func (f *fakeReader) OnActiveChange(fn func(id string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onActive = fn
}

func (f *fakeReader) Mount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mounts++
}

func (f *fakeReader) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newTestApp(t *testing.T, cfg Config) (*App, *fakeReader) {
	t.Helper()
	r := newFakeReader()
	pane := reader.NewPane(nil, domain.LayoutSegmented)
	pane.Bind(r)
	if cfg.Key.TextID == "" {
		cfg.Key = domain.SessionKey{TextID: "t1"}
	}
	app, err := NewApp(NewPorts(r, pane), cfg)
	require.NoError(t, err)
	return app, r
}

// run executes cmd and returns the messages it produced, flattening batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func send(a *App, msg tea.Msg) []tea.Msg {
	_, cmd := a.Update(msg)
	return run(cmd)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// openApp sizes the app and delivers the first SessionOpened.
func openApp(t *testing.T, a *App) {
	t.Helper()
	send(a, tea.WindowSizeMsg{Width: 100, Height: 30})
	msgs := run(a.openCmd())
	require.Len(t, msgs, 1)
	send(a, msgs[0])
}

func TestNewApp_Validation(t *testing.T) {
	_, err := NewApp(nil, Config{Key: domain.SessionKey{TextID: "t1"}})
	assert.ErrorIs(t, err, ErrInvalidPorts)

	pane := reader.NewPane(nil, domain.LayoutSegmented)
	_, err = NewApp(NewPorts(newFakeReader(), pane), Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApp_InitLoads(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	assert.NotNil(t, app.Init())
	assert.Equal(t, "Loading...", app.View())
	assert.False(t, app.Ready())
}

func TestApp_OpenPassesKeyAndAnchor(t *testing.T) {
	key := domain.SessionKey{TextID: "t1", ContentID: "c1"}
	app, r := newTestApp(t, Config{Key: key, Anchor: "seg9"})

	msgs := run(app.openCmd())

	require.Len(t, msgs, 1)
	assert.Equal(t, messages.SessionOpened{}, msgs[0])
	assert.Equal(t, []domain.SessionKey{key}, r.opened)
	assert.Equal(t, []string{"seg9"}, r.anchors)
}

func TestApp_MountsOnceSizedAndOpened(t *testing.T) {
	app, r := newTestApp(t, Config{})

	send(app, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Zero(t, r.mounts, "not mounted before the session opens")
	assert.True(t, app.Ready())

	send(app, messages.SessionOpened{})
	assert.Equal(t, 1, r.mounts)
	assert.True(t, app.Opened())
	assert.Contains(t, app.View(), "alpha")
	assert.Contains(t, app.View(), "The Text")
}

func TestApp_OpenError(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	send(app, tea.WindowSizeMsg{Width: 100, Height: 30})

	send(app, messages.SessionOpened{Err: domain.ErrNetwork})

	assert.ErrorIs(t, app.Err(), domain.ErrNetwork)
	assert.Equal(t, status.StateError, app.status.State())
}

func TestApp_SectionNavigatesAfterOpen(t *testing.T) {
	app, r := newTestApp(t, Config{Section: "c7"})
	send(app, tea.WindowSizeMsg{Width: 100, Height: 30})

	msgs := send(app, messages.SessionOpened{})

	require.Len(t, r.targets, 1)
	assert.Equal(t, "c7", r.targets[0].ID)
	assert.True(t, r.targets[0].Options.PersistInURL)
	assert.Contains(t, msgs, tea.Msg(messages.NavigationDone{Seq: 1, Result: domain.NavigationResult{TargetID: "c7", Found: true}}))
}

func TestApp_EdgeFetchesNextPage(t *testing.T) {
	app, r := newTestApp(t, Config{})
	r.hasNext = true
	send(app, tea.WindowSizeMsg{Width: 100, Height: 30})

	// Content shorter than the pane sits at the bottom as soon as it mounts.
	msgs := send(app, messages.SessionOpened{})

	assert.Equal(t, 1, r.nextCalls)
	assert.Contains(t, msgs, tea.Msg(messages.PageLoaded{Direction: domain.DirectionNext}))
}

func TestApp_ExplicitPageKeys(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)
	r.hasNext, r.hasPrev = true, true

	msgs := send(app, keyRunes("n"))
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, r.nextCalls)
	assert.Equal(t, status.StateLoading, app.status.State())

	// A second request waits for the first to land.
	assert.Empty(t, send(app, keyRunes("n")))
	assert.Equal(t, 1, r.nextCalls)

	send(app, msgs[0])
	assert.Equal(t, status.StateReady, app.status.State())

	send(app, keyRunes("p"))
	assert.Equal(t, 1, r.prevCalls)
}

func TestApp_BoundaryErrorsAreQuiet(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	openApp(t, app)

	send(app, messages.PageLoaded{Direction: domain.DirectionNext, Err: domain.ErrBoundaryReached})
	assert.NoError(t, app.Err())

	send(app, messages.PageLoaded{Direction: domain.DirectionNext, Err: domain.ErrFetchInProgress})
	assert.NoError(t, app.Err())

	send(app, messages.PageLoaded{Direction: domain.DirectionNext, Err: domain.ErrNetwork})
	assert.ErrorIs(t, app.Err(), domain.ErrNetwork)
}

func TestApp_FocusSwitching(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)
	r.hasNext = true
	assert.Equal(t, messages.FocusContent, app.Focus())

	send(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.FocusTOC, app.Focus())

	// Page keys belong to the content pane.
	send(app, keyRunes("n"))
	assert.Zero(t, r.nextCalls)

	send(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.FocusContent, app.Focus())
}

func TestApp_NavigationResult(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)

	msgs := send(app, messages.NavigateRequested{ID: "seg1"})
	assert.Equal(t, status.StateNavigating, app.status.State())
	require.Len(t, msgs, 1)

	send(app, msgs[0])
	assert.Equal(t, status.StateReady, app.status.State())
	require.Len(t, r.targets, 1)

	send(app, messages.NavigationDone{Seq: 1, Result: domain.NavigationResult{TargetID: "nope", Err: domain.ErrNavigationUnreachable}})
	assert.NoError(t, app.Err())
	assert.Contains(t, app.status.Message(), "nope")

	send(app, messages.NavigationDone{Seq: 1, Err: domain.ErrNavigationSuperseded})
	assert.NoError(t, app.Err())

	boom := errors.New("boom")
	send(app, messages.NavigationDone{Seq: 1, Err: boom})
	assert.ErrorIs(t, app.Err(), boom)
}

func TestApp_StaleNavigationKeepsNavigating(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)
	r.hasNext = true

	first := send(app, messages.NavigateRequested{ID: "c2"})
	second := send(app, messages.NavigateRequested{ID: "c3"})
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	send(app, messages.NavigationDone{Seq: 1, Err: domain.ErrNavigationSuperseded})
	assert.Equal(t, status.StateNavigating, app.status.State(), "the newer navigation is still running")

	// Scroll-driven fetching stays off while it runs.
	send(app, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Zero(t, r.nextCalls)

	send(app, second[0])
	assert.Equal(t, status.StateReady, app.status.State())
	assert.NoError(t, app.Err())
}

func TestApp_ActiveChangedSyncsTOC(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)

	r.mu.Lock()
	r.active = "seg1"
	r.mu.Unlock()
	send(app, messages.ActiveChanged{ID: "seg1"})

	assert.Equal(t, "seg1", app.toc.Active())
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	openApp(t, app)
	before := app.View()

	send(app, keyRunes("?"))

	assert.NotEqual(t, before, app.View())
	assert.Contains(t, app.View(), "quit")
}

func TestApp_Quit(t *testing.T) {
	app, r := newTestApp(t, Config{})
	openApp(t, app)

	msgs := send(app, keyRunes("q"))

	assert.True(t, r.closed)
	assert.Contains(t, msgs, tea.Msg(tea.QuitMsg{}))
}

func TestApp_SetDimensions(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	app.SetDimensions(120, 40)

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.status.Width())
	tocW, contentW, paneH := app.paneSizes()
	assert.Equal(t, maxTOCWidth, tocW)
	assert.Equal(t, 120-maxTOCWidth-4, contentW)
	assert.Equal(t, 40-chromeHeight, paneH)
}
