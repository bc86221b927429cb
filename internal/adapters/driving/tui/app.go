package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/toc"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/logger"
)

const (
	// maxTOCWidth caps the TOC pane; it takes a third of narrower screens.
	maxTOCWidth = 36

	// chromeHeight is the status bar plus the pane borders.
	chromeHeight = 3
)

// Config selects what the app opens.
type Config struct {
	// Key is the text, content and version to read.
	Key domain.SessionKey

	// Anchor is the segment to open at; empty restores the saved position.
	Anchor string

	// Section, when set, is navigated to once the first page is loaded.
	Section string
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	cfg    Config
	styles *styles.Styles
	keymap *keymap.KeyMap

	pane    *reader.Pane
	toc     *toc.View
	status  *status.Bar
	spinner spinner.Model
	help    help.Model

	focus       messages.Focus
	opened      bool
	loadingNext bool
	loadingPrev bool
	navigating  bool
	navSeq      uint64
	showHelp    bool
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, cfg Config) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if cfg.Key.TextID == "" {
		return nil, fmt.Errorf("creating app: %w: text id is required", domain.ErrInvalidInput)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		cfg:     cfg,
		styles:  s,
		keymap:  km,
		pane:    ports.Pane,
		toc:     toc.NewView(s, km, ports.Reader.ToggleExpanded),
		status:  status.NewBar(s, km),
		spinner: sp,
		help:    help.New(),
		focus:   messages.FocusContent,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.status.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("lectern"),
		a.spinner.Tick,
		a.openCmd(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		cmds = append(cmds, a.mount())

	case tea.KeyMsg:
		cmds = append(cmds, a.handleKey(msg))

	case tea.MouseMsg:
		if a.focus == messages.FocusContent {
			var cmd tea.Cmd
			a.pane, cmd = a.pane.Update(msg)
			cmds = append(cmds, cmd, a.maybeFetch())
		}

	case messages.SessionOpened:
		a.opened = true
		a.setErr(msg.Err)
		a.pane.Relayout()
		a.toc.SetTOC(a.ports.Reader.TableOfContents())
		a.status.SetTitle(a.title())
		cmds = append(cmds, a.mount())
		if msg.Err == nil && a.cfg.Section != "" {
			cmds = append(cmds, a.navigate(a.cfg.Section))
		}

	case messages.PageLoaded:
		if msg.Direction == domain.DirectionPrevious {
			a.loadingPrev = false
		} else {
			a.loadingNext = false
		}
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrBoundaryReached) && !errors.Is(msg.Err, domain.ErrFetchInProgress) {
			a.setErr(msg.Err)
		} else {
			a.setErr(nil)
		}
		a.pane.Relayout()

	case messages.NavigateRequested:
		cmds = append(cmds, a.navigate(msg.ID))

	case messages.NavigationDone:
		a.pane.Relayout()
		if msg.Seq == a.navSeq {
			a.navigating = false
			a.reportNavigation(msg)
		}

	case messages.ErrorOccurred:
		a.setErr(msg.Err)

	case messages.TreeChanged, messages.ActiveChanged:
		// Redraw only.

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.sync()
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		a.ports.Reader.Close()
		return tea.Quit
	case keymap.Matches(k, a.keymap.Focus):
		if a.focus == messages.FocusContent {
			a.focus = messages.FocusTOC
			a.toc.SelectByID(a.ports.Reader.Active())
		} else {
			a.focus = messages.FocusContent
		}
		return nil
	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return nil
	}

	if a.focus == messages.FocusTOC {
		var cmd tea.Cmd
		a.toc, cmd = a.toc.Update(msg)
		return cmd
	}

	switch {
	case keymap.Matches(k, a.keymap.NextPage):
		return a.fetch(domain.DirectionNext)
	case keymap.Matches(k, a.keymap.PreviousPage):
		return a.fetch(domain.DirectionPrevious)
	}
	var cmd tea.Cmd
	a.pane, cmd = a.pane.Update(msg)
	return tea.Batch(cmd, a.maybeFetch())
}

// maybeFetch loads more content when the reader scrolls to an edge.
func (a *App) maybeFetch() tea.Cmd {
	if !a.opened || a.navigating {
		return nil
	}
	if a.pane.AtBottom() && a.ports.Reader.HasNext() {
		return a.fetch(domain.DirectionNext)
	}
	if a.pane.AtTop() && a.ports.Reader.HasPrevious() {
		return a.fetch(domain.DirectionPrevious)
	}
	return nil
}

// mount starts active-section tracking once content and size are known.
func (a *App) mount() tea.Cmd {
	if a.opened && a.pane.Ready() {
		a.ports.Reader.Mount()
		return a.maybeFetch()
	}
	return nil
}

func (a *App) openCmd() tea.Cmd {
	r, ctx, cfg := a.ports.Reader, a.ctx, a.cfg
	return func() tea.Msg {
		return messages.SessionOpened{Err: r.Open(ctx, cfg.Key, cfg.Anchor)}
	}
}

func (a *App) fetch(dir domain.Direction) tea.Cmd {
	r, ctx := a.ports.Reader, a.ctx
	if dir == domain.DirectionPrevious {
		if a.loadingPrev || !r.HasPrevious() {
			return nil
		}
		a.loadingPrev = true
		return func() tea.Msg {
			return messages.PageLoaded{Direction: dir, Err: r.FetchPrevious(ctx)}
		}
	}
	if a.loadingNext || !r.HasNext() {
		return nil
	}
	a.loadingNext = true
	return func() tea.Msg {
		return messages.PageLoaded{Direction: dir, Err: r.FetchNext(ctx)}
	}
}

func (a *App) navigate(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	a.navigating = true
	a.navSeq++
	seq, r, ctx := a.navSeq, a.ports.Reader, a.ctx
	target := domain.NavigationTarget{ID: id, Options: domain.DefaultNavigationOptions()}
	return func() tea.Msg {
		res, err := r.Navigate(ctx, target)
		return messages.NavigationDone{Seq: seq, Result: res, Err: err}
	}
}

func (a *App) reportNavigation(msg messages.NavigationDone) {
	switch {
	case errors.Is(msg.Err, domain.ErrNavigationSuperseded):
		// A newer navigation owns the status line.
	case msg.Err != nil:
		a.setErr(msg.Err)
	case msg.Result.Err != nil:
		a.setErr(nil)
		a.status.SetMessage(fmt.Sprintf("%q is not in this text", msg.Result.TargetID))
	default:
		a.setErr(nil)
		a.status.SetMessage("")
		logger.Debug("navigated to %s via %s (%d pages)", msg.Result.TargetID, msg.Result.Path, msg.Result.PagesLoaded)
	}
}

func (a *App) setErr(err error) {
	a.err = err
	if err != nil {
		a.status.SetMessage(err.Error())
	}
}

// sync copies session state into the passive components.
func (a *App) sync() {
	a.toc.SetExpanded(a.ports.Reader.Expanded())
	a.toc.SetActive(a.ports.Reader.Active())
	a.status.SetFocus(a.focus)
	a.status.SetSpinner(a.spinner.View())
	if a.opened {
		a.status.SetPosition(fmt.Sprintf("%3.f%%", a.pane.ScrollPercent()*100))
	}

	switch {
	case a.err != nil:
		a.status.SetState(status.StateError)
	case a.navigating:
		a.status.SetState(status.StateNavigating)
	case !a.opened || a.loadingNext || a.loadingPrev:
		a.status.SetState(status.StateLoading)
	default:
		a.status.SetState(status.StateReady)
	}
}

func (a *App) title() string {
	detail := a.ports.Reader.TextDetail()
	if detail.Title != "" {
		return detail.Title
	}
	return a.cfg.Key.TextID
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	tocBox, contentBox := a.styles.Border, a.styles.FocusedBorder
	if a.focus == messages.FocusTOC {
		tocBox, contentBox = a.styles.FocusedBorder, a.styles.Border
	}
	tocW, contentW, paneH := a.paneSizes()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		tocBox.Width(tocW).Height(paneH).Render(a.toc.View()),
		contentBox.Width(contentW).Height(paneH).Render(a.pane.View()),
	)
	out := lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
	if a.showHelp {
		out = lipgloss.JoinVertical(lipgloss.Left, out, a.help.View(a.keymap))
	}
	return out
}

// paneSizes returns the inner TOC width, content width and pane height.
func (a *App) paneSizes() (tocW, contentW, paneH int) {
	tocW = min(maxTOCWidth, a.width/3)
	contentW = max(a.width-tocW-4, 1)
	paneH = max(a.height-chromeHeight, 1)
	return tocW, contentW, paneH
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(a.ctx))
	a.pane.SetSender(p.Send)
	// Change callbacks may run inside Update, where a blocking Send would deadlock.
	a.ports.Reader.OnActiveChange(func(id string) { go p.Send(messages.ActiveChanged{ID: id}) })
	_, err := p.Run()
	a.ports.Reader.OnActiveChange(nil)
	a.pane.SetSender(nil)
	return err
}

// Focus returns the pane receiving key input.
func (a *App) Focus() messages.Focus {
	return a.focus
}

// Opened reports whether the first load finished.
func (a *App) Opened() bool {
	return a.opened
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes the panes.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	tocW, contentW, paneH := a.paneSizes()
	a.toc.SetDimensions(tocW, paneH)
	a.pane.SetDimensions(contentW, paneH)
	a.status.SetWidth(width)
	a.help.Width = width
}
