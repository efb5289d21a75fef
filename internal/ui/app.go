package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/blockmap"
	"github.com/samuli/blockdive/internal/core"
	"github.com/samuli/blockdive/internal/logging"
	"github.com/samuli/blockdive/internal/model"
	"github.com/samuli/blockdive/internal/stats"
)

// ViewMode selects between the zoomable map and the paginated list
type ViewMode int

const (
	ViewMap ViewMode = iota
	ViewList
)

// autoListThreshold is the block count above which the list view is
// chosen automatically. The map stays navigable well past this, but a
// page of fixed-size blocks reads better than sub-cell rectangles.
const autoListThreshold = 50000

// inputMode identifies what the shared input bar is capturing
type inputMode int

const (
	inputNone inputMode = iota
	inputCommand
	inputSearch
	inputPage
)

// controllerEventMsg wraps a controller event for the update loop
type controllerEventMsg struct {
	ev core.Event
}

// filePanelWidth is the width of the file selector side panel
const filePanelWidth = 34

// App is the main application model
type App struct {
	// Components
	header      Header
	mapPanel    MapPanel
	listPanel   ListPanel
	filePanel   FilePanel
	usage       UsagePanel
	detail      DetailOverlay
	strategySel StrategySelector
	help        HelpOverlay

	// State
	keys         KeyMap
	controller   *core.Controller
	statsManager *stats.Manager

	// Data
	snap     core.Snapshot
	resolver *blockmap.Resolver

	// UI state
	viewMode   ViewMode
	viewForced bool // user toggled the view explicitly
	showFiles  bool
	input      textinput.Model
	mode       inputMode
	search     string
	message    string
	err        error

	// Multi-line command output, shown as an overlay
	output        string
	outputVisible bool

	// Dimensions
	width  int
	height int
}

// NewApp creates a new application instance over a controller
func NewApp(controller *core.Controller, statsMgr *stats.Manager) App {
	input := textinput.New()
	input.CharLimit = 256

	app := App{
		header:       NewHeader(),
		mapPanel:     NewMapPanel(),
		listPanel:    NewListPanel(),
		filePanel:    NewFilePanel(),
		usage:        NewUsagePanel(),
		detail:       NewDetailOverlay(),
		strategySel:  NewStrategySelector(),
		help:         NewHelpOverlay(),
		keys:         DefaultKeyMap(),
		controller:   controller,
		statsManager: statsMgr,
		input:        input,
		showFiles:    true,
	}
	app.mapPanel.SetFocused(true)
	return app
}

// SetStrategyDisplay primes the header before the first snapshot
func (a *App) SetStrategyDisplay(t model.AllocationType) {
	a.header.SetStrategy(t)
	a.strategySel.SetCurrent(t)
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("BLOCKDIVE"),
		a.refreshCmd(),
	)
}

// refreshCmd starts a refresh; stale responses are dropped by the
// controller's generation check
func (a App) refreshCmd() tea.Cmd {
	gen := a.controller.BeginRefresh()
	return func() tea.Msg {
		return controllerEventMsg{ev: a.controller.Refresh(context.Background(), gen)}
	}
}

func (a App) selectFileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return controllerEventMsg{ev: a.controller.SelectFile(context.Background(), name)}
	}
}

func (a App) setStrategyCmd(t model.AllocationType) tea.Cmd {
	return func() tea.Msg {
		return controllerEventMsg{ev: a.controller.SetStrategy(context.Background(), t)}
	}
}

func (a App) execCmd(line string) tea.Cmd {
	return func() tea.Msg {
		return controllerEventMsg{ev: a.controller.Exec(context.Background(), line)}
	}
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case controllerEventMsg:
		return a.handleEvent(msg.ev)
	}

	return a, nil
}

// handleEvent folds a controller event into the model
func (a App) handleEvent(ev core.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case core.SnapshotEvent:
		a.err = nil
		a.applySnapshot(ev.Snap)
		return a, nil

	case core.StaleSnapshotEvent:
		logging.Debug.Printf("[UI] stale refresh gen=%d ignored", ev.Generation)
		return a, nil

	case core.FileSelectedEvent:
		a.message = ev.Message
		if ev.File != nil {
			a.message = fmt.Sprintf("%s: %d blocks, %s allocation",
				ev.File.Filename, ev.File.BlockCount, ev.File.AllocationType)
		}
		a.applySnapshot(a.controller.Snapshot())
		return a, nil

	case core.StrategyChangedEvent:
		a.message = ev.Message
		a.header.SetStrategy(ev.Strategy)
		a.strategySel.SetCurrent(ev.Strategy)
		if a.statsManager != nil {
			a.statsManager.SetDefaultStrategy(ev.Strategy)
		}
		return a, nil

	case core.CommandResultEvent:
		if strings.ContainsRune(strings.TrimSpace(ev.Output), '\n') {
			a.output = ev.Output
			a.outputVisible = true
			a.message = ""
		} else {
			a.message = firstLine(ev.Output)
		}
		if a.statsManager != nil && strings.HasPrefix(ev.Command, "touch ") &&
			!strings.HasPrefix(ev.Output, "touch:") {
			a.statsManager.AddCreated(1)
		}
		// Commands can change allocations, so refetch
		return a, a.refreshCmd()

	case core.ErrorEvent:
		a.err = ev.Err
		return a, nil
	}
	return a, nil
}

// applySnapshot installs a snapshot and rebuilds the resolver that all
// views share
func (a *App) applySnapshot(snap core.Snapshot) {
	a.snap = snap
	hovered := -1
	if a.resolver != nil {
		hovered = a.resolver.Hovered()
	}
	a.resolver = blockmap.NewResolver(snap.Info, snap.File, snap.Ownership, a.search)
	a.resolver.SetHovered(hovered)

	a.mapPanel.SetSnapshot(snap.Info, a.resolver)
	a.listPanel.SetSnapshot(snap.Info, a.resolver)
	a.filePanel.SetEntries(snap.Dir, snap.Files)
	a.usage.SetEntries(snap.Dir, snap.Files)
	a.header.SetInfo(snap.Info)
	if snap.File != nil {
		a.filePanel.SetHighlighted(snap.File.Filename)
	} else {
		a.filePanel.SetHighlighted("")
	}

	if !a.viewForced {
		if snap.Info.TotalBlocks > autoListThreshold {
			a.viewMode = ViewList
		} else {
			a.viewMode = ViewMap
		}
	}
	a.updateLayout()
}

// setSearch updates the search term and rebuilds the resolver
func (a *App) setSearch(term string) {
	a.search = term
	a.applySnapshot(a.snap)
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Input bar captures everything except enter/esc
	if a.mode != inputNone {
		switch msg.String() {
		case "enter":
			return a.submitInput()
		case "esc":
			wasSearch := a.mode == inputSearch
			a.mode = inputNone
			a.input.Blur()
			if wasSearch {
				a.setSearch("")
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Overlays take precedence
	if a.help.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) {
			a.help.SetVisible(false)
		}
		return a, nil
	}
	if a.detail.IsVisible() {
		if key.Matches(msg, a.keys.Back) || key.Matches(msg, a.keys.Enter) {
			a.detail.Hide()
		}
		return a, nil
	}
	if a.strategySel.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Back):
			a.strategySel.SetVisible(false)
		case key.Matches(msg, a.keys.Up):
			a.strategySel.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.strategySel.MoveDown()
		case key.Matches(msg, a.keys.Enter):
			a.strategySel.SetVisible(false)
			return a, a.setStrategyCmd(a.strategySel.Selected())
		}
		return a, nil
	}
	if a.outputVisible {
		if key.Matches(msg, a.keys.Back) || key.Matches(msg, a.keys.Enter) {
			a.outputVisible = false
		}
		return a, nil
	}
	if a.usage.IsVisible() {
		if key.Matches(msg, a.keys.Back) || key.Matches(msg, a.keys.Usage) {
			a.usage.Toggle()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.statsManager != nil {
			_ = a.statsManager.Close()
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Back):
		if a.search != "" {
			a.setSearch("")
			a.message = ""
			return a, nil
		}
		if a.snap.File != nil {
			a.controller.ClearSelection()
			a.applySnapshot(a.controller.Snapshot())
			a.message = ""
		}
		return a, nil

	case key.Matches(msg, a.keys.Tab):
		a.showFiles = !a.showFiles
		a.filePanel.SetFocused(a.showFiles)
		a.mapPanel.SetFocused(!a.showFiles)
		a.listPanel.SetFocused(!a.showFiles)
		a.updateLayout()
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		return a, a.refreshCmd()

	case key.Matches(msg, a.keys.Search):
		a.mode = inputSearch
		a.input.Placeholder = "search filename"
		a.input.SetValue(a.search)
		a.input.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Command):
		a.mode = inputCommand
		a.input.Placeholder = "ls, cd, touch, rm, df, tree, help ..."
		a.input.SetValue("")
		a.input.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Strategy):
		a.strategySel.SetVisible(true)
		return a, nil

	case key.Matches(msg, a.keys.Usage):
		a.usage.Toggle()
		return a, nil

	case key.Matches(msg, a.keys.Files):
		a.showFiles = !a.showFiles
		a.filePanel.SetFocused(a.showFiles)
		a.updateLayout()
		return a, nil

	case key.Matches(msg, a.keys.ToggleView):
		a.viewForced = true
		if a.viewMode == ViewMap {
			a.viewMode = ViewList
		} else {
			a.viewMode = ViewMap
		}
		a.updateLayout()
		return a, nil
	}

	// File panel navigation when it has focus
	if a.showFiles && a.filePanel.focused {
		switch {
		case key.Matches(msg, a.keys.Up):
			a.filePanel.MoveUp()
			return a, nil
		case key.Matches(msg, a.keys.Down):
			a.filePanel.MoveDown()
			return a, nil
		case key.Matches(msg, a.keys.FirstPage):
			a.filePanel.GoToTop()
			return a, nil
		case key.Matches(msg, a.keys.LastPage):
			a.filePanel.GoToBottom()
			return a, nil
		case key.Matches(msg, a.keys.Enter):
			if e := a.filePanel.Selected(); e != nil {
				if e.IsDir {
					return a, tea.Sequence(a.execCmd("cd "+e.Name), a.refreshCmd())
				}
				return a, a.selectFileCmd(e.Name)
			}
			return a, nil
		}
	}

	if a.viewMode == ViewMap {
		return a.handleMapKey(msg)
	}
	return a.handleListKey(msg)
}

// handleMapKey handles map view keys (camera operations)
func (a App) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const panStep = 2.0

	switch {
	case key.Matches(msg, a.keys.ZoomIn):
		a.mapPanel.ZoomIn()
	case key.Matches(msg, a.keys.ZoomOut):
		a.mapPanel.ZoomOut()
	case key.Matches(msg, a.keys.ZoomReset):
		a.mapPanel.ResetView()
	case key.Matches(msg, a.keys.Up):
		a.mapPanel.Pan(0, panStep)
	case key.Matches(msg, a.keys.Down):
		a.mapPanel.Pan(0, -panStep)
	case key.Matches(msg, a.keys.Left):
		a.mapPanel.Pan(panStep, 0)
	case key.Matches(msg, a.keys.Right):
		a.mapPanel.Pan(-panStep, 0)
	}
	return a, nil
}

// handleListKey handles list view keys (page navigation)
func (a App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.NextPage):
		a.listPanel.NextPage()
	case key.Matches(msg, a.keys.PrevPage):
		a.listPanel.PrevPage()
	case key.Matches(msg, a.keys.FirstPage):
		a.listPanel.FirstPage()
	case key.Matches(msg, a.keys.LastPage):
		a.listPanel.LastPage()
	case key.Matches(msg, a.keys.Left):
		a.listPanel.JumpPages(-5)
	case key.Matches(msg, a.keys.Right):
		a.listPanel.JumpPages(5)
	case key.Matches(msg, a.keys.JumpPage):
		a.mode = inputPage
		a.input.Placeholder = fmt.Sprintf("page 1-%d", a.listPanel.Pager().TotalPages())
		a.input.SetValue("")
		a.input.Focus()
		return a, textinput.Blink
	}
	return a, nil
}

// submitInput finalizes the input bar according to its mode
func (a App) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(a.input.Value())
	mode := a.mode
	a.mode = inputNone
	a.input.Blur()

	switch mode {
	case inputCommand:
		if value == "" {
			return a, nil
		}
		return a, a.execCmd(value)

	case inputSearch:
		a.setSearch(value)
		if value != "" {
			a.message = fmt.Sprintf("highlighting blocks of files matching %q", value)
		} else {
			a.message = ""
		}
		return a, nil

	case inputPage:
		n, err := strconv.Atoi(value)
		if err != nil || !a.listPanel.SetPage(n) {
			a.message = fmt.Sprintf("no page %q", value)
		}
		return a, nil
	}
	return a, nil
}

// handleMouse handles mouse input on the active view
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.help.IsVisible() || a.detail.IsVisible() || a.strategySel.IsVisible() ||
		a.usage.IsVisible() || a.outputVisible {
		return a, nil
	}

	if a.viewMode == ViewList {
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if i := a.listPanel.BlockAtScreen(msg.X, msg.Y); i >= 0 {
				a.openDetail(i)
			}
		}
		return a, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		a.mapPanel.ZoomIn()

	case msg.Button == tea.MouseButtonWheelDown:
		a.mapPanel.ZoomOut()

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		a.mapPanel.StartDrag(msg.X, msg.Y)

	case msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft:
		if a.mapPanel.EndDrag() {
			if i := a.mapPanel.BlockAtScreen(msg.X, msg.Y); i >= 0 {
				a.openDetail(i)
			}
		}

	case msg.Action == tea.MouseActionMotion:
		a.mapPanel.HandleMotion(msg.X, msg.Y)
	}
	return a, nil
}

// openDetail resolves a clicked block and shows the detail overlay
func (a *App) openDetail(i int) {
	status := "free"
	if a.resolver != nil {
		a.resolver.SetHovered(-1)
		status = a.resolver.Resolve(i).State.String()
	}
	detail, ok := a.controller.ResolveClick(i, status)
	if !ok {
		return
	}
	a.detail.Show(detail)
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	headerHeight := 1
	statusHeight := 1
	helpBarHeight := 1

	panelHeight := a.height - headerHeight - statusHeight - helpBarHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	fileWidth := 0
	if a.showFiles {
		fileWidth = filePanelWidth
		if fileWidth > a.width/2 {
			fileWidth = a.width / 2
		}
	}
	mainWidth := a.width - fileWidth
	if mainWidth < 10 {
		mainWidth = 10
	}

	a.header.SetWidth(a.width)
	a.filePanel.SetSize(fileWidth, panelHeight)
	a.mapPanel.SetSize(mainWidth, panelHeight)
	a.mapPanel.SetOrigin(fileWidth, headerHeight)
	a.listPanel.SetSize(mainWidth, panelHeight)
	a.listPanel.SetOrigin(fileWidth, headerHeight)
	a.usage.SetSize(mainWidth, panelHeight)
	a.detail.SetSize(a.width, a.height)
	a.strategySel.SetSize(a.width, a.height)
	a.help.SetSize(a.width, a.height)
	a.input.Width = a.width - 4
}

// statusLine renders the line between the panels and the help bar
func (a App) statusLine() string {
	if a.mode != inputNone {
		prefix := map[inputMode]string{
			inputCommand: ":",
			inputSearch:  "/",
			inputPage:    "page:",
		}[a.mode]
		return StatusStyle.Render(prefix + " " + a.input.View())
	}
	if a.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", a.err))
	}
	if a.viewMode == ViewMap {
		if label := a.mapPanel.HoverLabel(); label != "" {
			return StatusStyle.Render(label)
		}
	}
	if a.message != "" {
		return MessageStyle.Render(a.message)
	}
	cam := a.mapPanel.Camera()
	return HelpStyle.Render(fmt.Sprintf("%s · zoom %.2fx · %s", a.snap.Dir, cam.Zoom, a.searchHint()))
}

func (a App) searchHint() string {
	if a.search != "" {
		return fmt.Sprintf("search: %s", a.search)
	}
	return "no search"
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, a.header.View())

	var main string
	switch {
	case a.usage.IsVisible():
		main = a.usage.View()
	case a.viewMode == ViewList:
		main = a.listPanel.View()
	default:
		main = a.mapPanel.View()
	}

	if a.showFiles {
		main = lipgloss.JoinHorizontal(lipgloss.Top, a.filePanel.View(), main)
	}
	sections = append(sections, main)

	sections = append(sections, a.statusLine())
	sections = append(sections, HelpBar(a.width))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if a.help.IsVisible() {
		return a.help.View()
	}
	if a.detail.IsVisible() {
		return a.detail.View()
	}
	if a.strategySel.IsVisible() {
		return a.strategySel.View()
	}
	if a.outputVisible {
		return a.outputView()
	}

	return content
}

// outputView renders multi-line command output in a centered overlay
func (a App) outputView() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	out := strings.TrimRight(a.output, "\n")
	maxLines := a.height - 8
	if maxLines < 1 {
		maxLines = 1
	}
	lines := strings.Split(out, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], fmt.Sprintf("… %d more lines", len(lines)-maxLines))
	}

	content := strings.Join(lines, "\n") + "\n" + hintStyle.Render("Esc close")
	box := boxStyle.Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// firstLine trims a multi-line command output for the status bar
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
