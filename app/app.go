package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/config"
	"pirani-measure/inspect"
	"pirani-measure/keys"
	"pirani-measure/log"
	"pirani-measure/lookup"
	"pirani-measure/measure"
	"pirani-measure/ui"
	"pirani-measure/ui/layout"
	"pirani-measure/ui/overlay"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoProduct is returned by actions that need a fetched product.
var ErrNoProduct = errors.New("no product loaded, press o to look up a code")

// Lookup resolves product codes. *lookup.Client implements it.
type Lookup interface {
	Fetch(ctx context.Context, code string) (*lookup.Record, error)
	DownloadSVG(ctx context.Context, rec *lookup.Record, dir string) (string, error)
}

// Options configures the application.
type Options struct {
	Config *config.Config
	// State is optional; without it recent codes and the last size are not persisted.
	State *config.State
	// Size overrides the configured and remembered size when valid.
	Size calibration.SizeKey
	// Code is looked up on start when set.
	Code string
	// CellPx overrides the configured cell pixel height when positive.
	CellPx    float64
	Lookup    Lookup
	Clipboard ui.Clipboard
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		newHome(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Press, drag and release
	)
	_, err := p.Run()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateCode is the state when the user is entering a product code.
	stateCode
	// stateSize is the state when the size selector is displayed.
	stateSize
	// stateLoading is the state when a lookup or download is in flight.
	stateLoading
	// stateHelp is the state when a help screen is displayed.
	stateHelp
)

func (s state) String() string {
	switch s {
	case stateCode:
		return "code"
	case stateSize:
		return "size"
	case stateLoading:
		return "loading"
	case stateHelp:
		return "help"
	default:
		return "default"
	}
}

var titleStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("62")).
	Foreground(lipgloss.Color("230")).
	Padding(0, 1)

var warningStyle = lipgloss.NewStyle().Foreground(ui.StatusWarning)

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	appConfig *config.Config
	appState  *config.State
	lookup    Lookup
	clipboard ui.Clipboard

	// -- State --

	state state
	size  calibration.SizeKey

	// controller owns the line positions for the current size.
	controller *measure.Controller
	// pointers routes mouse motion to the controller while it holds a drag.
	pointers *pointerRouter
	// activeLine is the line moved by the keyboard.
	activeLine measure.Line

	record  *lookup.Record
	code    string
	fetched time.Time
	// cancelLoading aborts the in-flight lookup or download.
	cancelLoading context.CancelFunc
	// notifySeq identifies the message currently in the error box.
	notifySeq int

	constraints layout.Constraints
	degradation layout.Degradation

	now func() time.Time

	// -- UI Components --

	menu   *ui.Menu
	errBox *ui.ErrBox
	canvas *ui.Canvas
	panel  *ui.InfoPanel
	// global spinner instance. we plumb this down to where it's needed
	spinner spinner.Model

	codeInput      *overlay.CodeInputOverlay
	sizeSelector   *overlay.SizeSelectorOverlay
	textOverlay    *overlay.TextOverlay
	loadingOverlay *overlay.LoadingOverlay
}

func newHome(ctx context.Context, opts Options) *home {
	appConfig := opts.Config
	if appConfig == nil {
		appConfig = config.DefaultConfig()
	}

	cellPx := opts.CellPx
	if cellPx <= 0 {
		cellPx = float64(appConfig.CellPixelHeight)
	}

	size := appConfig.Size()
	if opts.State != nil {
		if last, ok := opts.State.LastSizeKey(); ok {
			size = last
		}
	}
	if opts.Size.Valid() {
		size = opts.Size
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = ui.SystemClipboard{}
	}
	lk := opts.Lookup
	if lk == nil {
		lk = lookup.NewClient(appConfig.LookupBaseURL, appConfig.LookupTimeout())
	}

	m := &home{
		ctx:        ctx,
		appConfig:  appConfig,
		appState:   opts.State,
		lookup:     lk,
		clipboard:  clip,
		state:      stateDefault,
		size:       size,
		pointers:   &pointerRouter{},
		activeLine: measure.LineHeight,
		code:       opts.Code,
		now:        time.Now,
		menu:       ui.NewMenu(),
		errBox:     ui.NewErrBox(),
		canvas:     ui.NewCanvas(cellPx),
		panel:      ui.NewInfoPanel(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	m.menu.SetCopyDisabled(!ui.CanCopy(clip))
	m.newController()
	return m
}

// newController seeds a controller for m.size against the current canvas,
// closing the previous one.
func (m *home) newController() {
	if m.controller != nil {
		m.controller.Close()
	}
	m.controller = measure.New(m.size, m.canvas.ContainerHeightPx(),
		measure.WithPointerSource(m.pointers),
		measure.WithHeightChange(func(heightPx float64) {
			log.InputTrace("height %.0fpx", heightPx)
		}),
		measure.WithBaselineChange(func(baselineYPx float64) {
			log.InputTrace("baseline %.0fpx", baselineYPx)
		}),
	)
	m.panel.SetCalibrationSize(m.size)
	m.syncReadout()
}

// syncReadout pushes the controller's readout to the components.
func (m *home) syncReadout() {
	r := m.controller.Readout()
	m.canvas.SetReadout(r, m.activeLine)
	m.panel.SetReadout(r)
	if m.state == stateDefault {
		if m.controller.Dragging() {
			m.menu.SetState(ui.StateDragging)
		} else {
			m.menu.SetState(ui.StateDefault)
		}
	}
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	c := layout.ComputeConstraints(msg.Width, msg.Height)
	d := layout.ComputeDegradation(c)
	m.constraints = c
	m.degradation = d
	log.LayoutTrace("resize %dx%d mode=%s canvas=%dx%d", msg.Width, msg.Height, c.Mode, c.CanvasWidth, c.CanvasRows)

	m.canvas.SetSize(c.CanvasWidth, c.CanvasRows)
	m.canvas.SetDegradation(d)
	m.panel.SetSize(c.PanelWidth, c.PanelHeight)
	m.panel.SetHideDetails(d.HideProductDetails)
	m.menu.SetSize(msg.Width, c.MenuHeight)
	m.errBox.SetSize(msg.Width, c.ErrBoxHeight)

	overlayWidth := layout.ComputeOverlayWidth(msg.Width, 50)
	if m.codeInput != nil {
		m.codeInput.SetWidth(overlayWidth)
	}
	if m.sizeSelector != nil {
		m.sizeSelector.SetWidth(overlayWidth)
	}
	if m.textOverlay != nil {
		m.textOverlay.SetWidth(layout.ComputeOverlayWidth(msg.Width, 70))
	}
	if m.loadingOverlay != nil {
		m.loadingOverlay.SetWidth(overlayWidth)
	}

	height := m.canvas.ContainerHeightPx()
	if m.controller.Model().ContainerHeightPx() <= 0 {
		// First measurement: seed the lines from the record.
		m.newController()
		return
	}
	m.controller.OnContainerResize(height)
	m.syncReadout()
}

func (m *home) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.code != "" {
		cmds = append(cmds, m.startLookup(m.code))
	}
	return tea.Batch(cmds...)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hideErrMsg:
		// A newer message restarted the timer.
		if msg.seq == m.notifySeq {
			m.errBox.Clear()
		}
		return m, nil
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case lookupDoneMsg:
		return m, m.handleLookupDone(msg)
	case downloadDoneMsg:
		m.finishLoading()
		if msg.err != nil {
			return m, m.handleError(msg.err)
		}
		return m, m.notify(fmt.Sprintf("saved %s", msg.path))
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// pointerPx converts a screen row to a container pixel position. Rows
// outside the canvas map outside [0, container] and get clamped by the
// controller.
func (m *home) pointerPx(y int) float64 {
	return ui.PxForRow(y-m.constraints.CanvasY, m.canvas.CellPx())
}

func (m *home) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.state != stateDefault {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if !m.constraints.CanvasContains(msg.X, msg.Y) {
			return nil
		}
		line, ok := m.canvas.HitTest(msg.Y - m.constraints.CanvasY)
		if !ok {
			return nil
		}
		m.activeLine = line
		m.controller.BeginDrag(line)
	case tea.MouseActionMotion:
		if !m.pointers.Move(m.pointerPx(msg.Y)) {
			return nil
		}
	case tea.MouseActionRelease:
		if !m.pointers.Release() {
			return nil
		}
	default:
		return nil
	}
	m.syncReadout()
	return nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	if m.cancelLoading != nil {
		m.cancelLoading()
	}
	m.controller.Close()
	return m, tea.Quit
}

// handleMenuHighlighting returns a command to highlight the pressed key in the menu.
// This is purely visual - it briefly underlines the corresponding menu item.
func (m *home) handleMenuHighlighting(msg tea.KeyMsg) tea.Cmd {
	if m.state != stateDefault {
		return nil
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return nil
	}
	return m.keydownCallback(name)
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (mod tea.Model, cmd tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.state {
	case stateHelp:
		m.textOverlay.HandleKeyPress(msg)
		return m, nil
	case stateLoading:
		if msg.Type == tea.KeyEsc && m.cancelLoading != nil {
			m.cancelLoading()
		}
		return m, nil
	case stateCode:
		if !m.codeInput.HandleKeyPress(msg) {
			return m, nil
		}
		submitted, code := m.codeInput.IsSubmitted(), m.codeInput.GetValue()
		m.codeInput = nil
		m.setState(stateDefault)
		if submitted {
			return m, m.startLookup(code)
		}
		return m, nil
	case stateSize:
		if !m.sizeSelector.HandleKeyPress(msg) {
			return m, nil
		}
		selected := m.sizeSelector.Selected
		m.sizeSelector = nil
		m.setState(stateDefault)
		if selected != "" && selected != m.size {
			m.setSize(selected)
		}
		return m, nil
	}

	// The release may have happened outside the terminal.
	if msg.Type == tea.KeyEsc && m.controller.Dragging() {
		m.controller.EndDrag()
		m.syncReadout()
		return m, nil
	}

	highlightCmd := m.handleMenuHighlighting(msg)

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	cellPx := m.canvas.CellPx()
	switch name {
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyHelp:
		m.textOverlay = overlay.NewTextOverlay(helpText())
		m.textOverlay.SetWidth(layout.ComputeOverlayWidth(m.constraints.TerminalWidth, 70))
		m.textOverlay.OnDismiss = func() { m.setState(stateDefault) }
		m.setState(stateHelp)
		return m, highlightCmd
	case keys.KeyLookup:
		var recent []string
		if m.appState != nil {
			recent = m.appState.RecentCodes
		}
		m.codeInput = overlay.NewCodeInputOverlay("Product code", recent)
		m.codeInput.SetWidth(layout.ComputeOverlayWidth(m.constraints.TerminalWidth, 50))
		m.setState(stateCode)
		return m, highlightCmd
	case keys.KeySize:
		m.sizeSelector = overlay.NewSizeSelectorOverlay(m.size)
		m.sizeSelector.SetWidth(layout.ComputeOverlayWidth(m.constraints.TerminalWidth, 50))
		m.setState(stateSize)
		return m, highlightCmd
	case keys.KeyCopy:
		return m, tea.Batch(highlightCmd, m.copyHeight())
	case keys.KeySwitchLine:
		if m.activeLine == measure.LineHeight {
			m.activeLine = measure.LineBaseline
		} else {
			m.activeLine = measure.LineHeight
		}
	case keys.KeyUp:
		m.controller.Nudge(m.activeLine, -cellPx)
	case keys.KeyDown:
		m.controller.Nudge(m.activeLine, cellPx)
	case keys.KeyShiftUp:
		m.controller.Nudge(m.activeLine, -1)
	case keys.KeyShiftDown:
		m.controller.Nudge(m.activeLine, 1)
	case keys.KeyReset:
		m.controller.Reset()
	case keys.KeyDownload:
		if m.record == nil {
			return m, tea.Batch(highlightCmd, m.handleError(ErrNoProduct))
		}
		return m, tea.Batch(highlightCmd, m.startDownload(m.record))
	default:
		return m, nil
	}
	m.syncReadout()
	return m, highlightCmd
}

func (m *home) setState(s state) {
	// Overlays take the mouse, so a held line would never see its release.
	if s != stateDefault && m.controller.Dragging() {
		m.controller.EndDrag()
	}
	m.state = s
	switch s {
	case stateCode:
		m.menu.SetState(ui.StateInput)
	case stateSize:
		m.menu.SetState(ui.StateSelect)
	default:
		m.syncReadout()
	}
}

// setSize switches the calibration size and re-seeds the lines.
func (m *home) setSize(size calibration.SizeKey) {
	log.InfoLog.Printf("size %s -> %s", m.size, size)
	m.size = size
	m.newController()
	if m.appState != nil {
		if err := m.appState.SetLastSize(size); err != nil {
			log.WarningLog.Printf("failed to save last size: %v", err)
		}
	}
}

// copyHeight copies the displayed millimeter height.
func (m *home) copyHeight() tea.Cmd {
	text := calibration.FormatMm(m.controller.Readout().HeightMm)
	if err := m.clipboard.WriteAll(text); err != nil {
		return m.handleError(fmt.Errorf("failed to copy to clipboard: %w", err))
	}
	log.InfoLog.Printf("copied %s mm", text)
	return m.notify(fmt.Sprintf("copied %s mm", text))
}

// startLookup fetches code in the background behind the loading overlay.
func (m *home) startLookup(code string) tea.Cmd {
	ctx, cancel := context.WithTimeout(m.ctx, m.appConfig.LookupTimeout())
	m.startLoading("Looking up product", "Fetching "+code, cancel)

	fetch := m.lookup
	return func() tea.Msg {
		defer cancel()
		rec, err := fetch.Fetch(ctx, code)
		return lookupDoneMsg{code: code, rec: rec, err: err}
	}
}

func (m *home) handleLookupDone(msg lookupDoneMsg) tea.Cmd {
	m.finishLoading()
	if msg.err != nil {
		// No image to measure; fall back to the placeholder.
		m.record = nil
		m.fetched = time.Time{}
		m.canvas.SetImage("")
		m.panel.SetRecord(msg.code, nil, time.Time{})
		m.menu.SetHasRecord(false)
		return m.handleError(msg.err)
	}

	m.record = msg.rec
	m.code = msg.code
	m.fetched = m.now()
	m.canvas.SetImage(msg.rec.ImageURL())
	m.panel.SetRecord(msg.code, msg.rec, m.fetched)
	m.menu.SetHasRecord(true)
	if m.appState != nil {
		if err := m.appState.AddRecentCode(msg.code); err != nil {
			log.WarningLog.Printf("failed to save recent code: %v", err)
		}
	}

	if hint, ok := msg.rec.SizeHint(); ok && hint != m.size {
		m.setSize(hint)
	}
	log.InfoLog.Printf("loaded %s (%s)", msg.code, msg.rec.Title)
	return m.notify(fmt.Sprintf("loaded %s", msg.rec.Title))
}

// startDownload saves the record's SVG into the download directory.
func (m *home) startDownload(rec *lookup.Record) tea.Cmd {
	ctx, cancel := context.WithTimeout(m.ctx, m.appConfig.LookupTimeout())
	m.startLoading("Downloading SVG", lookup.SVGFileName(rec), cancel)

	dl, dir := m.lookup, m.appConfig.DownloadDir
	return func() tea.Msg {
		defer cancel()
		path, err := dl.DownloadSVG(ctx, rec, dir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m *home) startLoading(title, status string, cancel context.CancelFunc) {
	m.cancelLoading = cancel
	m.loadingOverlay = overlay.NewLoadingOverlay(title, &m.spinner)
	m.loadingOverlay.SetWidth(layout.ComputeOverlayWidth(m.constraints.TerminalWidth, 50))
	m.loadingOverlay.SetStatus(status)
	m.setState(stateLoading)
}

func (m *home) finishLoading() {
	m.loadingOverlay = nil
	m.cancelLoading = nil
	m.setState(stateDefault)
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen
// if no newer message has been shown since it was scheduled.
type hideErrMsg struct {
	seq int
}

// lookupDoneMsg is sent when a lookup completes.
type lookupDoneMsg struct {
	code string
	rec  *lookup.Record
	err  error
}

// downloadDoneMsg is sent when an SVG download completes.
type downloadDoneMsg struct {
	path string
	err  error
}

// handleError handles all errors which get bubbled up to the app. sets the error message. We return a callback tea.Cmd that returns a hideErrMsg message
// which clears the error message after the notification duration.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return m.hideAfter()
}

// notify shows a transient non-error message.
func (m *home) notify(msg string) tea.Cmd {
	m.errBox.SetInfo(msg)
	return m.hideAfter()
}

func (m *home) hideAfter() tea.Cmd {
	m.notifySeq++
	seq, d := m.notifySeq, m.appConfig.NotificationDuration()
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(d):
		}
		return hideErrMsg{seq: seq}
	}
}

func (m *home) titleBar() string {
	text := titleStyle.Render("Pirani Measure") + " " + ui.TextStyles.Secondary.Render(string(m.size))
	if m.code != "" && m.record != nil {
		text += ui.TextStyles.Muted.Render(" · " + m.code)
	}
	if m.degradation.ShowMinWarning {
		text += " " + warningStyle.Render("terminal too small")
	}
	return lipgloss.Place(m.constraints.TerminalWidth, layout.TitleHeight, lipgloss.Left, lipgloss.Top, text)
}

func (m *home) View() string {
	start := time.Now()
	defer func() { log.GetProfiler().RecordFrame(time.Since(start)) }()

	body := m.canvas.String()
	if m.constraints.ShowPanel {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.panel.String(), body)
	}

	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.titleBar(),
		"",
		body,
		m.menu.String(),
		m.errBox.String(),
	)
	m.writeSnapshot()

	var fg string
	switch m.state {
	case stateCode:
		fg = m.codeInput.Render()
	case stateSize:
		fg = m.sizeSelector.Render()
	case stateHelp:
		fg = m.textOverlay.Render()
	case stateLoading:
		fg = m.loadingOverlay.Render()
	default:
		return mainView
	}
	return overlay.PlaceOverlay(0, 0, fg, mainView, true, true)
}

// overlayType names the overlay shown in the current state.
func (m *home) overlayType() string {
	switch m.state {
	case stateCode:
		return "code_input"
	case stateSize:
		return "size_selector"
	case stateHelp:
		return "text"
	case stateLoading:
		return "loading"
	default:
		return ""
	}
}

// writeSnapshot records the UI state for inspection when enabled.
func (m *home) writeSnapshot() {
	if !inspect.IsEnabled() {
		return
	}
	root := inspect.NewNode("Home").WithBounds(0, 0, m.constraints.TerminalWidth, m.constraints.TerminalHeight)
	for _, c := range []inspect.Introspectable{m.panel, m.canvas} {
		root.AddChild(c.InspectNode())
	}
	snap := inspect.NewSnapshot().
		WithTerminal(m.constraints.TerminalWidth, m.constraints.TerminalHeight).
		WithAppState(inspect.AppStateInfo{
			State:        m.state.String(),
			HasOverlay:   m.state != stateDefault,
			OverlayType:  m.overlayType(),
			Size:         string(m.size),
			Drag:         m.controller.Drag().String(),
			ImageURL:     m.canvas.ImageURL(),
			ErrorMessage: m.errBox.Message(),
		}).
		WithLayout(m.constraints, m.degradation).
		WithComponents(root).
		WithStyles()
	if err := inspect.WriteSnapshot(snap); err != nil {
		log.WarningLog.Printf("failed to write inspect snapshot: %v", err)
	}
}
