package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/config"
	"pirani-measure/lookup"
	"pirani-measure/measure"
	"pirani-measure/testing/harness"
	"pirani-measure/testing/snapshot"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// At 120x47 the canvas has 40 rows starting at screen row 3, so with 18px
// cells the container is 720px tall and matches the reference image.
const (
	testWidth   = 120
	testHeight  = 47
	canvasTop   = 3
	canvasCellX = 50
)

// screenRow returns the screen row a container pixel position is drawn on.
func screenRow(px float64) int {
	return canvasTop + int(px/18)
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type testApp struct {
	*harness.Harness
	m    *home
	clip *fakeClipboard
}

func newTestApp(t *testing.T, opts Options) *testApp {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	clip := &fakeClipboard{}
	if opts.Clipboard == nil {
		opts.Clipboard = clip
	}
	m := newHome(context.Background(), opts)
	h := harness.New(t, m, testWidth, testHeight)
	return &testApp{Harness: h, m: m, clip: clip}
}

func (a *testApp) lines() (float64, float64) {
	return a.m.controller.Lines()
}

func newLookupServer(t *testing.T, body string) *lookup.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/co/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/art.svg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<svg/>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := lookup.NewClient(srv.URL, 5*time.Second)
	c.Now = func() time.Time { return time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestInitialLinesSeededOnFirstLayout(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	top, base := a.lines()
	assert.InDelta(t, 195, top, 1e-9)
	assert.InDelta(t, 458, base, 1e-9)
	assert.Equal(t, 720.0, a.m.controller.Readout().ContainerHeightPx)

	view := a.View()
	assert.Equal(t, testHeight, snapshot.Lines(view))
	assert.Contains(t, snapshot.LineAt(view, screenRow(195)), "Height: 263px · 55.0 mm")
	assert.Contains(t, snapshot.LineAt(view, screenRow(458)), "Baseline Y: 458px")
}

func TestUnmeasuredBeforeLayout(t *testing.T) {
	m := newHome(context.Background(), Options{Config: config.DefaultConfig(), Clipboard: &fakeClipboard{}})
	r := m.controller.Readout()
	assert.Equal(t, 0.0, r.ContainerHeightPx)
	assert.Equal(t, 0.0, r.HeightMm)
	assert.NotPanics(t, func() { m.View() })
}

func TestDragHeightLine(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	a.Press(canvasCellX, screenRow(195))
	assert.Equal(t, measure.DragHeight, a.m.controller.Drag())
	assert.True(t, a.m.pointers.Active())

	a.Move(canvasCellX, canvasTop+5)
	top, _ := a.lines()
	assert.Equal(t, 90.0, top)

	a.Release(canvasCellX, canvasTop+5)
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())
	assert.False(t, a.m.pointers.Active())
	assert.Equal(t, 1, a.m.pointers.subscriptions)
}

func TestDragClampsOutsideCanvas(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	// Motion keeps being delivered above the canvas.
	a.Press(canvasCellX, screenRow(195))
	a.Move(canvasCellX, 0)
	top, _ := a.lines()
	assert.Equal(t, 0.0, top)

	a.Move(canvasCellX, 200)
	top, _ = a.lines()
	assert.Equal(t, 720.0, top)
	a.Release(canvasCellX, 200)
}

func TestDragBaselineFlooredAtHeightLine(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	a.Drag(canvasCellX, screenRow(458), canvasTop)
	top, base := a.lines()
	assert.Equal(t, 195.0, top)
	assert.Equal(t, 195.0, base)
	assert.GreaterOrEqual(t, a.m.controller.Readout().HeightPx, 0.0)
}

func TestPullAdjacentLinesApart(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	// Baseline onto the row just below the height line.
	a.Drag(canvasCellX, screenRow(458), canvasTop+11)
	top, base := a.lines()
	require.Equal(t, 195.0, top)
	require.Equal(t, 198.0, base)

	a.Drag(canvasCellX, screenRow(195), canvasTop+2)
	top, base = a.lines()
	assert.Equal(t, 36.0, top)
	assert.Equal(t, 198.0, base)
}

func TestPressAwayFromLinesIgnored(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	a.Press(canvasCellX, canvasTop+32)
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())

	// Inside the info panel.
	a.Press(5, screenRow(195))
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())

	a.SendMsg(tea.MouseMsg{X: canvasCellX, Y: screenRow(195), Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())
	assert.Equal(t, 0, a.m.pointers.subscriptions)
}

func TestMotionWithoutDragIgnored(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	a.Move(canvasCellX, canvasTop+2)
	a.Release(canvasCellX, canvasTop+2)
	top, base := a.lines()
	assert.Equal(t, 195.0, top)
	assert.Equal(t, 458.0, base)
}

func TestEscEndsDrag(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	a.Press(canvasCellX, screenRow(195))
	a.SendSpecialKey(tea.KeyEsc)
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())
	assert.False(t, a.m.pointers.Active())
}

func TestKeyboardNudge(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	a.SendSpecialKey(tea.KeyTab)
	assert.Equal(t, measure.LineBaseline, a.m.activeLine)
	a.SendKey("j")
	_, base := a.lines()
	assert.Equal(t, 476.0, base)
	a.SendKey("K")
	_, base = a.lines()
	assert.Equal(t, 475.0, base)

	a.SendSpecialKey(tea.KeyTab)
	a.SendSpecialKey(tea.KeyUp)
	top, _ := a.lines()
	assert.Equal(t, 177.0, top)
	assert.False(t, a.m.pointers.Active())

	a.SendKey("r")
	top, base = a.lines()
	assert.Equal(t, 195.0, top)
	assert.Equal(t, 458.0, base)
}

func TestCopyHeight(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	cmd := a.SendKey("c")
	assert.NotNil(t, cmd)
	assert.Equal(t, "55.0", a.clip.text)
	assert.Equal(t, "copied 55.0 mm", a.m.errBox.Message())
	assert.False(t, a.m.errBox.IsError())
}

func TestCopyFailureLeavesLines(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no clipboard utility")}
	a := newTestApp(t, Options{Size: calibration.Size10oz, Clipboard: clip})
	a.SendKey("c")
	assert.True(t, a.m.errBox.IsError())
	assert.Contains(t, a.m.errBox.Message(), "failed to copy to clipboard")

	top, base := a.lines()
	assert.Equal(t, 195.0, top)
	assert.Equal(t, 458.0, base)
}

func TestNotificationClears(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.NotificationMs = 1
	a := newTestApp(t, Options{Config: cfg})
	a.RunCmd(a.m.notify("hello"))
	assert.Equal(t, "", a.m.errBox.Message())
}

func TestStaleNotificationTimerKeepsNewerMessage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.NotificationMs = 1
	a := newTestApp(t, Options{Config: cfg})

	first := a.SendKey("c")
	require.NotNil(t, first)
	second := a.m.handleError(errors.New("lookup failed"))

	// The copy notice's timer fires after the error was shown.
	a.SendMsg(hideErrMsg{seq: a.m.notifySeq - 1})
	assert.Equal(t, "lookup failed", a.m.errBox.Message())

	a.RunCmd(second)
	assert.Equal(t, "", a.m.errBox.Message())
}

func TestSelectSizeReseeds(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})

	a.SendKey("s")
	assert.Equal(t, stateSize, a.m.state)
	snapshot.New(t).AssertContains(a.View(), "Select Size")

	// Mouse input goes to the overlay, not the lines.
	a.Press(canvasCellX, screenRow(195))
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())

	a.SendSpecialKey(tea.KeyDown)
	a.SendSpecialKey(tea.KeyEnter)
	assert.Equal(t, stateDefault, a.m.state)
	assert.Equal(t, calibration.Size16oz, a.m.size)
	top, base := a.lines()
	assert.InDelta(t, 150, top, 1e-9)
	assert.InDelta(t, 445, base, 1e-9)
}

func TestSizeChangeMidDragReleasesPointer(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	a.Press(canvasCellX, screenRow(458))
	require.True(t, a.m.pointers.Active())

	a.m.setSize(calibration.Size26oz)
	assert.False(t, a.m.pointers.Active())
	assert.Equal(t, measure.DragIdle, a.m.controller.Drag())

	// Stray events from the old drag do nothing.
	a.Move(canvasCellX, canvasTop)
	top, base := a.lines()
	assert.InDelta(t, 110, top, 1e-9)
	assert.InDelta(t, 430, base, 1e-9)
}

func TestOpeningOverlayEndsDrag(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	a.Press(canvasCellX, screenRow(195))
	a.SendKey("?")
	assert.Equal(t, stateHelp, a.m.state)
	assert.False(t, a.m.pointers.Active())
}

func TestResizeKeepsLinePixels(t *testing.T) {
	a := newTestApp(t, Options{Size: calibration.Size10oz})
	a.Resize(120, 27)

	want := float64(a.m.constraints.CanvasRows) * 18
	r := a.m.controller.Readout()
	assert.Equal(t, want, r.ContainerHeightPx)
	assert.Equal(t, 195.0, r.HeightLineY)
	assert.Equal(t, 458.0, r.BaselineY)
}

func TestLookupAppliesSizeHint(t *testing.T) {
	client := newLookupServer(t, `{"title":"Tumbler","variantTitle":"26oz / Black","sku":"TMB-26",
		"previewUrl":"https://cdn.example.com/p.png","svgUrl":""}`)
	a := newTestApp(t, Options{Size: calibration.Size10oz, Lookup: client})

	a.SendKey("o")
	assert.Equal(t, stateCode, a.m.state)
	a.SendKey("-uImcw6d")
	cmd := a.SendSpecialKey(tea.KeyEnter)
	assert.Equal(t, stateLoading, a.m.state)
	snapshot.New(t).AssertContains(a.View(), "Looking up product")

	a.RunCmd(cmd)
	assert.Equal(t, stateDefault, a.m.state)
	assert.Equal(t, calibration.Size26oz, a.m.size)
	assert.Equal(t, "https://cdn.example.com/p.png", a.m.canvas.ImageURL())
	assert.Equal(t, "-uImcw6d", a.m.code)
	top, _ := a.lines()
	assert.InDelta(t, 110, top, 1e-9)
	assert.Contains(t, a.m.errBox.Message(), "loaded Tumbler")
}

func TestLookupNotFoundShowsPlaceholder(t *testing.T) {
	client := newLookupServer(t, `null`)
	a := newTestApp(t, Options{Size: calibration.Size16oz, Lookup: client})

	a.SendKey("o")
	a.SendKey("missing")
	a.RunCmd(a.SendSpecialKey(tea.KeyEnter))

	assert.Equal(t, stateDefault, a.m.state)
	assert.True(t, a.m.errBox.IsError())
	assert.Equal(t, lookup.ErrNotFound.Error(), a.m.errBox.Message())
	assert.Equal(t, "", a.m.canvas.ImageURL())
	assert.Nil(t, a.m.record)
	assert.Equal(t, calibration.Size16oz, a.m.size)
	snapshot.New(t).AssertContains(a.View(), "No image")
}

func TestLookupCancelledInput(t *testing.T) {
	a := newTestApp(t, Options{})
	a.SendKey("o")
	cmd := a.SendSpecialKey(tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.Equal(t, stateDefault, a.m.state)
}

func TestStartupCodeStartsLookup(t *testing.T) {
	m := newHome(context.Background(), Options{
		Config:    config.DefaultConfig(),
		Code:      "abc",
		Lookup:    newLookupServer(t, `null`),
		Clipboard: &fakeClipboard{},
	})
	assert.NotNil(t, m.Init())
	assert.Equal(t, stateLoading, m.state)
}

func TestDownloadNeedsRecord(t *testing.T) {
	a := newTestApp(t, Options{})
	a.SendKey("d")
	assert.Equal(t, ErrNoProduct.Error(), a.m.errBox.Message())
}

func TestDownloadSVG(t *testing.T) {
	client := newLookupServer(t, `null`)
	cfg := config.DefaultConfig()
	cfg.DownloadDir = t.TempDir()
	a := newTestApp(t, Options{Config: cfg, Lookup: client})

	rec := &lookup.Record{SKU: "BTL-16", CustomizationValue: "ANA", SVGURL: client.BaseURL + "/art.svg"}
	a.RunCmd(a.m.startDownload(rec))

	assert.Equal(t, stateDefault, a.m.state)
	require.False(t, a.m.errBox.IsError(), a.m.errBox.Message())
	assert.Contains(t, a.m.errBox.Message(), "pirani-BTL-16-ANA.svg")
	data, err := os.ReadFile(cfg.DownloadDir + "/pirani-BTL-16-ANA.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestHelpOverlay(t *testing.T) {
	a := newTestApp(t, Options{})
	a.SendKey("?")
	assert.Equal(t, stateHelp, a.m.state)
	snapshot.New(t).AssertContains(a.View(), "Press any key to close")

	a.SendKey("x")
	assert.Equal(t, stateDefault, a.m.state)
	snapshot.New(t).AssertNotContains(a.View(), "Press any key to close")
}

func TestQuit(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Press(canvasCellX, screenRow(195))
	cmd := a.SendKey("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, a.m.pointers.Active())
}

func TestViewFitsCommonSizes(t *testing.T) {
	harness.RunWithCommonSizes(t, func(t *testing.T, size harness.TerminalSize) {
		m := newHome(context.Background(), Options{Config: config.DefaultConfig(), Clipboard: &fakeClipboard{}})
		h := harness.New(t, m, size.Width, size.Height)
		view := h.View()
		assert.Equal(t, size.Height, snapshot.Lines(view))
		assert.LessOrEqual(t, snapshot.Width(view), size.Width)
	})
}
