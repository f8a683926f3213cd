package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"sv/internal/config"
	"sv/internal/pixel"
	"sv/internal/viewer"
	"sv/internal/viewport"
	"sv/internal/watch"
)

const (
	zoomStep   = 1.25
	panStep    = 50.0
	titleCells = 160
)

var errNoImage = errors.New("no image displayed")

// Game is the ebiten window. It displays what the viewer controller decides and
// feeds it input and file change events, all from the game loop.
type Game struct {
	ctrl   *viewer.Controller
	events <-chan watch.Event

	config       config.Config
	configStatus config.LoadResult

	adapter  pixel.Adapter
	view     *viewport.View
	infoText string
	infoLine string

	showHelp   bool
	showInfo   bool
	fullscreen bool
	closed     bool

	savedWinW int
	savedWinH int
	screenW   int
	screenH   int

	sizePath string
	size     int64

	overlayMessage     string
	overlayMessageTime time.Time

	renderer            *Renderer
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
}

// newGame creates the window state. The controller is attached once it exists,
// since creating it already displays the first image.
func newGame(result config.LoadResult, events <-chan watch.Event) (*Game, error) {
	g := &Game{
		events:       events,
		config:       result.Config,
		configStatus: result,
		view:         viewport.NewView(),
		fullscreen:   result.Config.Fullscreen,
		screenW:      result.Config.WindowWidth,
		screenH:      result.Config.WindowHeight,
		size:         -1,
	}

	renderer, err := NewRenderer(g, result.Config.CacheSize)
	if err != nil {
		return nil, err
	}
	g.renderer = renderer
	g.keybindingManager = NewKeybindingManager(result.Config.Keybindings)
	g.mousebindingManager = NewMousebindingManager(GetDefaultMousebindings(), GetDefaultMouseSettings())
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)
	return g, nil
}

func (g *Game) attach(ctrl *viewer.Controller) {
	g.ctrl = ctrl
}

func (g *Game) Update() error {
	if g.closed {
		return ebiten.Termination
	}

	g.drainWatchEvents()
	g.inputHandler.HandleInput()

	if g.closed {
		return ebiten.Termination
	}
	return nil
}

// drainWatchEvents hands every pending change event to the controller
func (g *Game) drainWatchEvents() {
	for {
		select {
		case ev, ok := <-g.events:
			if !ok {
				g.events = nil
				return
			}
			g.ctrl.Notify(ev.ID)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// quit saves the window size and ends the game loop
func (g *Game) quit() {
	if g.closed {
		return
	}
	g.closed = true
	g.saveCurrentWindowSize()
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		// Save the size from before fullscreen
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	g.config.Fullscreen = g.fullscreen
	if err := config.Save(g.config); err != nil {
		log.WithError(err).Warn("Failed to save config")
	}
}

// viewer.Display

func (g *Game) SetAdapter(a pixel.Adapter, keepView bool) {
	if g.adapter != nil && g.adapter != a {
		g.renderer.Forget(g.adapter)
	}
	g.adapter = a
	g.sizePath = ""
	if !keepView {
		g.view.Fit()
	}
}

func (g *Game) SetTitle(title string) {
	ebiten.SetWindowTitle(truncateText(title, titleCells))
}

func (g *Game) SetInfoText(text string) { g.infoText = text }

func (g *Game) SetInfoLine(line string) { g.infoLine = line }

// Snapshot renders the window content without overlays
func (g *Game) Snapshot() (image.Image, error) {
	if g.adapter == nil {
		return nil, errNoImage
	}
	layout := g.view.Layout(g.adapter.Width(), g.adapter.Height(), g.screenW, g.screenH)
	return layout.Snapshot(g.adapter.Render(), g.screenW, g.screenH), nil
}

func (g *Game) VisibleRegion() image.Rectangle {
	if g.adapter == nil {
		return image.Rectangle{}
	}
	layout := g.view.Layout(g.adapter.Width(), g.adapter.Height(), g.screenW, g.screenH)
	return layout.Visible(g.adapter.Width(), g.adapter.Height(), g.screenW, g.screenH)
}

func (g *Game) Close() {
	g.quit()
}

// InputActions

func (g *Game) Exit() {
	g.ctrl.Close()
	g.quit()
}

func (g *Game) ToggleHelp() { g.showHelp = !g.showHelp }
func (g *Game) ToggleInfo() { g.showInfo = !g.showInfo }

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) RunCommand(cmd viewer.Command) {
	g.ctrl.Handle(cmd)
}

func (g *Game) Rotate(quarterTurns int) {
	if g.ctrl.Rotate(quarterTurns) {
		g.view.Fit()
	}
}

func (g *Game) Flip() { g.ctrl.Flip() }
func (g *Game) CycleMapping() { g.ctrl.CycleMapping() }

func (g *Game) CycleChannel() {
	g.ctrl.CycleChannel()
	if a := g.adapter; a != nil {
		if a.Channel() == pixel.ChannelAll {
			g.ShowOverlayMessage("All channels")
		} else {
			g.ShowOverlayMessage(fmt.Sprintf("Channel %d", a.Channel()))
		}
	}
}

func (g *Game) ShiftWindow(fraction float64) { g.ctrl.ShiftWindow(fraction) }
func (g *Game) ScaleWindow(factor float64) { g.ctrl.ScaleWindow(factor) }
func (g *Game) ResetWindow() { g.ctrl.ResetWindow() }

func (g *Game) zoomBy(factor float64) {
	if a := g.adapter; a != nil {
		g.view.ZoomBy(factor, a.Width(), a.Height(), g.screenW, g.screenH)
	}
}

func (g *Game) ZoomIn() { g.zoomBy(zoomStep) }
func (g *Game) ZoomOut() { g.zoomBy(1 / zoomStep) }
func (g *Game) ZoomReset() { g.view.Actual() }
func (g *Game) ZoomFit() { g.view.Fit() }

func (g *Game) PanByDelta(deltaX, deltaY float64) {
	if a := g.adapter; a != nil {
		g.view.Pan(deltaX, deltaY, a.Width(), a.Height(), g.screenW, g.screenH)
	}
}

func (g *Game) PanUp() { g.PanByDelta(0, panStep) }
func (g *Game) PanDown() { g.PanByDelta(0, -panStep) }
func (g *Game) PanLeft() { g.PanByDelta(panStep, 0) }
func (g *Game) PanRight() { g.PanByDelta(-panStep, 0) }

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// InputState

func (g *Game) GetZoomMode() viewport.ZoomMode { return g.view.Mode }
func (g *Game) HasImage() bool { return g.adapter != nil }

// RenderState

func (g *Game) IsFullscreen() bool { return g.fullscreen }
func (g *Game) GetAdapter() pixel.Adapter { return g.adapter }
func (g *Game) GetView() *viewport.View { return g.view }
func (g *Game) IsShowingHelp() bool { return g.showHelp }
func (g *Game) IsShowingInfo() bool { return g.showInfo }
func (g *Game) GetInfoText() string { return g.infoText }
func (g *Game) GetInfoLine() string { return g.infoLine }
func (g *Game) GetOverlayMessage() string { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }
func (g *Game) GetFontSize() float64 { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() config.LoadResult { return g.configStatus }
func (g *Game) GetKeybindings() map[string][]string { return g.keybindingManager.GetKeybindings() }
func (g *Game) GetMousebindings() map[string][]string { return g.mousebindingManager.GetMousebindings() }

// GetFileInfo describes the file under the cursor. The file size is read once per load.
func (g *Game) GetFileInfo() FileInfo {
	if g.ctrl == nil {
		return FileInfo{Size: -1}
	}
	cursor, total := g.ctrl.Position()
	p, ok := g.ctrl.Current()
	if !ok {
		return FileInfo{Size: -1, State: g.ctrl.State()}
	}

	if g.sizePath != p.Path {
		g.sizePath = p.Path
		g.size = -1
		if !p.IsArchiveEntry() {
			if info, err := os.Stat(p.DiskPath()); err == nil {
				g.size = info.Size()
			}
		}
	}

	return FileInfo{
		Path:     p.Path,
		Size:     g.size,
		Position: cursor + 1,
		Total:    total,
		State:    g.ctrl.State(),
	}
}
