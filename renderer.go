package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"sv/internal/pixel"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const (
	minHelpFontSize = 12.0
	statusLineCells = 120
	maxHelpWarnings = 2
)

// textureKey identifies the rendering of an adapter. Every change to the
// display parameters bumps the revision, so stale textures are never reused.
type textureKey struct {
	adapter  pixel.Adapter
	revision uint64
}

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	textures    *lru.Cache[textureKey, *ebiten.Image]
}

// NewRenderer creates a Renderer keeping up to cacheSize textures on the GPU
func NewRenderer(renderState RenderState, cacheSize int) (*Renderer, error) {
	textures, err := lru.NewWithEvict(cacheSize, func(_ textureKey, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture cache: %w", err)
	}
	return &Renderer{
		renderState: renderState,
		textures:    textures,
	}, nil
}

// texture returns the GPU image for the current rendering of a
func (r *Renderer) texture(a pixel.Adapter) *ebiten.Image {
	key := textureKey{adapter: a, revision: a.Revision()}
	if img, ok := r.textures.Get(key); ok {
		return img
	}
	img := ebiten.NewImageFromImage(a.Render())
	r.textures.Add(key, img)
	return img
}

// Forget drops every texture of a, releasing the adapter and its samples
func (r *Renderer) Forget(a pixel.Adapter) {
	for _, key := range r.textures.Keys() {
		if key.adapter == a {
			r.textures.Remove(key)
		}
	}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	a := r.renderState.GetAdapter()
	if a != nil {
		r.drawAdapter(screen, a)
	}

	if msg := r.renderState.GetInfoText(); msg != "" {
		DrawMessageBox(screen, msg, newFace(r.renderState.GetFontSize()), colorLightRed)
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen, a)
	}

	if line := r.renderState.GetInfoLine(); line != "" {
		r.drawStatusLine(screen, line)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		DrawMessageBox(screen, r.renderState.GetOverlayMessage(), newFace(r.renderState.GetFontSize()), colorWhite)
	}
}

func (r *Renderer) drawAdapter(screen *ebiten.Image, a pixel.Adapter) {
	img := r.texture(a)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	layout := r.renderState.GetView().Layout(a.Width(), a.Height(), w, h)

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(layout.Scale, layout.Scale)
	op.GeoM.Translate(layout.X, layout.Y)
	screen.DrawImage(img, op)
}

// infoLines describes the file and the display parameters
func infoLines(info FileInfo, a pixel.Adapter, zoom float64) []string {
	if info.Total == 0 {
		return []string{"0 / 0"}
	}

	first := fmt.Sprintf("%d / %d  %s", info.Position, info.Total, filepath.Base(info.Path))
	if info.Size >= 0 {
		first += "  " + humanize.Bytes(uint64(info.Size))
	}
	if a == nil {
		return []string{first}
	}

	channel := "all"
	if a.Channel() != pixel.ChannelAll {
		channel = fmt.Sprintf("%d", a.Channel())
	}
	watching := "off"
	if info.State.Watch {
		watching = "on"
	}
	second := fmt.Sprintf("%dx%dx%d %s  window [%g, %g]  map %s  channel %s",
		a.OriginalWidth(), a.OriginalHeight(), a.OriginalDepth(), a.OriginalType(),
		a.MinIntensity(), a.MaxIntensity(), a.Mapping(), channel)
	third := fmt.Sprintf("rotation %d  flip %t  keep %s  watch %s  zoom %.0f%%",
		a.Rotation()*90, a.Flipped(), info.State.Mode, watching, zoom*100)
	return []string{first, second, third}
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image, a pixel.Adapter) {
	infoFont := newFace(r.renderState.GetFontSize())
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	zoom := 1.0
	if a != nil {
		zoom = r.renderState.GetView().Layout(a.Width(), a.Height(), w, h).Scale
	}
	lines := infoLines(r.renderState.GetFileInfo(), a, zoom)

	// Position at bottom right corner
	padding := 10.0
	lineHeight := r.renderState.GetFontSize() * 1.3
	maxWidth := 0.0
	for _, line := range lines {
		lw, _ := text.Measure(line, infoFont, 0)
		if lw > maxWidth {
			maxWidth = lw
		}
	}
	blockHeight := lineHeight * float64(len(lines))
	textX := float64(w) - maxWidth - padding
	textY := float64(h) - blockHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, maxWidth+bgPadding*2, blockHeight+bgPadding*2, bgColorLight)

	for i, line := range lines {
		DrawText(screen, line, infoFont, textX, textY+float64(i)*lineHeight, colorWhite)
	}
}

// drawStatusLine shows the result of the last file command at the bottom left
func (r *Renderer) drawStatusLine(screen *ebiten.Image, line string) {
	statusFont := newFace(r.renderState.GetFontSize())
	line = truncateText(line, statusLineCells)

	textWidth, textHeight := text.Measure(line, statusFont, 0)
	padding := 10.0
	textX := padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	DrawFilledRect(screen, textX-5, textY-5, textWidth+10, textHeight+10, bgColorDark)
	DrawText(screen, line, statusFont, textX, textY, colorYellow)
}

// helpRow is one action of the help overlay
type helpRow struct {
	action      string
	keys        string
	mouse       string
	description string
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpRows returns the bound actions sorted by name
func helpRows(keybindings, mousebindings map[string][]string) []helpRow {
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

// helpColumns measures the widest action name and input string at a font size
func helpColumns(rows []helpRow, font *text.GoTextFace) (actionWidth, inputWidth, descWidth float64) {
	for _, row := range rows {
		if w, _ := text.Measure(row.action, font, 0); w > actionWidth {
			actionWidth = w
		}
		if w, _ := text.Measure(row.input(), font, 0); w > inputWidth {
			inputWidth = w
		}
		if w, _ := text.Measure(row.description, font, 0); w > descWidth {
			descWidth = w
		}
	}
	return actionWidth, inputWidth, descWidth
}

func (r *Renderer) configWarnings() []string {
	warnings := r.renderState.GetConfigStatus().Warnings
	if len(warnings) > maxHelpWarnings {
		warnings = warnings[:maxHelpWarnings]
	}
	short := make([]string, len(warnings))
	for i, warning := range warnings {
		short[i] = "• " + truncateText(warning, 50)
	}
	return short
}

// requiredHelpSize calculates the space the help content needs at a given font size
func (r *Renderer) requiredHelpSize(rows []helpRow, fontSize float64) (float64, float64) {
	font := newFace(fontSize)
	lineHeight := fontSize * 1.5
	warnings := r.configWarnings()

	height := fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * 3
	height += float64(len(warnings)) * lineHeight

	actionWidth, inputWidth, descWidth := helpColumns(rows, font)
	width := 40 + actionWidth + 20 + 30 + inputWidth + 20 + descWidth + 20
	for _, warning := range warnings {
		if w, _ := text.Measure(warning, font, 0); w+40 > width {
			width = w + 40
		}
	}
	return width, height
}

// optimalHelpFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) optimalHelpFontSize(rows []helpRow, availableWidth, availableHeight float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.requiredHelpSize(rows, size)
		return w <= availableWidth && h <= availableHeight
	}

	maxFontSize := r.renderState.GetFontSize()
	if !fits(minHelpFontSize) {
		return minHelpFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high := minHelpFontSize, maxFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	padding := 40.0

	rows := helpRows(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	fontSize, canFit := r.optimalHelpFontSize(rows, w-padding*2, h-padding*2)

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	if !canFit {
		DrawMessageBox(screen, "Window too small for help", newFace(minHelpFontSize), colorWhite)
		return
	}

	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)
	helpFont := newFace(fontSize)
	lineHeight := fontSize * 1.5

	titleY := padding + 30
	DrawText(screen, "HELP:", helpFont, padding+20, titleY, colorWhite)
	currentY := titleY + fontSize*2

	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	actionWidth, inputWidth, _ := helpColumns(rows, helpFont)
	actionColumnX := padding + 40
	arrowColumnX := actionColumnX + actionWidth + 20
	inputColumnX := arrowColumnX + 30
	descColumnX := inputColumnX + inputWidth + 20

	for _, row := range rows {
		DrawText(screen, row.action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)

		x := inputColumnX
		if row.keys != "" {
			DrawText(screen, row.keys, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(row.keys, helpFont, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, row.description, helpFont, descColumnX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight

	status := r.renderState.GetConfigStatus().Status
	statusColor := colorGreen
	if status == "Warning" || status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, "Config Status: "+status, helpFont, padding+40, currentY, statusColor)
	currentY += lineHeight

	for _, warning := range r.configWarnings() {
		DrawText(screen, warning, helpFont, padding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}
