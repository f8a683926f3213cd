package viewer

import (
	"fmt"
	"image"
	"os"

	log "github.com/sirupsen/logrus"

	"sv/internal/imageio"
	"sv/internal/pixel"
	"sv/internal/watch"
)

// Decoder turns a file into an adapter
type Decoder interface {
	AttemptDecode(p imageio.ImagePath) (pixel.Adapter, error)
}

// Files performs the file system side effects of the viewer
type Files interface {
	ViewProperties(p imageio.ImagePath) (imageio.Properties, error)
	LookupMetadata(p imageio.ImagePath, searchPath string) (imageio.Properties, error)
	NewImageName(base string) (string, error)
	SaveImage(name string, img image.Image) error
	Retire(p imageio.ImagePath) error
}

// Display is the window showing the adapter
type Display interface {
	// SetAdapter replaces the image. keepView asks to keep zoom and position.
	SetAdapter(a pixel.Adapter, keepView bool)
	SetTitle(title string)
	SetInfoText(text string)
	SetInfoLine(line string)
	// Snapshot returns the content of the window as displayed
	Snapshot() (image.Image, error)
	// VisibleRegion is the part of the rotated adapter image inside the window
	VisibleRegion() image.Rectangle
	Close()
}

// Launcher starts an external program without waiting for it
type Launcher interface {
	Launch(command string, args ...string) error
}

// Collaborators are the components a Controller drives. Watch and Launcher may be nil.
type Collaborators struct {
	Decoder  Decoder
	Files    Files
	Display  Display
	Watch    WatchSource
	Launcher Launcher
}

// Options are the initial settings of a Controller
type Options struct {
	First       int
	Watch       bool
	Keep        RetentionMode
	Mapping     pixel.Mapping
	Channel     int   // single channel to show, or pixel.ChannelAll
	InitWindow  Range // intensity window for a fresh start, unset means the image bounds
	ValidRange  Range // window forced by KeepAll
	ViewCommand string

	// SearchPathEnv names the environment variable with the parameter file search path
	SearchPathEnv string
	Getenv        func(string) string
}

// ViewerState is the observable state of a Controller
type ViewerState struct {
	Adapter  pixel.Adapter
	Mode     RetentionMode
	Watch    bool
	Params   DisplayParams
	Title    string
	InfoText string
	Status   string
	Closed   bool
}

// Controller owns the file list and the viewer state. It is not safe for
// concurrent use; the host calls it from its event loop only.
type Controller struct {
	nav      *Navigator
	decoder  Decoder
	files    Files
	display  Display
	launcher Launcher
	binding  *Binding
	opts     Options

	state   ViewerState
	natural Range // intensity bounds of the adapter as decoded
}

// New creates a Controller and loads the first decodable file starting at opts.First
func New(paths []imageio.ImagePath, opts Options, c Collaborators) (*Controller, error) {
	if c.Decoder == nil || c.Files == nil || c.Display == nil {
		return nil, fmt.Errorf("%w: decoder, files and display are required", ErrInvalidArgument)
	}

	nav, err := NewNavigator(paths, opts.First)
	if err != nil {
		return nil, err
	}

	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	ctrl := &Controller{
		nav:      nav,
		decoder:  c.Decoder,
		files:    c.Files,
		display:  c.Display,
		launcher: c.Launcher,
		binding:  NewBinding(c.Watch),
		opts:     opts,
		state: ViewerState{
			Mode:  opts.Keep,
			Watch: opts.Watch,
			Params: DisplayParams{
				Window:  opts.InitWindow,
				Mapping: opts.Mapping,
				Channel: opts.Channel,
			},
		},
	}

	ctrl.load(Forward)
	return ctrl, nil
}

// State returns a copy of the current state
func (c *Controller) State() ViewerState {
	return c.state
}

// Current returns the file under the cursor
func (c *Controller) Current() (imageio.ImagePath, bool) {
	return c.nav.Current()
}

// Position returns the cursor and the length of the file list
func (c *Controller) Position() (int, int) {
	return c.nav.Cursor(), c.nav.Len()
}

// Notify handles a change event. Only the live subscription reloads.
func (c *Controller) Notify(id watch.ID) bool {
	if c.state.Closed || !c.binding.Matches(id) {
		return false
	}
	log.WithField("id", id).Debug("Reloading changed file")
	c.load(Forward)
	return true
}

// Close releases the watch subscription
func (c *Controller) Close() {
	c.binding.Release()
}

// load decodes the file under the cursor. Files that cannot be decoded are removed
// from the list in direction dir until one succeeds or the list is empty.
func (c *Controller) load(dir Direction) {
	var a pixel.Adapter
	for {
		p, ok := c.nav.Current()
		if !ok {
			break
		}
		adapter, err := c.decoder.AttemptDecode(p)
		if err == nil {
			a = adapter
			break
		}
		log.WithField("file", p.Path).WithError(err).Warn("Cannot load image")
		c.nav.RemoveCurrent(dir)
	}

	if a == nil {
		c.binding.Release()
		c.state.Watch = false
		c.state.Adapter = nil
		c.display.SetAdapter(nil, false)
		c.setTitle("Image")
		c.setInfoText("No image!")
		return
	}

	p, _ := c.nav.Current()
	_, c.state.Watch = c.binding.Rebind(c.state.Watch, p.DiskPath())

	props, err := c.files.ViewProperties(p)
	if err != nil {
		log.WithField("file", p.Path).WithError(err).Warn("Cannot read view properties")
	}
	a.SetRotationFlip(props.Int("rotation", 0)/90, props.Bool("flip", false))

	c.natural = Range{Min: a.MinIntensity(), Max: a.MaxIntensity()}
	params := Decide(c.state.Mode, c.state.Params, c.defaults(), c.opts.ValidRange)
	params.apply(a)
	c.record(a, params.Channel)
	c.state.Adapter = a

	c.display.SetAdapter(a, c.state.Mode != KeepNone)
	c.setInfoText("")
	c.updateTitle()
}

// record stores the parameters of a in the state. A channel a does not have is
// kept as requested, so that the next file with enough channels shows it again.
func (c *Controller) record(a pixel.Adapter, channel int) {
	p := paramsOf(a)
	if a.Channel() == pixel.ChannelAll && channel >= a.OriginalDepth() {
		p.Channel = channel
	}
	c.state.Params = p
}

// defaults are the parameters of a fresh start for the adapter just decoded
func (c *Controller) defaults() DisplayParams {
	d := DisplayParams{
		Window:  c.opts.InitWindow,
		Mapping: c.opts.Mapping,
		Channel: c.opts.Channel,
	}
	if !d.Window.IsSet() {
		d.Window = c.natural
	}
	return d
}

func (c *Controller) updateTitle() {
	p, ok := c.nav.Current()
	if !ok || c.state.Adapter == nil {
		c.setTitle("Image")
		return
	}
	c.setTitle(Title(p, c.state.Adapter, c.state.Watch, c.state.Mode))
}

func (c *Controller) setTitle(title string) {
	c.state.Title = title
	c.display.SetTitle(title)
}

func (c *Controller) setInfoText(text string) {
	c.state.InfoText = text
	c.display.SetInfoText(text)
}

func (c *Controller) setStatus(line string) {
	c.state.Status = line
	c.display.SetInfoLine(line)
}

// shutdown closes the display once
func (c *Controller) shutdown() {
	if c.state.Closed {
		return
	}
	c.state.Closed = true
	c.binding.Release()
	c.display.Close()
}
