package viewer

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Command is one of the file level operations of the viewer
type Command int

const (
	CmdPrevious Command = iota
	CmdNext
	CmdReload
	CmdCycleRetention
	CmdCapture
	CmdDelete
	CmdView3D
)

var commandNames = map[Command]string{
	CmdPrevious:       "previous",
	CmdNext:           "next",
	CmdReload:         "reload",
	CmdCycleRetention: "keep",
	CmdCapture:        "capture",
	CmdDelete:         "delete",
	CmdView3D:         "view_3d",
}

func (cmd Command) String() string {
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(cmd))
}

// ParseCommand returns the command with the given name
func ParseCommand(name string) (Command, bool) {
	for cmd, n := range commandNames {
		if n == name {
			return cmd, true
		}
	}
	return 0, false
}

var commandHandlers = map[Command]func(*Controller){
	CmdPrevious:       (*Controller).previous,
	CmdNext:           (*Controller).next,
	CmdReload:         (*Controller).reload,
	CmdCycleRetention: (*Controller).cycleRetention,
	CmdCapture:        (*Controller).capture,
	CmdDelete:         (*Controller).deleteCurrent,
	CmdView3D:         (*Controller).view3D,
}

// Handle runs cmd. It returns false for unknown commands and after shutdown.
func (c *Controller) Handle(cmd Command) bool {
	if c.state.Closed {
		return false
	}
	handler, ok := commandHandlers[cmd]
	if !ok {
		return false
	}
	log.WithField("command", cmd).Debug("Handling command")
	handler(c)
	return true
}

func (c *Controller) previous() {
	if _, ok := c.nav.Advance(Backward); ok {
		c.load(Backward)
	}
	c.setStatus("")
}

func (c *Controller) next() {
	if _, ok := c.nav.Advance(Forward); ok {
		c.load(Forward)
	}
	c.setStatus("")
}

// reload reads the current file again and toggles watching it
func (c *Controller) reload() {
	if c.binding.Supported() {
		c.state.Watch = !c.state.Watch
	}
	c.load(Forward)
}

func (c *Controller) cycleRetention() {
	c.state.Mode = c.state.Mode.Cycle()
	c.updateTitle()
}

// capture stores the window content as PNG next to the current file
func (c *Controller) capture() {
	p, ok := c.nav.Current()
	if !ok || c.state.Adapter == nil {
		return
	}

	img, err := c.display.Snapshot()
	if err != nil {
		log.WithError(err).Error("Cannot capture window content")
		c.setStatus("Cannot capture window content!")
		return
	}

	name, err := c.files.NewImageName(p.CaptureBase())
	if err != nil {
		log.WithField("base", p.CaptureBase()).WithError(err).Error("Cannot find file name for capture")
		c.setStatus("Sorry, cannot determine file name for storing image!")
		return
	}

	if err := c.files.SaveImage(name, img); err != nil {
		log.WithField("file", name).WithError(err).Error("Cannot save capture")
		c.setStatus("Cannot save " + name + "!")
		return
	}
	c.setStatus("Saved as " + name)
}

// deleteCurrent drops the current file from the list and renames it to NAME.bak.
// The viewer shuts down when no file is left.
func (c *Controller) deleteCurrent() {
	p, ok := c.nav.Current()
	if !ok {
		return
	}

	c.nav.RemoveCurrent(Forward)
	c.load(Forward)

	if err := c.files.Retire(p); err != nil {
		log.WithField("file", p.Path).WithError(err).Error("Cannot remove image file")
		c.setStatus("Cannot remove image file!")
	} else {
		c.setStatus("")
	}

	if c.nav.IsEmpty() {
		c.shutdown()
	}
}

// view3D hands the visible part of a disparity image to the external viewer
func (c *Controller) view3D() {
	a := c.state.Adapter
	if a == nil || c.opts.ViewCommand == "" || c.launcher == nil {
		return
	}
	if a.OriginalDepth() != 1 {
		c.setStatus("Not a disparity image!")
		return
	}

	p, _ := c.nav.Current()
	if _, err := c.files.LookupMetadata(p, c.searchPath()); err != nil {
		log.WithField("file", p.Path).WithError(err).Warn("Cannot find parameter files")
		c.setStatus("Missing parameter files!")
		return
	}

	r := a.ToOriginal(c.display.VisibleRegion())
	arg := ViewArgument(p.Path, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	if err := c.launcher.Launch(c.opts.ViewCommand, arg); err != nil {
		log.WithField("command", c.opts.ViewCommand).WithError(err).Error("Cannot start 3-D viewer")
		c.setStatus("Cannot start " + c.opts.ViewCommand + "!")
	}
}

func (c *Controller) searchPath() string {
	if c.opts.SearchPathEnv == "" {
		return ""
	}
	return c.opts.Getenv(c.opts.SearchPathEnv)
}

// ViewArgument is the argument of the 3-D viewer: the file and the visible region
func ViewArgument(path string, x, y, w, h int) string {
	return fmt.Sprintf("%s,x=%d,y=%d,w=%d,h=%d", path, x, y, w, h)
}
