package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sv/internal/config"
	"sv/internal/imageio"
	"sv/internal/launch"
	"sv/internal/pixel"
	"sv/internal/viewer"
	"sv/internal/watch"
)

var version = "dev"

// cliOptions holds the command line flags. Flags that were given override the
// configuration file.
type cliOptions struct {
	watch      bool
	keep       string
	mapping    string
	channel    int
	imin, imax float64
	vmin, vmax float64
	viewCmd    string
	sortMethod int
	match      string
	debug      bool
}

// startup is everything main needs besides the file list
type startup struct {
	viewer  viewer.Options
	collect imageio.CollectOptions
	valid   viewer.Range
}

// buildStartup merges the configuration with the flags reported by changed
func buildStartup(cfg config.Config, cli cliOptions, changed func(string) bool) (startup, error) {
	keep, mapping := cfg.Keep, cfg.Mapping
	if changed("keep") {
		keep = cli.keep
	}
	if changed("map") {
		mapping = cli.mapping
	}

	mode, err := viewer.ParseRetentionMode(keep)
	if err != nil {
		return startup{}, err
	}
	m, err := pixel.ParseMapping(mapping)
	if err != nil {
		return startup{}, err
	}

	s := startup{
		viewer: viewer.Options{
			Watch:         cfg.Watch,
			Keep:          mode,
			Mapping:       m,
			Channel:       cfg.Channel,
			ViewCommand:   cfg.ViewCommand,
			SearchPathEnv: cfg.SearchPathEnv,
		},
		collect: imageio.CollectOptions{SortMethod: cfg.SortMethod, Match: cli.match},
	}

	if changed("watch") {
		s.viewer.Watch = cli.watch
	}
	if changed("channel") {
		if cli.channel < pixel.ChannelAll {
			return startup{}, fmt.Errorf("%w: channel %d", viewer.ErrInvalidArgument, cli.channel)
		}
		s.viewer.Channel = cli.channel
	}
	if changed("view-cmd") {
		s.viewer.ViewCommand = cli.viewCmd
	}
	if changed("sort") {
		s.collect.SortMethod = cli.sortMethod
	}

	s.viewer.InitWindow = viewer.Range{Min: cli.imin, Max: cli.imax}
	s.valid = viewer.Range{Min: cli.vmin, Max: cli.vmax}
	s.viewer.ValidRange = s.valid
	return s, nil
}

func newRootCmd() *cobra.Command {
	var cli cliOptions

	cmd := &cobra.Command{
		Use:     "sv [flags] FILE|DIRECTORY|ARCHIVE...",
		Short:   "A viewer for 8 bit, 16 bit and float images",
		Long:    `sv shows images one at a time. A single file shows all images of its directory, starting at that file.`,
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.debug {
				log.SetLevel(log.DebugLevel)
			}
			return run(args, cli, cmd.Flags().Changed)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.BoolVarP(&cli.watch, "watch", "w", false, "reload the image when its file changes")
	f.StringVarP(&cli.keep, "keep", "k", "none", "keep display settings across images: none, most or all")
	f.StringVarP(&cli.mapping, "map", "m", "raw", "intensity mapping: raw or inverse")
	f.IntVarP(&cli.channel, "channel", "c", pixel.ChannelAll, "show only this channel, -1 for all")
	f.Float64Var(&cli.imin, "imin", 0, "initial lower bound of the intensity window")
	f.Float64Var(&cli.imax, "imax", 0, "initial upper bound of the intensity window")
	f.Float64Var(&cli.vmin, "vmin", 0, "smallest valid sample value")
	f.Float64Var(&cli.vmax, "vmax", 0, "largest valid sample value")
	f.StringVar(&cli.viewCmd, "view-cmd", "", "external 3-D viewer for disparity images")
	f.IntVar(&cli.sortMethod, "sort", imageio.SortNatural, "sort method: 0 natural, 1 simple, 2 entry order")
	f.StringVar(&cli.match, "match", "", "only collect files whose name matches this glob")
	f.BoolVar(&cli.debug, "debug", false, "enable debug logging")

	return cmd
}

func run(args []string, cli cliOptions, changed func(string) bool) error {
	if err := InitGraphics(); err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	result := config.Load(GetDefaultKeybindings())
	cfg := result.Config

	s, err := buildStartup(cfg, cli, changed)
	if err != nil {
		return err
	}

	paths, first, err := imageio.Collect(args, s.collect)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no image files specified")
	}
	s.viewer.First = first
	log.WithFields(log.Fields{"files": len(paths), "first": paths[first].Path}).Debug("Collected images")

	c := viewer.Collaborators{
		Decoder:  imageio.NewLoader(s.valid.Min, s.valid.Max),
		Files:    imageio.DiskFiles{},
		Launcher: launch.New(),
	}

	var events <-chan watch.Event
	src, err := watch.New(time.Duration(cfg.WatchDebounceMs) * time.Millisecond)
	if err != nil {
		log.WithError(err).Warn("File watching unavailable")
	} else {
		defer src.Close()
		c.Watch = src
		events = src.Events()
	}

	g, err := newGame(result, events)
	if err != nil {
		return err
	}
	c.Display = g

	ebiten.SetWindowTitle("Image")
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Fullscreen {
		g.savedWinW, g.savedWinH = cfg.WindowWidth, cfg.WindowHeight
		ebiten.SetFullscreen(true)
	}

	ctrl, err := viewer.New(paths, s.viewer, c)
	if err != nil {
		return err
	}
	g.attach(ctrl)

	return ebiten.RunGame(g)
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
