package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/config"
	"github.com/Danondso/micselect/internal/device"
	"github.com/Danondso/micselect/internal/hal"
	"github.com/Danondso/micselect/internal/logging"
	"github.com/Danondso/micselect/internal/render"
)

// globalOpts are shared by every command.
type globalOpts struct {
	Config  string `long:"config" description:"config file path" value-name:"PATH"`
	Backend string `long:"backend" description:"audio backend" choice:"portaudio" choice:"malgo"`
	Filter  string `long:"filter" description:"transport filter" choice:"usb_builtin" choice:"any"`
	Debug   bool   `long:"debug" description:"enable debug logging"`
}

// openBackend opens the named audio backend.
var openBackend = hal.Open

// app is the state built once the global options are parsed. cfg is the file
// as loaded and is what use saves; audio carries the command line overrides
// for this run only.
type app struct {
	cfg     *config.Config
	cfgPath string
	audio   config.AudioConfig
	log     zerolog.Logger
	out     io.Writer
	printer *render.Printer

	closeLog io.Closer
}

func newApp(opts *globalOpts, out, errOut io.Writer) (*app, error) {
	cfgPath := opts.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	audio := cfg.Audio
	if opts.Backend != "" {
		audio.Backend = opts.Backend
	}
	if opts.Filter != "" {
		audio.TransportFilter = opts.Filter
	}

	logger, closer, err := logging.New(cfg.Log, errOut, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	render.RegisterCustomThemes(cfg.CustomThemes)
	return &app{
		cfg:      cfg,
		cfgPath:  cfgPath,
		audio:    audio,
		log:      logger,
		out:      out,
		printer:  render.NewPrinter(render.LoadTheme(cfg.Theme)),
		closeLog: closer,
	}, nil
}

// withResolver opens the configured backend for the duration of fn.
func (a *app) withResolver(fn func(r *device.Resolver) error) error {
	opts, err := a.audio.Options()
	if err != nil {
		return err
	}
	backend, err := openBackend(a.audio.Backend, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close audio backend")
		}
	}()

	a.log.Debug().
		Str("backend", a.audio.Backend).
		Stringer("filter", opts.Filter).
		Stringer("dedupe", opts.Dedupe).
		Msg("resolver ready")
	return fn(device.NewResolver(backend, opts, a.log))
}

func (a *app) Close() error {
	return a.closeLog.Close()
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts globalOpts
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "micselect"
	parser.LongDescription = "List microphones and resolve a device id to a capture handle."

	var a *app
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		var err error
		a, err = newApp(&opts, stdout, stderr)
		if err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	appRef := func() *app { return a }
	mustAdd(parser.AddCommand("list", "List input devices", "Lists usable input devices in OS order.", &listCmd{app: appRef}))
	mustAdd(parser.AddCommand("resolve", "Open a device", "Opens and closes a capture handle for the given id, the configured device, or the system default.", &resolveCmd{app: appRef}))
	mustAdd(parser.AddCommand("lookup", "Find a native device id", "Maps a UID or legacy numeric id to the native device id.", &lookupCmd{app: appRef}))
	mustAdd(parser.AddCommand("use", "Store the preferred device", "Saves the device id to the config file.", &useCmd{app: appRef}))

	_, err := parser.ParseArgs(args)
	if a != nil {
		defer a.Close()
	}
	if err == nil {
		return 0
	}

	var ferr *flags.Error
	if errors.As(err, &ferr) {
		if ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, ferr.Message)
			return 0
		}
		fmt.Fprintln(stderr, ferr.Message)
		return 2
	}
	if a != nil {
		fmt.Fprintln(stderr, a.printer.Error(err))
	} else {
		fmt.Fprintln(stderr, "error:", err)
	}
	return 1
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

type listCmd struct {
	JSON bool `long:"json" description:"print devices as JSON"`

	app func() *app
}

func (c *listCmd) Execute([]string) error {
	a := c.app()
	return a.withResolver(func(r *device.Resolver) error {
		devices := r.ListInputs()
		a.log.Debug().Int("count", len(devices)).Msg("listed input devices")
		if c.JSON {
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(devices)
		}
		fmt.Fprintln(a.out, a.printer.Devices(devices, a.cfg.Audio.DeviceID))
		return nil
	})
}

type resolveCmd struct {
	Args struct {
		ID string `positional-arg-name:"id"`
	} `positional-args:"yes"`

	app func() *app
}

func (c *resolveCmd) Execute([]string) error {
	a := c.app()
	id := c.Args.ID
	if id == "" {
		id = a.cfg.Audio.DeviceID
	}
	return a.withResolver(func(r *device.Resolver) error {
		h, err := r.ResolveID(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.printer.Resolved(id, h))
		if h == nil {
			return nil
		}
		return h.Close()
	})
}

type lookupCmd struct {
	Args struct {
		ID string `positional-arg-name:"uid" required:"yes"`
	} `positional-args:"yes"`

	app func() *app
}

func (c *lookupCmd) Execute([]string) error {
	a := c.app()
	return a.withResolver(func(r *device.Resolver) error {
		id, ok := r.IDToDeviceHandle(c.Args.ID)
		fmt.Fprintln(a.out, a.printer.NativeID(c.Args.ID, id, ok))
		return nil
	})
}

type useCmd struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	app func() *app
}

func (c *useCmd) Execute([]string) error {
	a := c.app()
	return a.withResolver(func(r *device.Resolver) error {
		known := false
		for _, d := range r.ListInputs() {
			if d.ID == c.Args.ID {
				known = true
				break
			}
		}
		if !known {
			if _, ok := r.IDToDeviceHandle(c.Args.ID); !ok {
				return fmt.Errorf("%w: %s", device.ErrDeviceNotFound, c.Args.ID)
			}
			a.log.Warn().Str("id", c.Args.ID).Msg("device is not in the input list, saving anyway")
		}

		a.cfg.Audio.DeviceID = c.Args.ID
		if err := config.Save(a.cfgPath, a.cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		a.log.Info().Str("id", c.Args.ID).Str("config", a.cfgPath).Msg("preferred device saved")
		return nil
	})
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
