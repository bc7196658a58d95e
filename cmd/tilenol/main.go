// Command tilenol is the window manager's entry point: it opens the X
// connection, builds every component SPEC_FULL.md names, wires them
// together against a config.Config, and runs the dispatcher until the
// connection closes or a fatal error occurs. Grounded on
// manager.Manager.New/Init's "connect, then build" shape, generalized
// from its single hard-coded Manager into this module's explicit
// component graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/classify"
	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/config"
	"github.com/tailhook/tilenol/internal/dispatch"
	"github.com/tailhook/tilenol/internal/emul"
	"github.com/tailhook/tilenol/internal/envcmd"
	"github.com/tailhook/tilenol/internal/ewmh"
	"github.com/tailhook/tilenol/internal/gadget"
	"github.com/tailhook/tilenol/internal/gesture"
	"github.com/tailhook/tilenol/internal/group"
	"github.com/tailhook/tilenol/internal/keyboard"
	"github.com/tailhook/tilenol/internal/pointer"
	"github.com/tailhook/tilenol/internal/screen"
	"github.com/tailhook/tilenol/internal/xcore"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	backlightDir := flag.String("backlight-dir", "", "sysfs backlight directory, e.g. /sys/class/backlight/intel_backlight")
	menuLines := flag.Int("menu-lines", 10, "maximum rows the launcher menu shows at once")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilenol: %v\n", err)
		os.Exit(1)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := run(*backlightDir, *menuLines); err != nil {
		log.WithError(err).Fatal("tilenol: fatal error")
	}
}

func run(backlightDir string, menuLines int) error {
	cfg := config.Default()

	core, err := xcore.Open()
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}

	commander := command.NewRegistry()

	outers, err := screen.DiscoverScreens(core)
	if err != nil {
		return fmt.Errorf("discover screens: %w", err)
	}
	screens := screen.NewManager(commander, outers)

	factories := config.LayoutFactories()
	groups := make([]*group.Group, 0, len(cfg.Groups))
	for _, gc := range cfg.Groups {
		groups = append(groups, group.New(gc.Name, factories, gc.DefaultLayout, commander))
	}
	groupMan := group.NewManager(commander, screens, groups)

	// classify.MoveToGroup(resolveGroup) and classifier.AddRule are the
	// hooks an external config-file layer would drive (spec.md §1's
	// declared Non-goal); Default() ships no classifier rules, so the
	// classifier here starts empty and is still exercised on every
	// managed window through dispatch's MapRequest handler.
	classifier := classify.New()

	keys := keyboard.New(core, core.Root)
	ptr := pointer.New(core, commander, core.Root, cfg.Pointer.Modifier)

	surface, err := ewmh.New(core)
	if err != nil {
		return fmt.Errorf("ewmh: %w", err)
	}

	disp := dispatch.New(core, commander, screens, groupMan, classifier, keys, ptr, surface,
		dispatch.Borders{Active: cfg.Borders.ActiveColor, Inactive: cfg.Borders.InactiveColor, Width: cfg.Borders.Width})

	envcmd.New(commander, backlightDir)
	envcmd.NewTilenol(commander, os.Args[0], os.Args[1:])
	emul.New(core, commander)

	if len(screens.Screens) == 0 {
		return fmt.Errorf("no screens discovered")
	}
	if _, err := gadget.NewMenu(core, disp, commander, screens.Screens[0], menuLines, func(cmd string) error {
		return commander.Call("env", "shell", cmd)
	}); err != nil {
		log.WithError(err).Warn("menu gadget unavailable")
	}

	if cfg.Tabs.Enabled {
		for _, scr := range screens.Screens {
			if _, err := gadget.NewTabs(core, disp, commander, scr, groupMan, cfg.Tabs.Width); err != nil {
				log.WithError(err).Warn("tabs gadget unavailable on screen")
			}
		}
	}

	for _, kb := range cfg.Keys {
		kb := kb
		if err := keys.AddKey(kb.Spec, func() error {
			return commander.Call(kb.Object, kb.Verb, kb.Args...)
		}); err != nil {
			log.WithError(err).WithField("spec", kb.Spec).Warn("skipping unparseable key binding")
		}
	}
	keys.RegisterKeys()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if src, err := gesture.OpenSHMSource(); err != nil {
		log.WithError(err).Info("gesture recognizer disabled")
	} else {
		defer src.Close()
		recognizer := gesture.NewRecognizer(src, nil, commander)
		go func() {
			if err := recognizer.Run(ctx); err != nil && err != context.Canceled {
				log.WithError(err).Warn("gesture recognizer stopped")
			}
		}()
	}

	log.Info("tilenol: running")
	return disp.Run()
}
