// Package envcmd implements the "env" and "tilenol" command-surface
// objects spec.md §6 lists (`env.exec`, `env.shell`, `env.backlight_inc`/
// `_dec`, `tilenol.restart`). None of these touch the X connection, so
// unlike every other command-surface object in this module they need no
// xcore.Core — they are the one place this WM reaches into the OS
// process/filesystem layer directly, grounded on dewm and i3-style tiling
// WMs' "exec a shell command" launcher key, a convention the whole
// retrieval pack's X11 WMs share even though none of marwind's retrieved
// slice implements it. Process exec and sysfs brightness control have no
// third-party library anywhere in the retrieval pack, so this package is
// the one place in the module that stays on the standard library by
// necessity (os/exec, os) rather than choice.
package envcmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/command"
)

// Env registers "env" (spec.md §6: exec, shell, backlight_inc/_dec).
type Env struct {
	backlightDir string // e.g. /sys/class/backlight/intel_backlight
}

// New registers the "env" object against commander. backlightDir may be
// empty, in which case backlight_inc/_dec are no-ops (logged at warning
// on every call) — most test/CI environments have no backlight sysfs node.
func New(commander *command.Registry, backlightDir string) *Env {
	e := &Env{backlightDir: backlightDir}
	commander.Set("env", e)
	commander.RegisterVerbs("env", map[string]func(args ...string) error{
		"exec":           e.cmdExec,
		"shell":          e.cmdShell,
		"backlight_inc":  e.cmdBacklightInc,
		"backlight_dec":  e.cmdBacklightDec,
	})
	return e
}

// cmdExec runs args[0] with the rest as arguments, detached from the WM's
// own stdio/process group so it survives cmd_restart — env.exec in
// spec.md §6.
func (e *Env) cmdExec(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("env.exec: no command given")
	}
	cmd := exec.Command(args[0], args[1:]...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("env.exec: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// cmdShell runs args joined by spaces through $SHELL -c, env.shell in
// spec.md §6.
func (e *Env) cmdShell(args ...string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", strings.Join(args, " "))
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("env.shell: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (e *Env) cmdBacklightInc(args ...string) error { return e.adjustBacklight(5) }
func (e *Env) cmdBacklightDec(args ...string) error { return e.adjustBacklight(-5) }

// adjustBacklight nudges the backlight's brightness file by deltaPercent
// of max_brightness, clamped to [0, max].
func (e *Env) adjustBacklight(deltaPercent int) error {
	if e.backlightDir == "" {
		log.Warn("env: no backlight device configured, ignoring backlight_inc/_dec")
		return nil
	}
	maxPath := filepath.Join(e.backlightDir, "max_brightness")
	curPath := filepath.Join(e.backlightDir, "brightness")
	max, err := readInt(maxPath)
	if err != nil {
		return fmt.Errorf("env: backlight: %w", err)
	}
	cur, err := readInt(curPath)
	if err != nil {
		return fmt.Errorf("env: backlight: %w", err)
	}
	next := cur + max*deltaPercent/100
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	if err := os.WriteFile(curPath, []byte(strconv.Itoa(next)), 0644); err != nil {
		return fmt.Errorf("env: backlight: %w", err)
	}
	return nil
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// Tilenol registers "tilenol" (spec.md §6: restart).
type Tilenol struct {
	argv0 string
	args  []string
}

// NewTilenol registers the "tilenol" object; argv0/args are the process's
// own invocation, captured once at startup.
func NewTilenol(commander *command.Registry, argv0 string, args []string) *Tilenol {
	t := &Tilenol{argv0: argv0, args: args}
	commander.Set("tilenol", t)
	commander.RegisterVerbs("tilenol", map[string]func(args ...string) error{
		"restart": t.cmdRestart,
	})
	return t
}

// cmdRestart re-execs the running process in place (spec.md §5 "cmd_restart
// re-execs the process; the ChangeSaveSet discipline keeps clients alive
// across the brief gap"). syscall.Exec replaces the process image without
// forking, so existing X clients are unaffected — they stay reparented
// via XSetCloseDownMode/ChangeSaveSet, exactly as the teacher relies on.
func (t *Tilenol) cmdRestart(args ...string) error {
	path, err := exec.LookPath(t.argv0)
	if err != nil {
		path = t.argv0
	}
	log.Info("tilenol: restarting")
	return syscall.Exec(path, append([]string{path}, t.args...), os.Environ())
}
