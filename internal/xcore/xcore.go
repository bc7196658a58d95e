// Package xcore is the XCore facade of spec.md §4.1: a thin, policy-free
// wrapper over the X connection exposing an atom cache, a keymap table, a
// mod-mask that erases lock bits, an event iterator, a pixmap factory and
// send_event. It is grounded directly on the teacher's x11 usage in
// wm/wm.go, wm/frame.go and manager/manager.go — all of which call
// github.com/BurntSushi/xgb/xproto directly against a package-level
// connection and screen — generalized here into an explicit struct
// threaded through constructors (spec.md §9).
package xcore

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// XError wraps a server-reported protocol error with the call that
// produced it, per spec.md §7 ("XProto(kind, params)").
type XError struct {
	Kind   string
	Params []interface{}
	Err    error
}

func (e *XError) Error() string {
	return fmt.Sprintf("xcore: %s%v: %v", e.Kind, e.Params, e.Err)
}

func (e *XError) Unwrap() error { return e.Err }

// ErrDriverMissing is returned when an optional X extension is absent —
// spec.md §7's DriverMissing kind.
type ErrDriverMissing struct {
	Extension string
}

func (e *ErrDriverMissing) Error() string {
	return fmt.Sprintf("xcore: extension not available: %s", e.Extension)
}

// Extensions records which optional protocol extensions this server
// supports, queried once at startup (spec.md §6).
type Extensions struct {
	Xinerama bool
	RandR    bool
	Shm      bool
	XTest    bool
	XFixes   bool
}

// Core is the XCore facade. Every other component receives a *Core at
// construction time instead of touching a package-level connection
// (spec.md §9's "explicit struct wiring").
type Core struct {
	Conn   *xgb.Conn
	Setup  *xproto.SetupInfoReply
	Screen *xproto.ScreenInfoReply
	Root   xproto.Window
	Ext    Extensions

	atomMu    sync.RWMutex
	atomByID  map[xproto.Atom]string
	atomByName map[string]xproto.Atom

	keymap    Keymap
	modMask   uint16 // bits to erase from event.State: lock/numlock/modeswitch

	lastTime  uint32 // xproto.Timestamp, kept as atomic-friendly uint32

	icons *lru.Cache // bounded decoded-icon cache, see SPEC_FULL.md §11
}

// Open dials the X server (using the DISPLAY env var xgb.NewConn reads,
// per spec.md §6) and builds the facade around the default screen.
func Open() (*Core, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xcore: could not connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	icons, err := lru.New(64)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("xcore: could not build icon cache: %w", err)
	}

	c := &Core{
		Conn:       conn,
		Setup:      setup,
		Screen:     screen,
		Root:       screen.Root,
		atomByID:   make(map[xproto.Atom]string, 64),
		atomByName: make(map[string]xproto.Atom, 64),
		icons:      icons,
	}
	c.probeExtensions()
	if err := c.loadKeymap(); err != nil {
		return nil, err
	}
	c.initModMask()
	return c, nil
}

// Close releases the X connection.
func (c *Core) Close() {
	if c.Conn != nil {
		c.Conn.Close()
	}
}

func (c *Core) probeExtensions() {
	c.Ext.Xinerama = c.queryExtension("XINERAMA", func() error { return xinerama.Init(c.Conn) })
	c.Ext.RandR = c.queryExtension("RANDR", func() error { return randr.Init(c.Conn) })
	c.Ext.Shm = c.queryExtension("MIT-SHM", func() error { return shm.Init(c.Conn) })
	c.Ext.XTest = c.queryExtension("XTEST", func() error { return xtest.Init(c.Conn) })
	c.Ext.XFixes = c.queryExtension("XFIXES", func() error { return xfixes.Init(c.Conn) })
}

func (c *Core) queryExtension(name string, init func() error) bool {
	reply, err := xproto.QueryExtension(c.Conn, uint16(len(name)), name).Reply()
	if err != nil || reply == nil || !reply.Present {
		log.WithField("extension", name).Warn("X extension not available, disabling dependent feature")
		return false
	}
	if err := init(); err != nil {
		log.WithField("extension", name).WithError(err).Warn("X extension present but failed to initialize")
		return false
	}
	return true
}

// BecomeWM requests SubstructureRedirect on the root window — the single
// request whose failure (an AccessError) means another WM already owns
// the display (spec.md §6 exit codes).
func (c *Core) BecomeWM(extraMask uint32) error {
	mask := extraMask |
		uint32(xproto.EventMaskKeyPress) |
		uint32(xproto.EventMaskKeyRelease) |
		uint32(xproto.EventMaskButtonPress) |
		uint32(xproto.EventMaskButtonRelease) |
		uint32(xproto.EventMaskPropertyChange) |
		uint32(xproto.EventMaskFocusChange) |
		uint32(xproto.EventMaskStructureNotify) |
		uint32(xproto.EventMaskSubstructureRedirect)
	return xproto.ChangeWindowAttributesChecked(c.Conn, c.Root, xproto.CwEventMask, []uint32{mask}).Check()
}

// NextEvent blocks for the next X event, recording its server timestamp
// when the event carries one (spec.md §4.1 "timestamps every inbound
// event and publishes last_time").
func (c *Core) NextEvent() (xgb.Event, error) {
	ev, err := c.Conn.WaitForEvent()
	if err != nil {
		return nil, err
	}
	if ts, ok := eventTimestamp(ev); ok {
		atomic.StoreUint32(&c.lastTime, uint32(ts))
	}
	return ev, nil
}

// LastTime returns the most recent server timestamp seen by NextEvent,
// used by focus and selection requests that must not race stale input.
func (c *Core) LastTime() xproto.Timestamp {
	return xproto.Timestamp(atomic.LoadUint32(&c.lastTime))
}

func eventTimestamp(ev xgb.Event) (xproto.Timestamp, bool) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return e.Time, true
	case xproto.KeyReleaseEvent:
		return e.Time, true
	case xproto.ButtonPressEvent:
		return e.Time, true
	case xproto.ButtonReleaseEvent:
		return e.Time, true
	case xproto.MotionNotifyEvent:
		return e.Time, true
	case xproto.EnterNotifyEvent:
		return e.Time, true
	case xproto.LeaveNotifyEvent:
		return e.Time, true
	case xproto.PropertyNotifyEvent:
		return e.Time, true
	}
	return 0, false
}

// SendEvent packs a 32-byte synthetic event and transmits it to dest —
// spec.md §4.1(g). data must already be the serialized event body (as
// produced by an xproto ...Event's Bytes method).
func (c *Core) SendEvent(dest xproto.Window, eventMask uint32, data []byte) error {
	return xproto.SendEventChecked(c.Conn, false, dest, eventMask, string(data)).Check()
}

// IconCache exposes the bounded LRU used to memoize decoded _NET_WM_ICON
// buffers (spec.md §4.5, SPEC_FULL.md §11).
func (c *Core) IconCache() *lru.Cache { return c.icons }
