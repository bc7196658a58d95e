package xcore

import (
	"image"

	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/sys/unix"
)

// shmThreshold is the pixel-count above which the pixmap factory prefers
// a shared-memory PutImage over an in-band one (spec.md §4.1(f)). Chosen
// to match the golang.org/x/exp/shiny x11driver convention of reserving
// SHM for anything bigger than a small icon/glyph blit.
const shmThreshold = 64 * 64

// Pixmap is a drawable the gadget and decoration-rendering code can blit
// an *image.RGBA into, backed by shared memory for large images and a
// plain in-band PutImage for small ones — spec.md §4.1(f).
type Pixmap struct {
	core   *Core
	id     xproto.Pixmap
	gc     xproto.Gcontext
	width  uint16
	height uint16
	shmSeg shm.Seg
	shmID  int
	shmAddr []byte
}

// NewPixmap allocates a pixmap of the given size against drawable's depth,
// choosing the SHM path when available and the image is large enough to
// be worth it.
func (c *Core) NewPixmap(drawable xproto.Drawable, width, height uint16) (*Pixmap, error) {
	id, err := xproto.NewPixmapId(c.Conn)
	if err != nil {
		return nil, &XError{Kind: "NewPixmapId", Err: err}
	}
	depth := c.Screen.RootDepth
	p := &Pixmap{core: c, id: id, width: width, height: height}

	useShm := c.Ext.Shm && int(width)*int(height) >= shmThreshold
	if useShm {
		if err := p.attachShm(depth, drawable); err == nil {
			return p, nil
		}
		// Fall through to in-band creation; attachShm already cleaned up.
	}
	if err := xproto.CreatePixmapChecked(c.Conn, depth, id, drawable, width, height).Check(); err != nil {
		return nil, &XError{Kind: "CreatePixmap", Err: err}
	}
	gc, err := xproto.NewGcontextId(c.Conn)
	if err != nil {
		return nil, &XError{Kind: "NewGcontextId", Err: err}
	}
	if err := xproto.CreateGCChecked(c.Conn, gc, xproto.Drawable(id), 0, nil).Check(); err != nil {
		return nil, &XError{Kind: "CreateGC", Err: err}
	}
	p.gc = gc
	return p, nil
}

func (p *Pixmap) attachShm(depth byte, drawable xproto.Drawable) error {
	c := p.core
	bytesPerPixel := 4
	size := int(p.width) * int(p.height) * bytesPerPixel
	shmid, err := unix.SysvShmGet(0 /* IPC_PRIVATE */, size, unix.IPC_CREAT|0600)
	if err != nil {
		return err
	}
	addr, err := unix.SysvShmAttach(shmid, 0, 0)
	if err != nil {
		return err
	}
	seg, err := shm.NewSegId(c.Conn)
	if err != nil {
		unix.SysvShmDetach(addr)
		return err
	}
	if err := shm.AttachChecked(c.Conn, seg, uint32(shmid), false).Check(); err != nil {
		unix.SysvShmDetach(addr)
		return err
	}
	gc, err := xproto.NewGcontextId(c.Conn)
	if err != nil {
		shm.Detach(c.Conn, seg)
		unix.SysvShmDetach(addr)
		return err
	}
	if err := shm.CreatePixmapChecked(c.Conn, p.id, drawable, p.width, p.height, depth, seg, 0).Check(); err != nil {
		shm.Detach(c.Conn, seg)
		unix.SysvShmDetach(addr)
		return err
	}
	if err := xproto.CreateGCChecked(c.Conn, gc, xproto.Drawable(p.id), 0, nil).Check(); err != nil {
		shm.Detach(c.Conn, seg)
		unix.SysvShmDetach(addr)
		return err
	}
	p.gc = gc
	p.shmSeg = seg
	p.shmID = shmid
	p.shmAddr = addr
	return nil
}

// Blit pushes img's pixels into the pixmap, writing directly into the
// attached shared-memory segment when one is in use, else issuing an
// in-band xproto.PutImage (spec.md §4.1(f)).
func (p *Pixmap) Blit(img *image.RGBA) error {
	if p.shmAddr != nil {
		copy(p.shmAddr, img.Pix)
		return nil
	}
	return xproto.PutImageChecked(
		p.core.Conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(p.id),
		p.gc,
		p.width,
		p.height,
		0, 0, 0,
		p.core.Screen.RootDepth,
		img.Pix,
	).Check()
}

// ID returns the underlying X pixmap id for use in CopyArea/PutImage
// requests issued by callers (e.g. to present the pixmap into a gadget's
// window).
func (p *Pixmap) ID() xproto.Pixmap { return p.id }

// GC returns the graphics context created alongside the pixmap.
func (p *Pixmap) GC() xproto.Gcontext { return p.gc }

// Release frees the pixmap, its graphics context and, if attached, its
// shared-memory segment — refcounted per spec.md §5 ("attach on
// creation, detach and release on drop"); this Pixmap is the sole owner
// so Release always performs the detach.
func (p *Pixmap) Release() {
	if p.gc != 0 {
		xproto.FreeGC(p.core.Conn, p.gc)
	}
	if p.id != 0 {
		xproto.FreePixmap(p.core.Conn, p.id)
	}
	if p.shmSeg != 0 {
		shm.Detach(p.core.Conn, p.shmSeg)
	}
	if p.shmAddr != nil {
		unix.SysvShmDetach(p.shmAddr)
	}
}
