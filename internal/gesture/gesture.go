// Package gesture implements the touchpad multi-finger gesture recognizer
// of spec.md §4.9 "Touchpad gestures". It is grounded directly on
// tilenol/gestures.py: the SynapticsSHM struct layout, the
// START/PARTIAL/FULL/UNDO/COMMIT/CANCEL state machine, and the 20°-wide
// direction buckets keyed by "<N>f-<direction>".
package gesture

import (
	"context"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/command"
)

// State names the recognizer's current phase for a gesture in progress.
type State int

const (
	Start State = iota
	Partial
	Full
	Commit
	Undo
	Cancel
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Partial:
		return "partial"
	case Full:
		return "full"
	case Commit:
		return "commit"
	case Undo:
		return "undo"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Direction is one of the eight 20°-wide compass buckets gestures.py
// matches against (the bucket boundaries come straight from the original's
// `directions` table: up/upright/right/downright/down/downleft/left/upleft,
// each allowing a straddling epsilon on "up" only since atan2 wraps at ±π).
type Direction string

const (
	Up        Direction = "up"
	UpRight   Direction = "upright"
	Right     Direction = "right"
	DownRight Direction = "downright"
	Down      Direction = "down"
	DownLeft  Direction = "downleft"
	Left      Direction = "left"
	UpLeft    Direction = "upleft"
)

const gradToRad = math.Pi / 180

var directionBounds = map[Direction][2]float64{
	UpRight:   {110 * gradToRad, 160 * gradToRad},
	Right:     {70 * gradToRad, 110 * gradToRad},
	DownRight: {20 * gradToRad, 70 * gradToRad},
	Down:      {-20 * gradToRad, 20 * gradToRad},
	DownLeft:  {-70 * gradToRad, -20 * gradToRad},
	Left:      {-110 * gradToRad, -70 * gradToRad},
	UpLeft:    {-160 * gradToRad, -110 * gradToRad},
}

func matchesDirection(dir Direction, angle float64) bool {
	if dir == Up {
		return angle < -160*gradToRad || angle > 160*gradToRad
	}
	b, ok := directionBounds[dir]
	if !ok {
		return false
	}
	return angle >= b[0] && angle <= b[1]
}

// Binding is one configured gesture: N fingers, a Direction, and the
// distances at which it arms (DetectDistance) and commits (CommitDistance),
// plus the command it invokes on Commit.
type Binding struct {
	Fingers        int
	Direction      Direction
	DetectDistance float64
	CommitDistance float64
	Object, Verb   string
	Args           []string
}

func (b Binding) name() string {
	return string(rune('0'+b.Fingers)) + "f-" + string(b.Direction)
}

// Sample is one poll of the shared-memory touchpad state (spec.md §6:
// "version, x, y, z, numFingers, fingerWidth, buttons[4], multi[8], middle").
type Sample struct {
	X, Y        int32
	NumFingers  int32
}

// Source is anything the Recognizer can poll at 10 Hz for the current
// touchpad sample — implemented by the SHM-backed reader in shm.go, and
// fakeable in tests.
type Source interface {
	Sample() (Sample, error)
}

// Callback is invoked on every state transition of an active gesture,
// mirroring gestures.py's per-gesture callback list (`f(name, percent,
// state, cfg)`).
type Callback func(name string, percent float64, state State)

// Recognizer polls Source at 10 Hz and runs the gesture state machine.
type Recognizer struct {
	src        Source
	bindings   []Binding
	commander  *command.Registry
	callbacks  []Callback
	pollEvery  time.Duration
	sampleEvery time.Duration
}

// NewRecognizer builds a Recognizer. pollEvery is the idle "is a
// multi-finger gesture starting" poll (10 Hz per spec.md §4.9);
// sampleEvery is the 10 Hz during-gesture sampling the original uses
// (`sleep(0.1)`) once a candidate gesture is detected.
func NewRecognizer(src Source, bindings []Binding, commander *command.Registry) *Recognizer {
	return &Recognizer{
		src:         src,
		bindings:    bindings,
		commander:   commander,
		pollEvery:   100 * time.Millisecond,
		sampleEvery: 100 * time.Millisecond,
	}
}

// OnTransition registers a callback invoked on every state change of an
// active gesture (spec.md §4.12 gadgets observe this to draw progress).
func (r *Recognizer) OnTransition(cb Callback) {
	r.callbacks = append(r.callbacks, cb)
}

func (r *Recognizer) emit(name string, percent float64, state State) {
	for _, cb := range r.callbacks {
		cb(name, percent, state)
	}
}

// Run polls Source until ctx is cancelled. It must run on its own
// goroutine — per spec.md §5, it communicates with the core exclusively
// by posting commander calls, never touching WM state directly.
func (r *Recognizer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		sample, err := r.src.Sample()
		if err != nil {
			log.WithError(err).Debug("gesture: sample failed")
			continue
		}
		if sample.NumFingers < 2 {
			continue
		}
		r.trackGesture(ctx, sample)
	}
}

// trackGesture runs one full START→...→COMMIT|CANCEL cycle once a
// multi-finger touch is detected, exactly mirroring the nested while
// loops of gestures.py's _shm_loop.
func (r *Recognizer) trackGesture(ctx context.Context, initial Sample) {
	fingers := initial.NumFingers
	x0, y0 := initial.X, initial.Y

	var active *Binding
	ticker := time.NewTicker(r.sampleEvery)
	defer ticker.Stop()

	// Detection phase: wait until some binding's direction+detect-distance
	// condition is met, or the finger count changes (gesture abandoned).
	for active == nil {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s, err := r.src.Sample()
		if err != nil || s.NumFingers != fingers {
			return
		}
		angle, dist := angleAndDistance(s.X-x0, s.Y-y0)
		for i := range r.bindings {
			b := &r.bindings[i]
			if b.Fingers != int(fingers) {
				continue
			}
			if matchesDirection(b.Direction, angle) && dist > b.DetectDistance {
				active = b
				break
			}
		}
	}
	r.emit(active.name(), 0, Start)

	full := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s, err := r.src.Sample()
		if err != nil || s.NumFingers != fingers {
			break
		}
		angle, dist := angleAndDistance(s.X-x0, s.Y-y0)
		percent := dist / active.CommitDistance
		full = percent >= 1
		if !matchesDirection(active.Direction, angle) || dist < active.DetectDistance {
			r.emit(active.name(), percent, Undo)
			continue
		}
		if full {
			r.emit(active.name(), percent, Full)
		} else {
			r.emit(active.name(), percent, Partial)
		}
	}

	if full {
		r.emit(active.name(), 1, Commit)
		if err := r.commander.Call(active.Object, active.Verb, active.Args...); err != nil {
			log.WithError(err).WithField("gesture", active.name()).Warn("gesture command failed")
		}
	} else {
		r.emit(active.name(), 0, Cancel)
	}
}

func angleAndDistance(dx, dy int32) (angle, dist float64) {
	fdx, fdy := float64(dx), float64(dy)
	return math.Atan2(fdx, fdy), math.Sqrt(fdx*fdx + fdy*fdy)
}
