package gesture

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// synapticsSHMKey is the fixed System V shared-memory key the synaptics
// X driver publishes its live touch state under — spec.md §6: "attaches
// to a shared-memory segment with key 23947".
const synapticsSHMKey = 23947

// synapticsFieldOffsets mirrors gestures.py's ctypes Structure layout:
// version, x, y, z, numFingers, fingerWidth, buttons[4], multi[8], middle —
// all C `int` (4 bytes) except the trailing bools, which we don't need.
const (
	offVersion     = 0
	offX           = 4
	offY           = 8
	offZ           = 12
	offNumFingers  = 16
	offFingerWidth = 20
	structMinSize  = 24
)

// SHMSource attaches to the synaptics driver's shared-memory segment and
// implements Source by reading the current sample directly out of the
// mapped bytes (no syscalls per sample beyond the initial attach).
type SHMSource struct {
	data []byte
}

// OpenSHMSource attaches to the well-known synaptics SHM segment. Returns
// a plain wrapped error (not an xcore.ErrDriverMissing) if no synaptics
// driver is loaded (the caller disables the gesture recognizer rather
// than failing startup).
func OpenSHMSource() (*SHMSource, error) {
	id, err := unix.SysvShmGet(synapticsSHMKey, structMinSize, 0)
	if err != nil {
		return nil, fmt.Errorf("gesture: no synaptics driver loaded: %w", err)
	}
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("gesture: could not attach synaptics SHM: %w", err)
	}
	return &SHMSource{data: data}, nil
}

// Close detaches the shared-memory segment.
func (s *SHMSource) Close() error {
	return unix.SysvShmDetach(s.data)
}

// Sample reads the current touch state out of the mapped segment.
func (s *SHMSource) Sample() (Sample, error) {
	if len(s.data) < structMinSize {
		return Sample{}, fmt.Errorf("gesture: SHM segment too small")
	}
	return Sample{
		X:          int32(binary.LittleEndian.Uint32(s.data[offX:])),
		Y:          int32(binary.LittleEndian.Uint32(s.data[offY:])),
		NumFingers: int32(binary.LittleEndian.Uint32(s.data[offNumFingers:])),
	}, nil
}
