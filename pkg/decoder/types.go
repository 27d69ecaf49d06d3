// Package decoder turns MIDI byte streams into handler callbacks.
//
// A Decoder has two entry points sharing one message buffer: Accept for a
// raw serial stream (one byte at a time, with running status and SysEx
// streaming) and DecodeFrame for 4-byte USB-MIDI event packets.
package decoder

import "errors"

// Byte values with protocol meaning
const (
	StatusByte    = 0x80 // first value with the status bit set
	StatusMask    = 0xF0 // drops the channel bits
	ChannelMask   = 0x0F
	RealtimeFirst = 0xF8 // first system real-time status
)

// Channel voice message types (status byte with channel bits cleared)
const (
	NoteOff         = 0x80
	NoteOn          = 0x90
	PolyKeyPressure = 0xA0
	ControlChange   = 0xB0
	ProgramChange   = 0xC0
	ChannelPressure = 0xD0
	PitchBend       = 0xE0
	SystemCommon    = 0xF0
)

// System status bytes
const (
	SysExStart           = 0xF0
	TimeCodeQuarterFrame = 0xF1
	SongPosition         = 0xF2
	SongSelect           = 0xF3
	UndefinedF4          = 0xF4
	UndefinedF5          = 0xF5
	TuneRequest          = 0xF6
	SysExEnd             = 0xF7
	TimingClock          = 0xF8
	ReservedF9           = 0xF9
	Start                = 0xFA
	Continue             = 0xFB
	Stop                 = 0xFC
	ReservedFD           = 0xFD
	ActiveSensing        = 0xFE
	SystemReset          = 0xFF
)

// DefaultBufferSize is the message buffer capacity used when no
// WithBufferSize option is given. It bounds SysEx payloads to
// DefaultBufferSize-1 bytes.
const DefaultBufferSize = 128

// minBufferSize fits the longest fixed-length message.
const minBufferSize = 3

// State is the decoder state after the last byte or frame.
type State int

const (
	// Ready means the last message was dispatched; the next byte starts a
	// new one.
	Ready State = iota
	// Incomplete means a message is partially buffered.
	Incomplete
	// Error means an invalid sequence was seen. It stays set until Reset.
	Error
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Incomplete:
		return "incomplete"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Causes reported by Err once the decoder is in the Error state.
var (
	ErrBufferOverflow  = errors.New("decoder: message exceeds buffer capacity")
	ErrNoRunningStatus = errors.New("decoder: data byte without status or running status")
	ErrStrayEOX        = errors.New("decoder: end of exclusive outside a sysex stream")
	ErrUndefinedStatus = errors.New("decoder: undefined status byte")
	ErrOrphanSysEx     = errors.New("decoder: sysex data without a sysex start")
)

// IsStatus reports whether b has the status bit set.
func IsStatus(b byte) bool {
	return b >= StatusByte
}

// IsRealtime reports whether b is a system real-time status byte.
func IsRealtime(b byte) bool {
	return b >= RealtimeFirst
}

// IsChannelStatus reports whether b is a channel voice status byte.
func IsChannelStatus(b byte) bool {
	return b >= StatusByte && b < SystemCommon
}
