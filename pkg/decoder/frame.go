package decoder

// FrameSize is the length of a USB-MIDI event packet.
const FrameSize = 4

// Code index numbers, the low nibble of a frame's first byte
const (
	CINMisc            = 0x0
	CINCableEvent      = 0x1
	CINSystemCommon2   = 0x2
	CINSystemCommon3   = 0x3
	CINSysEx           = 0x4 // start or continue, 3 bytes
	CINSysExEnd1       = 0x5 // also single-byte system common
	CINSysExEnd2       = 0x6
	CINSysExEnd3       = 0x7
	CINNoteOff         = 0x8
	CINNoteOn          = 0x9
	CINPolyKeyPressure = 0xA
	CINControlChange   = 0xB
	CINProgramChange   = 0xC
	CINChannelPressure = 0xD
	CINPitchBend       = 0xE
	CINSingleByte      = 0xF
)

// Frame is one USB-MIDI event packet: a cable/code-index byte followed by up
// to three MIDI bytes.
type Frame [FrameSize]byte

// Cable returns the virtual cable number.
func (f Frame) Cable() byte {
	return f[0] >> 4
}

// CodeIndex returns the code index number that classifies the payload.
func (f Frame) CodeIndex() byte {
	return f[0] & 0x0F
}

// DecodeFrame consumes one USB-MIDI frame. Channel and system common frames
// are dispatched directly; SysEx frames go through the shared accumulator.
// The cable number is ignored.
func (d *Decoder) DecodeFrame(f Frame) {
	switch f.CodeIndex() {
	case CINMisc, CINCableEvent:
		d.stats.IgnoredFrames++
	case CINSingleByte:
		d.frameSystemCommon(f[1:2])
	case CINSystemCommon2:
		d.frameSystemCommon(f[1:3])
	case CINSystemCommon3:
		d.frameSystemCommon(f[1:4])
	case CINSysExEnd1:
		if f[1] == SysExEnd || d.inSysEx() {
			d.feedSysEx(f[1:2])
		} else {
			d.frameSystemCommon(f[1:2])
		}
	case CINSysExEnd2:
		d.feedSysEx(f[1:3])
	case CINSysEx, CINSysExEnd3:
		d.feedSysEx(f[1:4])
	case CINProgramChange:
		d.stats.Messages++
		d.h.ProgramChange(f[1], f[2])
	case CINChannelPressure:
		d.stats.Messages++
		d.h.ChannelPressure(f[1], f[2])
	case CINNoteOff:
		d.stats.Messages++
		d.h.NoteOff(f[1], f[2], f[3])
	case CINNoteOn:
		d.stats.Messages++
		if f[3] == 0 {
			d.h.NoteOff(f[1], f[2], f[3])
		} else {
			d.h.NoteOn(f[1], f[2], f[3])
		}
	case CINPolyKeyPressure:
		d.stats.Messages++
		d.h.PolyKeyPressure(f[1], f[2], f[3])
	case CINControlChange:
		d.stats.Messages++
		d.h.ControlChange(f[1], f[2], f[3])
	case CINPitchBend:
		d.stats.Messages++
		d.h.PitchBend(f[1], PitchBendValue(f[2], f[3]))
	}
}

func (d *Decoder) frameSystemCommon(msg []byte) {
	d.stats.Messages++
	d.h.SystemCommon(msg)
}
