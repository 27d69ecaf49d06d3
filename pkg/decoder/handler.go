package decoder

// Handler receives decoded messages. Each call carries one complete message;
// status arguments include the channel bits.
//
// Slices passed to SystemCommon and SysEx alias decoder or caller memory and
// are only valid for the duration of the call.
type Handler interface {
	NoteOn(status, note, velocity byte)
	NoteOff(status, note, velocity byte)
	ControlChange(status, controller, value byte)
	ProgramChange(status, program byte)
	ChannelPressure(status, value byte)
	PolyKeyPressure(status, note, value byte)
	// PitchBend receives the 14-bit value, 0x2000 being center.
	PitchBend(status byte, value uint16)
	// SystemCommon receives 1 to 3 bytes, msg[0] being the status.
	SystemCommon(msg []byte)
	// SysEx receives the payload without the leading 0xF0 and the
	// terminator.
	SysEx(payload []byte)
}

// Funcs adapts plain functions to a Handler. Nil fields drop the message.
type Funcs struct {
	OnNoteOn          func(status, note, velocity byte)
	OnNoteOff         func(status, note, velocity byte)
	OnControlChange   func(status, controller, value byte)
	OnProgramChange   func(status, program byte)
	OnChannelPressure func(status, value byte)
	OnPolyKeyPressure func(status, note, value byte)
	OnPitchBend       func(status byte, value uint16)
	OnSystemCommon    func(msg []byte)
	OnSysEx           func(payload []byte)
}

var _ Handler = Funcs{}

func (f Funcs) NoteOn(status, note, velocity byte) {
	if f.OnNoteOn != nil {
		f.OnNoteOn(status, note, velocity)
	}
}

func (f Funcs) NoteOff(status, note, velocity byte) {
	if f.OnNoteOff != nil {
		f.OnNoteOff(status, note, velocity)
	}
}

func (f Funcs) ControlChange(status, controller, value byte) {
	if f.OnControlChange != nil {
		f.OnControlChange(status, controller, value)
	}
}

func (f Funcs) ProgramChange(status, program byte) {
	if f.OnProgramChange != nil {
		f.OnProgramChange(status, program)
	}
}

func (f Funcs) ChannelPressure(status, value byte) {
	if f.OnChannelPressure != nil {
		f.OnChannelPressure(status, value)
	}
}

func (f Funcs) PolyKeyPressure(status, note, value byte) {
	if f.OnPolyKeyPressure != nil {
		f.OnPolyKeyPressure(status, note, value)
	}
}

func (f Funcs) PitchBend(status byte, value uint16) {
	if f.OnPitchBend != nil {
		f.OnPitchBend(status, value)
	}
}

func (f Funcs) SystemCommon(msg []byte) {
	if f.OnSystemCommon != nil {
		f.OnSystemCommon(msg)
	}
}

func (f Funcs) SysEx(payload []byte) {
	if f.OnSysEx != nil {
		f.OnSysEx(payload)
	}
}

// PitchBendValue joins the two 7-bit pitch bend data bytes.
func PitchBendValue(lsb, msb byte) uint16 {
	return uint16(lsb) | uint16(msb)<<7
}

// dispatchChannel fans out a complete channel voice message. A note on with
// zero velocity is a note off.
func dispatchChannel(h Handler, msg []byte) {
	status := msg[0]
	switch status & StatusMask {
	case NoteOff:
		h.NoteOff(status, msg[1], msg[2])
	case NoteOn:
		if msg[2] == 0 {
			h.NoteOff(status, msg[1], msg[2])
		} else {
			h.NoteOn(status, msg[1], msg[2])
		}
	case PolyKeyPressure:
		h.PolyKeyPressure(status, msg[1], msg[2])
	case ControlChange:
		h.ControlChange(status, msg[1], msg[2])
	case ProgramChange:
		h.ProgramChange(status, msg[1])
	case ChannelPressure:
		h.ChannelPressure(status, msg[1])
	case PitchBend:
		h.PitchBend(status, PitchBendValue(msg[1], msg[2]))
	}
}
