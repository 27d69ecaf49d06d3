package decoder

// category is the closed set of message shapes a leading byte can announce.
type category int

const (
	catData category = iota // not a status byte; needs running status
	catTwoByte
	catThreeByte
	catOneByte
	catSysEx
	catStrayEOX
	catUndefined
)

// classify maps the first buffered byte to its message category.
func classify(status byte) category {
	if !IsStatus(status) {
		return catData
	}
	switch status & StatusMask {
	case ProgramChange, ChannelPressure:
		return catTwoByte
	case NoteOff, NoteOn, PolyKeyPressure, ControlChange, PitchBend:
		return catThreeByte
	}
	switch status {
	case TimeCodeQuarterFrame, SongSelect:
		return catTwoByte
	case SongPosition:
		return catThreeByte
	case TuneRequest, TimingClock, ReservedF9, Start, Continue, Stop,
		ReservedFD, ActiveSensing, SystemReset:
		return catOneByte
	case SysExStart:
		return catSysEx
	case SysExEnd:
		return catStrayEOX
	default:
		return catUndefined
	}
}

// length is the complete message size in bytes, or 0 when the category has
// no fixed size.
func (c category) length() int {
	switch c {
	case catOneByte:
		return 1
	case catTwoByte:
		return 2
	case catThreeByte:
		return 3
	default:
		return 0
	}
}
