package decoder

// Accept consumes one byte of a serial MIDI stream. When the byte completes a
// message the matching handler is called before Accept returns.
//
// Error is sticky: further bytes are rejected until Reset.
func (d *Decoder) Accept(b byte) State {
	switch d.state {
	case Error:
		return d.state
	case Ready:
		d.pos = 0
	}

	if d.inSysEx() {
		d.sysexByte(b)
		return d.state
	}

	if d.pos > 0 && IsStatus(b) {
		if IsRealtime(b) {
			d.realtime(b)
			return d.state
		}
		// a new status byte abandons the partial message
		d.log.Debug().
			Uint8("status", d.buf[0]).
			Int("pos", d.pos).
			Uint8("interrupted_by", b).
			Msg("midi message interrupted")
		d.pos = 0
	}

	if !d.push(b) {
		return d.state
	}
	d.evaluate()
	return d.state
}

// Feed runs data through Accept and returns the final state. It stops at the
// first Error and reports how many bytes were consumed, including the one
// that failed.
func (d *Decoder) Feed(data []byte) (State, int) {
	for i, b := range data {
		if d.Accept(b) == Error {
			return Error, i + 1
		}
	}
	return d.state, len(data)
}
