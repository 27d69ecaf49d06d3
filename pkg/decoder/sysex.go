package decoder

// feedSysEx runs SysEx bytes from a framed transport through the
// accumulator. A stream must start with 0xF0. Once a status byte ends the
// stream implicitly, the bytes after it decode like a serial stream.
func (d *Decoder) feedSysEx(data []byte) {
	for i, b := range data {
		if d.state == Error {
			return
		}
		switch {
		case d.inSysEx():
			if d.sysexByte(b) {
				d.Feed(data[i+1:])
				return
			}
		case d.state == Incomplete:
			// a message seeded by an earlier frame is still filling
			d.Feed(data[i:])
			return
		case b == SysExStart:
			d.pos = 0
			d.push(b)
			d.state = Incomplete
		case b == SysExEnd:
			d.fail(ErrStrayEOX, b)
		default:
			d.fail(ErrOrphanSysEx, b)
		}
	}
}

// sysexByte handles one byte while a SysEx stream is active. buf[0] holds
// 0xF0 and the payload follows it; terminators are never buffered. It
// reports whether b ended the stream implicitly.
func (d *Decoder) sysexByte(b byte) bool {
	switch {
	case b == SysExEnd:
		d.finishSysEx()
	case IsStatus(b) && d.pos > 1:
		// implicit end: close the stream, then let b open the next message
		d.finishSysEx()
		d.seed(b)
		return true
	default:
		if d.push(b) {
			d.state = Incomplete
		}
	}
	return false
}

func (d *Decoder) finishSysEx() {
	d.state = Ready
	d.running = SysExStart
	d.stats.Messages++
	d.stats.SysEx++
	d.h.SysEx(d.buf[1:d.pos])
}

// seed starts a fresh message with status b after an implicit SysEx end.
func (d *Decoder) seed(b byte) {
	d.buf[0] = b
	d.pos = 1
	d.evaluate()
}
