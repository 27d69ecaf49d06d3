package decoder

import (
	"github.com/rs/zerolog"
)

// Stats counts what a decoder has produced since it was created.
type Stats struct {
	Messages      int `json:"messages"`
	SysEx         int `json:"sysex"`
	Errors        int `json:"errors"`
	IgnoredFrames int `json:"ignored_frames"`
}

// Decoder is the MIDI stream state machine. It is not safe for concurrent
// use; one decoder serves one input stream.
type Decoder struct {
	h   Handler
	log zerolog.Logger

	buf     []byte
	pos     int
	state   State
	running byte
	err     error

	// single real-time byte dispatched while a message is in flight
	rt [1]byte

	stats Stats
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithBufferSize sets the message buffer capacity. Values below 3 are raised
// to 3 so every fixed-length message fits.
func WithBufferSize(n int) Option {
	return func(d *Decoder) {
		if n < minBufferSize {
			n = minBufferSize
		}
		d.buf = make([]byte, n)
	}
}

// WithLogger sets the logger used for decode errors.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) {
		d.log = l
	}
}

// New creates a Decoder that dispatches to h. A nil handler drops every
// message.
func New(h Handler, opts ...Option) *Decoder {
	if h == nil {
		h = Funcs{}
	}
	d := &Decoder{
		h:   h,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.buf == nil {
		d.buf = make([]byte, DefaultBufferSize)
	}
	return d
}

// State returns the state after the last byte or frame.
func (d *Decoder) State() State {
	return d.state
}

// Err returns the cause of the Error state, or nil.
func (d *Decoder) Err() error {
	return d.err
}

// RunningStatus returns the stored running status, or 0 if none was seen.
func (d *Decoder) RunningStatus() byte {
	return d.running
}

// BufferSize returns the message buffer capacity.
func (d *Decoder) BufferSize() int {
	return len(d.buf)
}

// Stats returns a copy of the decoder counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Reset discards the buffered message and clears the Error state. Running
// status is kept.
func (d *Decoder) Reset() {
	d.pos = 0
	d.state = Ready
	d.err = nil
}

func (d *Decoder) inSysEx() bool {
	return d.state == Incomplete && d.pos > 0 && d.buf[0] == SysExStart
}

func (d *Decoder) push(b byte) bool {
	if d.pos >= len(d.buf) {
		d.fail(ErrBufferOverflow, b)
		return false
	}
	d.buf[d.pos] = b
	d.pos++
	return true
}

// fail enters the Error state. b is the byte that caused it.
func (d *Decoder) fail(err error, b byte) {
	d.state = Error
	d.err = err
	d.stats.Errors++
	d.log.Debug().
		Err(err).
		Int("pos", d.pos).
		Uint8("byte", b).
		Msg("midi decode error")
}

// evaluate classifies the buffered bytes and completes the message once
// enough of them are present.
func (d *Decoder) evaluate() {
	cat := classify(d.buf[0])
	switch cat {
	case catData:
		if d.pos == 1 && IsStatus(d.running) {
			d.buf[1] = d.buf[0]
			d.buf[0] = d.running
			d.pos = 2
			d.evaluate()
			return
		}
		d.fail(ErrNoRunningStatus, d.buf[0])
	case catSysEx:
		d.state = Incomplete
	case catStrayEOX:
		d.fail(ErrStrayEOX, d.buf[0])
	case catUndefined:
		d.fail(ErrUndefinedStatus, d.buf[0])
	default:
		if d.pos < cat.length() {
			d.state = Incomplete
			return
		}
		d.complete()
	}
}

func (d *Decoder) complete() {
	d.state = Ready
	d.stats.Messages++
	msg := d.buf[:d.pos]
	// real-time bytes never become running status
	if !IsRealtime(msg[0]) {
		d.running = msg[0]
	}
	if IsChannelStatus(msg[0]) {
		dispatchChannel(d.h, msg)
		return
	}
	d.h.SystemCommon(msg)
}

// realtime dispatches a real-time byte without disturbing the buffer.
func (d *Decoder) realtime(b byte) {
	d.stats.Messages++
	d.rt[0] = b
	d.h.SystemCommon(d.rt[:])
}
