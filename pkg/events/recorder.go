package events

import (
	"github.com/james-see/midistream/pkg/decoder"
)

// Recorder is a decoder.Handler that keeps every message as an Event. Byte
// slices handed over by the decoder are copied.
type Recorder struct {
	events []Event
	notify func(Event)
}

var _ decoder.Handler = (*Recorder)(nil)

// NewRecorder creates a Recorder. notify, if not nil, is called with each
// event as it is recorded.
func NewRecorder(notify func(Event)) *Recorder {
	return &Recorder{notify: notify}
}

// Events returns the recorded events
func (r *Recorder) Events() []Event {
	return r.events
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.events = nil
}

func (r *Recorder) add(e Event) {
	e.fillHex()
	r.events = append(r.events, e)
	if r.notify != nil {
		r.notify(e)
	}
}

func (r *Recorder) NoteOn(status, note, velocity byte) {
	r.add(newEvent(KindNoteOn, status, note, velocity))
}

func (r *Recorder) NoteOff(status, note, velocity byte) {
	r.add(newEvent(KindNoteOff, status, note, velocity))
}

func (r *Recorder) ControlChange(status, controller, value byte) {
	r.add(newEvent(KindControlChange, status, controller, value))
}

func (r *Recorder) ProgramChange(status, program byte) {
	r.add(newEvent(KindProgramChange, status, program, 0))
}

func (r *Recorder) ChannelPressure(status, value byte) {
	r.add(newEvent(KindChannelPressure, status, value, 0))
}

func (r *Recorder) PolyKeyPressure(status, note, value byte) {
	r.add(newEvent(KindPolyKeyPressure, status, note, value))
}

func (r *Recorder) PitchBend(status byte, value uint16) {
	e := newEvent(KindPitchBend, status, byte(value&0x7F), byte(value>>7))
	e.Value = value
	r.add(e)
}

func (r *Recorder) SystemCommon(msg []byte) {
	e := newEvent(KindSystemCommon, msg[0], 0, 0)
	if len(msg) > 1 {
		e.Data1 = msg[1]
	}
	if len(msg) > 2 {
		e.Data2 = msg[2]
	}
	e.Data = append([]byte(nil), msg...)
	r.add(e)
}

func (r *Recorder) SysEx(payload []byte) {
	e := newEvent(KindSysEx, decoder.SysExStart, 0, 0)
	e.Data = append([]byte{}, payload...)
	r.add(e)
}
