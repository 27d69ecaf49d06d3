// Package events provides a recording sink for the decoder and a value type
// for decoded MIDI messages.
package events

import (
	"encoding/hex"
	"fmt"

	"github.com/james-see/midistream/pkg/decoder"
	"gitlab.com/gomidi/midi/v2"
)

// Kind names the handler a message was dispatched to
type Kind string

const (
	KindNoteOn          Kind = "note_on"
	KindNoteOff         Kind = "note_off"
	KindControlChange   Kind = "control_change"
	KindProgramChange   Kind = "program_change"
	KindChannelPressure Kind = "channel_pressure"
	KindPolyKeyPressure Kind = "poly_key_pressure"
	KindPitchBend       Kind = "pitch_bend"
	KindSystemCommon    Kind = "system_common"
	KindSysEx           Kind = "sysex"
)

// Event is one decoded message
type Event struct {
	Kind    Kind   `json:"kind"`
	Status  uint8  `json:"status"`
	Channel uint8  `json:"channel"`
	Data1   uint8  `json:"data1"`
	Data2   uint8  `json:"data2"`
	Value   uint16 `json:"value,omitempty"` // pitch bend, 14 bits
	Data    []byte `json:"-"`               // system common bytes or sysex payload
	Hex     string `json:"hex"`             // wire bytes
}

// IsChannel reports whether the event is a channel voice message
func (e Event) IsChannel() bool {
	return decoder.IsChannelStatus(e.Status)
}

// Bend returns the pitch bend value relative to center (-8192..8191)
func (e Event) Bend() int16 {
	return int16(e.Value) - 0x2000
}

// Raw returns the event as MIDI wire bytes. A note off decoded from a zero
// velocity note on keeps the 0x9n status byte.
func (e Event) Raw() []byte {
	switch e.Kind {
	case KindProgramChange, KindChannelPressure:
		return []byte{e.Status, e.Data1}
	case KindPitchBend:
		return []byte{e.Status, byte(e.Value & 0x7F), byte(e.Value >> 7)}
	case KindSystemCommon:
		return append([]byte(nil), e.Data...)
	case KindSysEx:
		raw := make([]byte, 0, len(e.Data)+2)
		raw = append(raw, decoder.SysExStart)
		raw = append(raw, e.Data...)
		return append(raw, decoder.SysExEnd)
	default:
		return []byte{e.Status, e.Data1, e.Data2}
	}
}

// Message rebuilds the event as a gomidi message
func (e Event) Message() midi.Message {
	switch e.Kind {
	case KindNoteOn:
		return midi.NoteOn(e.Channel, e.Data1, e.Data2)
	case KindNoteOff:
		return midi.NoteOffVelocity(e.Channel, e.Data1, e.Data2)
	case KindControlChange:
		return midi.ControlChange(e.Channel, e.Data1, e.Data2)
	case KindProgramChange:
		return midi.ProgramChange(e.Channel, e.Data1)
	case KindChannelPressure:
		return midi.AfterTouch(e.Channel, e.Data1)
	case KindPolyKeyPressure:
		return midi.PolyAfterTouch(e.Channel, e.Data1, e.Data2)
	case KindPitchBend:
		return midi.Pitchbend(e.Channel, e.Bend())
	default:
		return midi.Message(e.Raw())
	}
}

func (e Event) String() string {
	if e.Kind == KindSysEx {
		return fmt.Sprintf("SysEx %s, %d bytes: % X", DescribeManufacturer(e.Data), len(e.Data), e.Data)
	}
	return e.Message().String()
}

func newEvent(kind Kind, status, data1, data2 byte) Event {
	e := Event{
		Kind:   kind,
		Status: status,
		Data1:  data1,
		Data2:  data2,
	}
	if decoder.IsChannelStatus(status) {
		e.Channel = status & decoder.ChannelMask
	}
	return e
}

func (e *Event) fillHex() {
	e.Hex = hex.EncodeToString(e.Raw())
}
