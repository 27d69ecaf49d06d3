package decoder

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_TwoByteMessages(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("program change and channel pressure complete after exactly two bytes", prop.ForAll(
		func(status, data int) bool {
			d, rec := newTestDecoder()

			if d.Accept(byte(status)) != Incomplete {
				return false
			}
			if d.Accept(byte(data)) != Ready {
				return false
			}
			if len(rec.calls) != 1 {
				return false
			}
			c := rec.calls[0]
			return c.status == byte(status) && c.d1 == byte(data)
		},
		gen.IntRange(0xC0, 0xDF),
		gen.IntRange(0x00, 0x7F),
	))

	properties.TestingRun(t)
}

func TestProperty_ThreeByteMessages(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("note, pressure and controller messages complete after exactly three bytes", prop.ForAll(
		func(status, d1, d2 int) bool {
			d, rec := newTestDecoder()

			if d.Accept(byte(status)) != Incomplete || d.Accept(byte(d1)) != Incomplete {
				return false
			}
			if d.Accept(byte(d2)) != Ready {
				return false
			}
			if len(rec.calls) != 1 {
				return false
			}
			c := rec.calls[0]
			if c.status != byte(status) || c.d1 != byte(d1) || c.d2 != byte(d2) {
				return false
			}
			if byte(status)&StatusMask == NoteOn && d2 == 0 {
				return c.kind == "note_off"
			}
			return true
		},
		gen.IntRange(0x80, 0xBF),
		gen.IntRange(0x00, 0x7F),
		gen.IntRange(0x00, 0x7F),
	))

	properties.Property("pitch bend joins the data bytes into 14 bits", prop.ForAll(
		func(channel, lsb, msb int) bool {
			d, rec := newTestDecoder()
			d.Feed([]byte{byte(PitchBend | channel), byte(lsb), byte(msb)})

			if len(rec.calls) != 1 || rec.calls[0].kind != "pitch_bend" {
				return false
			}
			v := rec.calls[0].value
			return v == uint16(lsb)|uint16(msb)<<7 && v < 0x4000
		},
		gen.IntRange(0, 15),
		gen.IntRange(0x00, 0x7F),
		gen.IntRange(0x00, 0x7F),
	))

	properties.TestingRun(t)
}

func TestProperty_RunningStatus(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("omitted status reuses the previous channel status", prop.ForAll(
		func(status, repeats, data int) bool {
			d, rec := newTestDecoder()
			d.Feed([]byte{byte(status), byte(data), 0x01})
			for i := 0; i < repeats; i++ {
				if d.Accept(byte(data)) != Incomplete {
					return false
				}
				if d.Accept(0x01) != Ready {
					return false
				}
			}

			if len(rec.calls) != repeats+1 {
				return false
			}
			for _, c := range rec.calls {
				if c.status != byte(status) {
					return false
				}
			}
			return d.RunningStatus() == byte(status)
		},
		gen.IntRange(0x80, 0xBF),
		gen.IntRange(1, 16),
		gen.IntRange(0x00, 0x7F),
	))

	properties.TestingRun(t)
}

func TestProperty_FramedNoteOnVelocityZero(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("framed note on with velocity 0 is a note off", prop.ForAll(
		func(cable, channel, note int) bool {
			d, rec := newTestDecoder()
			d.DecodeFrame(Frame{byte(cable<<4 | CINNoteOn), byte(NoteOn | channel), byte(note), 0x00})

			return len(rec.calls) == 1 && rec.calls[0].kind == "note_off" && rec.calls[0].d1 == byte(note)
		},
		gen.IntRange(0, 15),
		gen.IntRange(0, 15),
		gen.IntRange(0x00, 0x7F),
	))

	properties.TestingRun(t)
}

func TestProperty_SysExPayload(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("payload that fits the buffer is delivered unchanged", prop.ForAll(
		func(payload []uint8) bool {
			d, rec := newTestDecoder()

			input := append([]byte{SysExStart}, payload...)
			input = append(input, SysExEnd)
			if state, _ := d.Feed(input); state != Ready {
				return false
			}
			if len(rec.calls) != 1 || len(rec.calls[0].data) != len(payload) {
				return false
			}
			for i := range payload {
				if rec.calls[0].data[i] != payload[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8Range(0x00, 0x7F)),
	))

	properties.TestingRun(t)
}
