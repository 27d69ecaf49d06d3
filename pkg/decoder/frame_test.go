package decoder

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFrameAccessors(t *testing.T) {
	f := Frame{0x39, 0x90, 0x40, 0x7F}

	if f.Cable() != 3 {
		t.Errorf("Cable() = %d, want 3", f.Cable())
	}
	if f.CodeIndex() != CINNoteOn {
		t.Errorf("CodeIndex() = 0x%X, want 0x%X", f.CodeIndex(), CINNoteOn)
	}
}

func TestDecodeFrameChannel(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  call
	}{
		{"note on", Frame{0x09, 0x90, 0x40, 0x7F}, call{kind: "note_on", status: 0x90, d1: 0x40, d2: 0x7F}},
		{"note on velocity zero", Frame{0x09, 0x93, 0x40, 0x00}, call{kind: "note_off", status: 0x93, d1: 0x40}},
		{"note off", Frame{0x08, 0x80, 0x40, 0x10}, call{kind: "note_off", status: 0x80, d1: 0x40, d2: 0x10}},
		{"poly key pressure", Frame{0x0A, 0xA0, 0x40, 0x10}, call{kind: "poly_key_pressure", status: 0xA0, d1: 0x40, d2: 0x10}},
		{"control change", Frame{0x0B, 0xB2, 0x07, 0x64}, call{kind: "control_change", status: 0xB2, d1: 0x07, d2: 0x64}},
		{"program change", Frame{0x0C, 0xC0, 0x05, 0x00}, call{kind: "program_change", status: 0xC0, d1: 0x05}},
		{"channel pressure", Frame{0x0D, 0xD0, 0x30, 0x00}, call{kind: "channel_pressure", status: 0xD0, d1: 0x30}},
		{"pitch bend", Frame{0x0E, 0xE0, 0x7F, 0x01}, call{kind: "pitch_bend", status: 0xE0, value: 0xFF}},
		{"cable ignored", Frame{0xF9, 0x91, 0x3C, 0x40}, call{kind: "note_on", status: 0x91, d1: 0x3C, d2: 0x40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDecoder()
			d.DecodeFrame(tt.frame)
			assertCalls(t, rec.calls, []call{tt.want})
			if d.State() != Ready {
				t.Errorf("State() = %v, want %v", d.State(), Ready)
			}
		})
	}
}

func TestDecodeFrameSystemCommon(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{"single byte clock", Frame{0x0F, 0xF8, 0x00, 0x00}, []byte{0xF8}},
		{"two byte quarter frame", Frame{0x02, 0xF1, 0x20, 0x00}, []byte{0xF1, 0x20}},
		{"three byte song position", Frame{0x03, 0xF2, 0x10, 0x20}, []byte{0xF2, 0x10, 0x20}},
		{"tune request on CIN 5", Frame{0x05, 0xF6, 0x00, 0x00}, []byte{0xF6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDecoder()
			d.DecodeFrame(tt.frame)
			assertCalls(t, rec.calls, []call{{kind: "system_common", status: tt.want[0], data: tt.want}})
		})
	}
}

func TestDecodeFrameSysEx(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
		want   []byte
	}{
		{
			name: "ends with two bytes",
			frames: []Frame{
				{0x04, 0xF0, 0x01, 0x02},
				{0x04, 0x03, 0x04, 0x05},
				{0x06, 0x06, 0xF7, 0x00},
			},
			want: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		},
		{
			name: "ends with one byte",
			frames: []Frame{
				{0x04, 0xF0, 0x01, 0x02},
				{0x05, 0xF7, 0x00, 0x00},
			},
			want: []byte{0x01, 0x02},
		},
		{
			name: "ends with three bytes",
			frames: []Frame{
				{0x04, 0xF0, 0x7E, 0x7F},
				{0x07, 0x06, 0x01, 0xF7},
			},
			want: []byte{0x7E, 0x7F, 0x06, 0x01},
		},
		{
			name:   "single frame",
			frames: []Frame{{0x07, 0xF0, 0x43, 0xF7}},
			want:   []byte{0x43},
		},
		{
			name:   "empty payload",
			frames: []Frame{{0x06, 0xF0, 0xF7, 0x00}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDecoder()
			for i, f := range tt.frames {
				d.DecodeFrame(f)
				wantState := Incomplete
				if i == len(tt.frames)-1 {
					wantState = Ready
				}
				if d.State() != wantState {
					t.Errorf("State() after frame %d = %v, want %v", i, d.State(), wantState)
				}
			}
			assertCalls(t, rec.calls, []call{{kind: "sysex", status: SysExStart, data: tt.want}})
		})
	}
}

func TestDecodeFrameSysExInterleaved(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x04, 0xF0, 0x01, 0x02})
	d.DecodeFrame(Frame{0x0F, 0xF8, 0x00, 0x00})
	d.DecodeFrame(Frame{0x09, 0x90, 0x40, 0x7F})
	d.DecodeFrame(Frame{0x06, 0x03, 0xF7, 0x00})

	assertCalls(t, rec.calls, []call{
		{kind: "system_common", status: 0xF8, data: []byte{0xF8}},
		{kind: "note_on", status: 0x90, d1: 0x40, d2: 0x7F},
		{kind: "sysex", status: SysExStart, data: []byte{0x01, 0x02, 0x03}},
	})
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
		want   error
	}{
		{"stray end", []Frame{{0x05, 0xF7, 0x00, 0x00}}, ErrStrayEOX},
		{"continuation without start", []Frame{{0x04, 0x01, 0x02, 0x03}}, ErrOrphanSysEx},
		{"end without start", []Frame{{0x06, 0x01, 0xF7, 0x00}}, ErrOrphanSysEx},
		{
			"overflow",
			[]Frame{{0x04, 0xF0, 0x01, 0x02}, {0x04, 0x03, 0x04, 0x05}},
			ErrBufferOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDecoder(WithBufferSize(4))
			for _, f := range tt.frames {
				d.DecodeFrame(f)
			}
			if d.State() != Error {
				t.Fatalf("State() = %v, want %v", d.State(), Error)
			}
			if !errors.Is(d.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", d.Err(), tt.want)
			}
			if len(rec.calls) != 0 {
				t.Errorf("handler calls = %+v, want none", rec.calls)
			}
		})
	}
}

func TestDecodeFrameErrorState(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x04, 0x01, 0x02, 0x03})
	// sysex frames are rejected until Reset, channel frames still dispatch
	d.DecodeFrame(Frame{0x04, 0xF0, 0x01, 0x02})
	d.DecodeFrame(Frame{0x09, 0x90, 0x40, 0x7F})

	if d.State() != Error {
		t.Fatalf("State() = %v, want %v", d.State(), Error)
	}
	assertCalls(t, rec.calls, []call{{kind: "note_on", status: 0x90, d1: 0x40, d2: 0x7F}})

	d.Reset()
	d.DecodeFrame(Frame{0x07, 0xF0, 0x01, 0xF7})
	if d.State() != Ready {
		t.Errorf("State() after Reset = %v, want %v", d.State(), Ready)
	}
}

func TestDecodeFrameIgnored(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x00, 0x90, 0x40, 0x7F})
	d.DecodeFrame(Frame{0x01, 0x90, 0x40, 0x7F})

	if len(rec.calls) != 0 {
		t.Errorf("handler calls = %+v, want none", rec.calls)
	}
	if got := d.Stats().IgnoredFrames; got != 2 {
		t.Errorf("Stats().IgnoredFrames = %d, want 2", got)
	}
}

func TestSerialAndFramedShareSysEx(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x04, 0xF0, 0x01, 0x02})
	d.Accept(0x03)
	d.DecodeFrame(Frame{0x05, 0xF7, 0x00, 0x00})

	assertCalls(t, rec.calls, []call{
		{kind: "sysex", status: SysExStart, data: []byte{0x01, 0x02, 0x03}},
	})
}

func TestDecodeFrameImplicitTermination(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x04, 0xF0, 0x01, 0x02})
	d.DecodeFrame(Frame{0x07, 0x03, 0xC1, 0x05})

	if d.State() != Ready {
		t.Fatalf("State() = %v, want %v (err %v)", d.State(), Ready, d.Err())
	}
	assertCalls(t, rec.calls, []call{
		{kind: "sysex", status: SysExStart, data: []byte{0x01, 0x02, 0x03}},
		{kind: "program_change", status: 0xC1, d1: 0x05},
	})
}

func TestDecodeFrameImplicitTerminationContinues(t *testing.T) {
	d, rec := newTestDecoder()

	d.DecodeFrame(Frame{0x04, 0xF0, 0x01, 0x02})
	d.DecodeFrame(Frame{0x04, 0x03, 0x90, 0x40})

	if d.State() != Incomplete {
		t.Fatalf("State() = %v, want %v (err %v)", d.State(), Incomplete, d.Err())
	}

	// the seeded note on keeps filling from the next sysex frame
	d.DecodeFrame(Frame{0x06, 0x7F, 0xF8, 0x00})

	if d.State() != Ready {
		t.Fatalf("State() = %v, want %v (err %v)", d.State(), Ready, d.Err())
	}
	assertCalls(t, rec.calls, []call{
		{kind: "sysex", status: SysExStart, data: []byte{0x01, 0x02, 0x03}},
		{kind: "note_on", status: 0x90, d1: 0x40, d2: 0x7F},
		{kind: "system_common", status: 0xF8, data: []byte{0xF8}},
	})
}

func TestDecodeFrameErrorLogsOffendingByte(t *testing.T) {
	var buf bytes.Buffer
	d, _ := newTestDecoder(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	d.Feed([]byte{0x90, 0x40, 0x7F})
	d.DecodeFrame(Frame{0x05, 0xF7, 0x00, 0x00})

	out := buf.String()
	if !strings.Contains(out, `"byte":247`) {
		t.Errorf("log %q missing the 0xF7 byte", out)
	}
	if strings.Contains(out, `"byte":144`) {
		t.Errorf("log %q reports the stale 0x90 status", out)
	}
}
