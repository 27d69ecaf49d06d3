// Package stream feeds MIDI byte sources into a decoder: raw serial dumps,
// USB-MIDI frame captures and Standard MIDI Files.
package stream

import (
	"path/filepath"
	"strings"
)

// Encoding is the layout of a MIDI byte source
type Encoding string

const (
	EncodingSerial  Encoding = "serial"
	EncodingFrames  Encoding = "frames"
	EncodingSMF     Encoding = "smf"
	EncodingUnknown Encoding = "unknown"
)

// ParseEncoding maps a user-supplied name to an Encoding
func ParseEncoding(name string) Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "serial", "raw", "syx", "din":
		return EncodingSerial
	case "frames", "frame", "usb":
		return EncodingFrames
	case "smf", "midi", "mid":
		return EncodingSMF
	default:
		return EncodingUnknown
	}
}

// DetectEncoding detects the encoding of a file based on its extension
func DetectEncoding(filename string) Encoding {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi", ".smf":
		return EncodingSMF
	case ".syx", ".raw", ".bin", ".din":
		return EncodingSerial
	case ".usb", ".usbmidi", ".frames":
		return EncodingFrames
	default:
		return EncodingUnknown
	}
}

// DetectEncodingFromContent guesses the encoding from the first bytes
func DetectEncodingFromContent(data []byte) Encoding {
	if len(data) == 0 {
		return EncodingUnknown
	}

	// Standard MIDI File signature "MThd"
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return EncodingSMF
	}

	// serial streams normally open with a status byte
	if data[0] >= 0x80 {
		return EncodingSerial
	}

	// frame captures open with a cable/code-index byte, which is below 0x80
	// for cables 0-7, and come in whole frames
	if len(data)%4 == 0 {
		return EncodingFrames
	}

	return EncodingUnknown
}

// Encodings lists the supported encodings
func Encodings() []Encoding {
	return []Encoding{EncodingSerial, EncodingFrames, EncodingSMF}
}
