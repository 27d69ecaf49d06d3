package events

import (
	"errors"
	"fmt"
)

// Universal SysEx IDs
const (
	UniversalNonRealtime = 0x7E
	UniversalRealtime    = 0x7F
	NonCommercial        = 0x7D
)

var manufacturers = map[string]string{
	"01":     "Sequential",
	"40":     "Kawai",
	"41":     "Roland",
	"42":     "Korg",
	"43":     "Yamaha",
	"44":     "Casio",
	"47":     "Akai",
	"00201F": "Access",
	"002029": "Novation",
	"002032": "Behringer",
	"00203C": "Elektron",
	"002100": "Teenage Engineering",
}

// ManufacturerID extracts the manufacturer ID from a SysEx payload (without
// the leading F0). Extended IDs start with 0x00 and are three bytes long.
func ManufacturerID(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errors.New("sysex payload is empty")
	}
	if payload[0] == 0x00 {
		if len(payload) < 3 {
			return nil, errors.New("sysex payload too short for extended manufacturer ID")
		}
		return payload[:3], nil
	}
	return payload[:1], nil
}

// DescribeManufacturer returns a readable name for the payload's manufacturer
// ID, falling back to the ID in hex.
func DescribeManufacturer(payload []byte) string {
	id, err := ManufacturerID(payload)
	if err != nil {
		return "unknown"
	}
	switch id[0] {
	case UniversalNonRealtime:
		return "universal non-realtime"
	case UniversalRealtime:
		return "universal realtime"
	case NonCommercial:
		return "non-commercial"
	}
	if name, ok := manufacturers[fmt.Sprintf("%X", id)]; ok {
		return name
	}
	return fmt.Sprintf("manufacturer % X", id)
}

// ValidatePayload checks that every payload byte is 7-bit MIDI data.
func ValidatePayload(payload []byte) error {
	for i, b := range payload {
		if b > 0x7F {
			return fmt.Errorf("invalid sysex payload: byte at position %d is > 127 (0x%02X)", i, b)
		}
	}
	return nil
}
