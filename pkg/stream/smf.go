package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/james-see/midistream/pkg/decoder"
	"gitlab.com/gomidi/midi/v2/smf"
)

const metaStatus = 0xFF

// FeedSMF replays every track event of a Standard MIDI File through d as
// serial bytes, track after track. Meta events exist only in files and are
// skipped; delta times are ignored.
func FeedSMF(ctx context.Context, r io.Reader, d *decoder.Decoder, opts Options) (Result, error) {
	var res Result

	s, err := smf.ReadFrom(r)
	if err != nil {
		return res, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	for _, track := range s.Tracks {
		for _, ev := range track {
			msg := []byte(ev.Message)
			if len(msg) == 0 || msg[0] == metaStatus {
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Messages++
			for _, b := range msg {
				res.Bytes++
				if d.Accept(b) == decoder.Error {
					if err := opts.handleError(d, res.Bytes-1, &res); err != nil {
						return res, err
					}
				}
			}
		}
	}
	return res, nil
}
