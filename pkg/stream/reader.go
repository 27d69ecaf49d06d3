package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/james-see/midistream/pkg/config"
	"github.com/james-see/midistream/pkg/decoder"
	"github.com/rs/zerolog"
)

var (
	ErrDecode          = errors.New("stream: decode error")
	ErrShortFrame      = errors.New("stream: trailing bytes do not form a frame")
	ErrUnknownEncoding = errors.New("stream: unknown encoding")
)

// Options control how a reader reacts to decoder errors.
type Options struct {
	// OnError is config.PolicyReset (default) or config.PolicyStop.
	OnError string
	Logger  *zerolog.Logger
}

// Result summarizes one read.
type Result struct {
	Bytes    int `json:"bytes"`
	Frames   int `json:"frames,omitempty"`
	Messages int `json:"messages,omitempty"` // SMF events replayed
	Resets   int `json:"resets"`
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// handleError applies the error policy once the decoder is in the Error state.
func (o Options) handleError(d *decoder.Decoder, offset int, res *Result) error {
	cause := d.Err()
	if o.OnError == config.PolicyStop {
		return fmt.Errorf("%w at offset %d: %w", ErrDecode, offset, cause)
	}
	o.logger().Warn().
		Err(cause).
		Int("offset", offset).
		Msg("midi decode error, resetting decoder")
	d.Reset()
	res.Resets++
	return nil
}

// ReadSerial feeds r into d one byte at a time until EOF.
func ReadSerial(ctx context.Context, r io.Reader, d *decoder.Decoder, opts Options) (Result, error) {
	var res Result
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("read serial byte: %w", err)
		}
		res.Bytes++
		if d.Accept(b) == decoder.Error {
			if err := opts.handleError(d, res.Bytes-1, &res); err != nil {
				return res, err
			}
		}
	}
}

// ReadFrames feeds r into d as 4-byte USB-MIDI frames until EOF. Trailing
// bytes that do not fill a frame are an error.
func ReadFrames(ctx context.Context, r io.Reader, d *decoder.Decoder, opts Options) (Result, error) {
	var res Result
	var f decoder.Frame
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := io.ReadFull(r, f[:])
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			res.Bytes += n
			return res, fmt.Errorf("%w: %d bytes", ErrShortFrame, n)
		}
		if err != nil {
			return res, fmt.Errorf("read frame: %w", err)
		}
		res.Bytes += n
		res.Frames++
		d.DecodeFrame(f)
		if d.State() == decoder.Error {
			if err := opts.handleError(d, res.Bytes-decoder.FrameSize, &res); err != nil {
				return res, err
			}
		}
	}
}

// Decode feeds data into d using the given encoding.
func Decode(ctx context.Context, enc Encoding, data []byte, d *decoder.Decoder, opts Options) (Result, error) {
	r := bytes.NewReader(data)
	switch enc {
	case EncodingSerial:
		return ReadSerial(ctx, r, d, opts)
	case EncodingFrames:
		return ReadFrames(ctx, r, d, opts)
	case EncodingSMF:
		return FeedSMF(ctx, r, d, opts)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}
