// Package main is the entry point for the midistream CLI
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/james-see/midistream/pkg/api"
	"github.com/james-see/midistream/pkg/config"
	"github.com/james-see/midistream/pkg/decoder"
	"github.com/james-see/midistream/pkg/events"
	"github.com/james-see/midistream/pkg/logging"
	"github.com/james-see/midistream/pkg/stream"
	"github.com/james-see/midistream/pkg/tui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	bufferSize int
	onError    string
	jsonOutput bool
	framed     bool
	serverPort int
)

// loaded by the root PersistentPreRunE
var (
	cfg    config.Config
	logger zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midistream",
	Short: "Decode serial and USB-MIDI byte streams",
	Long: `midistream decodes MIDI byte streams into messages: raw serial dumps
(with running status and SysEx), USB-MIDI 4-byte event packets and
Standard MIDI Files replayed through the same decoder.

Examples:
  midistream serial capture.syx
  midistream frames capture.usb --on-error stop
  midistream smf song.mid --json
  midistream hex 90 40 7F 41 00
  midistream hex --framed 09 90 40 7F
  midistream decode capture.bin
  midistream tui
  midistream serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var serialCmd = &cobra.Command{
	Use:   "serial <file>",
	Short: "Decode a raw serial MIDI dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncoding(stream.EncodingSerial),
}

var framesCmd = &cobra.Command{
	Use:   "frames <file>",
	Short: "Decode a capture of 4-byte USB-MIDI event packets",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncoding(stream.EncodingFrames),
}

var smfCmd = &cobra.Command{
	Use:   "smf <file.mid>",
	Short: "Replay a Standard MIDI File through the decoder",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncoding(stream.EncodingSMF),
}

var hexCmd = &cobra.Command{
	Use:   "hex <bytes...>",
	Short: "Decode bytes given as hex on the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHex,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Auto-detect the encoding of a file and decode it",
	Long:  `Detects the encoding from the file extension, falling back to the file content.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().IntVar(&bufferSize, "buffer-size", decoder.DefaultBufferSize, "Decoder message buffer size")
	rootCmd.PersistentFlags().StringVar(&onError, "on-error", config.PolicyReset, "Decode error policy (reset|stop)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print events as JSON lines")

	hexCmd.Flags().BoolVar(&framed, "framed", false, "Treat the bytes as USB-MIDI frames")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(serialCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(smfCmd)
	rootCmd.AddCommand(hexCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig builds cfg from defaults, the --config file and explicit flags,
// in increasing priority.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("buffer-size") {
		cfg.Decoder.BufferSize = bufferSize
	}
	if flags.Changed("on-error") {
		cfg.Decoder.OnError = strings.ToLower(onError)
	}
	if flags.Changed("port") {
		cfg.Server.Port = serverPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.Init("midistream", cfg.Log)
	return nil
}

func runEncoding(enc stream.Encoding) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return decodeAndPrint(cmd.Context(), enc, data)
	}
}

func runHex(cmd *cobra.Command, args []string) error {
	data, err := stream.ParseHex(strings.Join(args, " "))
	if err != nil {
		return err
	}
	enc := stream.EncodingSerial
	if framed {
		enc = stream.EncodingFrames
	}
	return decodeAndPrint(cmd.Context(), enc, data)
}

func runDecode(cmd *cobra.Command, args []string) error {
	input := args[0]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	enc := stream.DetectEncoding(input)
	if enc == stream.EncodingUnknown {
		enc = stream.DetectEncodingFromContent(data)
	}
	if enc == stream.EncodingUnknown {
		return fmt.Errorf("cannot detect encoding of %s", input)
	}
	logger.Debug().Str("file", input).Str("encoding", string(enc)).Msg("detected encoding")

	return decodeAndPrint(cmd.Context(), enc, data)
}

func decodeAndPrint(ctx context.Context, enc stream.Encoding, data []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}

	out := json.NewEncoder(os.Stdout)
	rec := events.NewRecorder(func(e events.Event) {
		if jsonOutput {
			_ = out.Encode(e)
			return
		}
		fmt.Printf("%-18s %s\n", e.Kind, e)
	})

	opts := append(cfg.DecoderOptions(), decoder.WithLogger(logger))
	d := decoder.New(rec, opts...)

	res, err := stream.Decode(ctx, enc, data, d, stream.Options{
		OnError: cfg.Decoder.OnError,
		Logger:  &logger,
	})

	stats := d.Stats()
	logger.Info().
		Str("encoding", string(enc)).
		Int("bytes", res.Bytes).
		Int("messages", stats.Messages).
		Int("sysex", stats.SysEx).
		Int("errors", stats.Errors).
		Int("resets", res.Resets).
		Str("state", d.State().String()).
		Msg("decode finished")

	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", cfg.Server.Port)
	return api.StartServer(cfg, logger)
}
