// Package api provides the REST API server for midistream
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/midistream/pkg/config"
	"github.com/james-see/midistream/pkg/decoder"
	"github.com/james-see/midistream/pkg/events"
	"github.com/james-see/midistream/pkg/stream"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title midistream API
// @version 1.0
// @description API for decoding serial and USB-MIDI byte streams into MIDI events
// @host localhost:8080
// @BasePath /api/v1

// DecodeResponse is the body returned by the decode endpoints
type DecodeResponse struct {
	Encoding stream.Encoding `json:"encoding"`
	State    string          `json:"state"`
	Error    string          `json:"error,omitempty"`
	Stats    decoder.Stats   `json:"stats"`
	Result   stream.Result   `json:"result"`
	Events   []events.Event  `json:"events"`
}

type server struct {
	cfg    config.Config
	logger zerolog.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg config.Config, logger zerolog.Logger) *gin.Engine {
	s := &server{cfg: cfg, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/encodings", listEncodings)
		v1.POST("/decode/serial", s.handleDecodeSerial)
		v1.POST("/decode/frames", s.handleDecodeFrames)
		v1.POST("/decode/smf", s.handleDecodeSMF)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the configured port
func StartServer(cfg config.Config, logger zerolog.Logger) error {
	r := NewRouter(cfg, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("api server listening")
	return r.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midistream",
	})
}

// listEncodings godoc
// @Summary List supported input encodings
// @Description Returns the byte stream encodings the decoder accepts
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/encodings [get]
func listEncodings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"encodings": stream.Encodings(),
	})
}

// handleDecodeSerial godoc
// @Summary Decode a serial MIDI byte stream
// @Description Upload raw MIDI bytes (body, multipart file or hex query) and receive the decoded events
// @Tags decode
// @Accept application/octet-stream
// @Produce json
// @Param file formData file false "raw MIDI bytes"
// @Param hex query string false "hex dump, e.g. 90 40 7F"
// @Param on_error query string false "reset (default) or stop"
// @Success 200 {object} DecodeResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} DecodeResponse
// @Router /api/v1/decode/serial [post]
func (s *server) handleDecodeSerial(c *gin.Context) {
	s.handleDecode(c, stream.EncodingSerial)
}

// handleDecodeFrames godoc
// @Summary Decode USB-MIDI event packets
// @Description Upload a capture of 4-byte USB-MIDI frames and receive the decoded events
// @Tags decode
// @Accept application/octet-stream
// @Produce json
// @Param file formData file false "USB-MIDI frames"
// @Param hex query string false "hex dump, e.g. 09 90 40 7F"
// @Param on_error query string false "reset (default) or stop"
// @Success 200 {object} DecodeResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} DecodeResponse
// @Router /api/v1/decode/frames [post]
func (s *server) handleDecodeFrames(c *gin.Context) {
	s.handleDecode(c, stream.EncodingFrames)
}

// handleDecodeSMF godoc
// @Summary Replay a Standard MIDI File through the decoder
// @Description Upload a .mid file and receive its channel and sysex events
// @Tags decode
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "MIDI file"
// @Success 200 {object} DecodeResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} DecodeResponse
// @Router /api/v1/decode/smf [post]
func (s *server) handleDecodeSMF(c *gin.Context) {
	s.handleDecode(c, stream.EncodingSMF)
}

func (s *server) handleDecode(c *gin.Context, enc stream.Encoding) {
	data, err := s.readInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy := s.cfg.Decoder.OnError
	if q := strings.ToLower(c.Query("on_error")); q != "" {
		if q != config.PolicyReset && q != config.PolicyStop {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid on_error %q", q)})
			return
		}
		policy = q
	}

	rec := events.NewRecorder(nil)
	opts := append(s.cfg.DecoderOptions(), decoder.WithLogger(s.logger))
	d := decoder.New(rec, opts...)

	res, err := stream.Decode(c.Request.Context(), enc, data, d, stream.Options{
		OnError: policy,
		Logger:  &s.logger,
	})

	resp := DecodeResponse{
		Encoding: enc,
		State:    d.State().String(),
		Stats:    d.Stats(),
		Result:   res,
		Events:   rec.Events(),
	}
	if resp.Events == nil {
		resp.Events = []events.Event{}
	}
	if err != nil {
		resp.Error = err.Error()
		status := http.StatusUnprocessableEntity
		if enc == stream.EncodingSMF && !errors.Is(err, stream.ErrDecode) {
			status = http.StatusBadRequest
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// readInput takes the bytes to decode from the hex query, a multipart file or
// the raw body, in that order.
func (s *server) readInput(c *gin.Context) ([]byte, error) {
	if h := c.Query("hex"); h != "" {
		return stream.ParseHex(h)
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			return nil, errors.New("no file uploaded")
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("failed to read file")
		}
		return data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty request: send bytes in the body, a multipart file or a hex query")
	}
	return data, nil
}
