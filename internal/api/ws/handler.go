// Package ws is the websocket transport for interview sessions. It speaks
// the {type, payload} envelope protocol: inbound start_interview,
// audio_data, text_input and interrupt frames, outbound session_created,
// text_chunk, transcription, audio_output, response_complete, report and
// error frames.
package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/observability/logging"
	"ai-interview-orchestrator/internal/observability/metrics"
	"ai-interview-orchestrator/internal/schema"
	"ai-interview-orchestrator/internal/service/interview"
	"ai-interview-orchestrator/internal/service/stt"
	"ai-interview-orchestrator/internal/service/tts"
)

// Options bound the per-frame upstream calls.
type Options struct {
	STTTimeout time.Duration
	TTSTimeout time.Duration
}

// DefaultOptions returns the transport defaults.
func DefaultOptions() Options {
	return Options{
		STTTimeout: 30 * time.Second,
		TTSTimeout: 30 * time.Second,
	}
}

// Handler upgrades interview websocket connections and drives the envelope
// protocol for each one.
type Handler struct {
	svc         *interview.Service
	transcriber stt.Transcriber
	synthesizer tts.Synthesizer
	validator   *schema.Validator
	manager     *Manager
	metrics     *metrics.Metrics
	opts        Options
	upgrader    websocket.Upgrader
}

// NewHandler creates the websocket transport.
func NewHandler(svc *interview.Service, transcriber stt.Transcriber, synthesizer tts.Synthesizer, opts Options) *Handler {
	if opts.STTTimeout <= 0 {
		opts.STTTimeout = DefaultOptions().STTTimeout
	}
	if opts.TTSTimeout <= 0 {
		opts.TTSTimeout = DefaultOptions().TTSTimeout
	}
	return &Handler{
		svc:         svc,
		transcriber: transcriber,
		synthesizer: synthesizer,
		validator:   schema.New(),
		manager:     NewManager(),
		metrics:     metrics.DefaultMetrics,
		opts:        opts,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now; configure per deployment
			},
		},
	}
}

// Manager exposes the connection registry, mainly for readiness reporting.
func (h *Handler) Manager() *Manager {
	return h.manager
}

// Outbound payloads.
type sessionCreatedPayload struct {
	SessionID string `json:"sessionId"`
}

type textChunkPayload struct {
	Text string `json:"text"`
}

type transcriptionPayload struct {
	Text string `json:"text"`
}

type audioOutputPayload struct {
	Audio string `json:"audio"` // base64
}

type responseCompletePayload struct {
	Stage    string `json:"stage"`
	Finished bool   `json:"finished"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Inbound payloads.
type textInputPayload struct {
	Text string `json:"text"`
}

type audioDataPayload struct {
	Audio string `json:"audio"` // base64
}

// ServeHTTP upgrades GET /v1/ws/interview/{sessionID} and runs the read
// loop until the peer disconnects. The session must already exist.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, _, err := h.svc.Session(sessionID); err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.WithSession(sessionID).Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	c := &client{sessionID: sessionID, conn: conn}
	h.manager.register(c)
	h.metrics.RecordConnectionOpen()
	logging.WithSession(sessionID).Info().Msg("Websocket connected")

	defer func() {
		h.manager.unregister(c)
		h.metrics.RecordConnectionClosed()
		_ = conn.Close()
		logging.WithSession(sessionID).Info().Msg("Websocket disconnected")
	}()

	h.readLoop(r.Context(), c)
}

func (h *Handler) readLoop(ctx context.Context, c *client) {
	for {
		var env models.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.WithSession(c.sessionID).Warn().Err(err).Msg("Websocket read failed")
			}
			return
		}

		if err := h.validator.ValidateEnvelope(env); err != nil {
			h.sendError(c, err.Error())
			continue
		}
		h.metrics.RecordInboundEvent(env.Type)

		switch env.Type {
		case models.TypeInterrupt:
			// Handled inline so it takes effect while a turn is streaming.
			c.suppressAudio.Store(true)
			logging.WithSession(c.sessionID).Info().Msg("Interrupt received, suppressing audio output")

		case models.TypeStartInterview:
			go h.runTurn(ctx, c, "", true)

		case models.TypeTextInput:
			var payload textInputPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				h.sendError(c, "malformed text_input payload")
				continue
			}
			if err := h.validator.ValidateText(payload.Text); err != nil {
				h.sendError(c, err.Error())
				continue
			}
			go h.runTurn(ctx, c, payload.Text, false)

		case models.TypeAudioData:
			var payload audioDataPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				h.sendError(c, "malformed audio_data payload")
				continue
			}
			audio, err := h.validator.DecodeAudio(payload.Audio)
			if err != nil {
				h.sendError(c, err.Error())
				continue
			}
			go h.runAudioTurn(ctx, c, audio)
		}
	}
}

// runAudioTurn transcribes the audio, echoes the transcription, and feeds
// the text through the turn pipeline.
func (h *Handler) runAudioTurn(ctx context.Context, c *client, audio []byte) {
	sttCtx, cancel := context.WithTimeout(ctx, h.opts.STTTimeout)
	defer cancel()

	started := time.Now()
	text, err := h.transcriber.Transcribe(sttCtx, audio)
	h.metrics.RecordUpstream("stt", "transcribe", err, time.Since(started).Seconds())
	if err != nil {
		logging.WithUpstream(c.sessionID, "stt").Error().Err(err).Msg("Transcription failed")
		h.sendError(c, "could not transcribe audio, please try again")
		return
	}
	if err := h.validator.ValidateText(text); err != nil {
		h.sendError(c, "no speech detected, please try again")
		return
	}

	if err := c.send(models.NewEnvelope(models.TypeTranscription, transcriptionPayload{Text: text})); err != nil {
		return
	}

	h.runTurn(ctx, c, text, false)
}

// runTurn drives one turn through the orchestrator, streaming text chunks
// as they arrive and following up with synthesized audio unless the
// candidate interrupted.
func (h *Handler) runTurn(ctx context.Context, c *client, input string, isStart bool) {
	c.suppressAudio.Store(false)

	emit := func(fragment string) error {
		return c.send(models.NewEnvelope(models.TypeTextChunk, textChunkPayload{Text: fragment}))
	}

	var result *interview.TurnResult
	var err error
	if isStart {
		if sendErr := c.send(models.NewEnvelope(models.TypeSessionCreated, sessionCreatedPayload{SessionID: c.sessionID})); sendErr != nil {
			return
		}
		result, err = h.svc.Start(ctx, c.sessionID, emit)
	} else {
		result, err = h.svc.Answer(ctx, c.sessionID, input, emit)
	}
	if err != nil {
		h.sendError(c, turnErrorMessage(err))
		return
	}

	if result.Content != "" && !c.suppressAudio.Load() {
		h.sendAudio(ctx, c, result.Content)
	}

	if err := c.send(models.NewEnvelope(models.TypeResponseComplete, responseCompletePayload{
		Stage:    string(result.Stage),
		Finished: result.Finished,
	})); err != nil {
		return
	}

	if result.Finished {
		report, err := h.svc.Finalize(ctx, c.sessionID)
		if err != nil {
			logging.WithSession(c.sessionID).Error().Err(err).Msg("Finalization failed")
			h.sendError(c, "could not finalize the interview report")
			return
		}
		_ = c.send(models.NewEnvelope(models.TypeReport, report))
	}
}

// sendAudio synthesizes and delivers the spoken turn. Synthesis failure
// degrades to text-only; the transcript already reached the client.
func (h *Handler) sendAudio(ctx context.Context, c *client, text string) {
	ttsCtx, cancel := context.WithTimeout(ctx, h.opts.TTSTimeout)
	defer cancel()

	started := time.Now()
	audio, err := h.synthesizer.Synthesize(ttsCtx, text)
	h.metrics.RecordUpstream("tts", "synthesize", err, time.Since(started).Seconds())
	if err != nil {
		logging.WithUpstream(c.sessionID, "tts").Warn().Err(err).Msg("Synthesis failed, delivering text only")
		return
	}
	if c.suppressAudio.Load() {
		return
	}
	_ = c.send(models.NewEnvelope(models.TypeAudioOutput, audioOutputPayload{
		Audio: base64.StdEncoding.EncodeToString(audio),
	}))
}

func (h *Handler) sendError(c *client, message string) {
	_ = c.send(models.NewEnvelope(models.TypeError, errorPayload{Message: message}))
}

// turnErrorMessage maps orchestrator errors to short client-safe messages.
func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, interview.ErrSessionBusy):
		return "a response is already being generated, please wait"
	case errors.Is(err, interview.ErrSessionNotFound):
		return "unknown session"
	case errors.Is(err, interview.ErrUpstreamTimeout):
		return "the interviewer timed out, please resend your answer"
	case errors.Is(err, interview.ErrUpstreamFailure):
		return "the interviewer is temporarily unavailable, please resend your answer"
	default:
		return "internal error"
	}
}
