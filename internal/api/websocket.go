package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/rankine-core/internal/cycle"
	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
	"github.com/nerrad567/rankine-core/internal/infrastructure/logging"
)

// Frame kinds. Clients send subscribe, unsubscribe, solve and ping; the
// server answers with ack, result, pong or error and pushes event frames
// for subscribed channels.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameSolve       = "solve"
	FramePing        = "ping"
	FramePong        = "pong"
	FrameAck         = "ack"
	FrameResult      = "result"
	FrameEvent       = "event"
	FrameError       = "error"
)

const (
	// outboxSize is the number of frames queued per stream before new
	// frames are dropped.
	outboxSize = 64

	// wsSolveTimeout bounds a solve requested over a stream.
	wsSolveTimeout = 30 * time.Second
)

// channels lists what a stream may subscribe to.
var channels = map[string]bool{
	cycle.ChannelSolved: true,
}

// Frame is the envelope of every WebSocket message in both directions.
// Ref echoes the client's reference on replies.
type Frame struct {
	Kind    string          `json:"kind"`
	Ref     string          `json:"ref,omitempty"`
	Channel string          `json:"channel,omitempty"`
	At      time.Time       `json:"at"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ChannelList is the data of subscribe and unsubscribe frames and of the
// ack that answers them.
type ChannelList struct {
	Channels []string `json:"channels"`
}

// FrameFailure is the data of an error frame.
type FrameFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Hub fans solved runs out to connected streams.
//
// Thread Safety: all methods are safe for concurrent use.
type Hub struct {
	logger *logging.Logger

	mu      sync.RWMutex
	streams map[*stream]struct{}
}

// stream is one WebSocket connection.
type stream struct {
	hub    *Hub
	conn   *websocket.Conn
	outbox chan []byte
	done   chan struct{}
	stop   sync.Once

	mu     sync.RWMutex
	topics map[string]bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are filtered by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		streams: make(map[*stream]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every stream.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	streams := h.streams
	h.streams = make(map[*stream]struct{})
	h.mu.Unlock()

	for st := range streams {
		st.close()
	}
}

// ClientCount returns the number of connected streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

// Broadcast pushes payload to every stream subscribed to channel. It
// satisfies cycle.WSHub.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := encodeFrame(Frame{Kind: FrameEvent, Channel: channel}, payload)
	if err != nil {
		h.logger.Error("encoding websocket event", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*stream, 0, len(h.streams))
	for st := range h.streams {
		targets = append(targets, st)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, st := range targets {
		if st.subscribed(channel) && st.push(data) {
			delivered++
		}
	}
	h.logger.Debug("websocket event pushed", "channel", channel, "streams", delivered)
}

func (h *Hub) add(st *stream) {
	h.mu.Lock()
	h.streams[st] = struct{}{}
	n := len(h.streams)
	h.mu.Unlock()
	h.logger.Debug("websocket stream opened", "streams", n)
}

func (h *Hub) remove(st *stream) {
	h.mu.Lock()
	delete(h.streams, st)
	n := len(h.streams)
	h.mu.Unlock()
	st.close()
	h.logger.Debug("websocket stream closed", "streams", n)
}

func newStream(h *Hub, conn *websocket.Conn) *stream {
	return &stream{
		hub:    h,
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
		topics: make(map[string]bool),
	}
}

// close stops the writer. It is safe to call more than once.
func (st *stream) close() {
	st.stop.Do(func() { close(st.done) })
}

// push queues data without blocking. It reports false when the stream is
// gone or its outbox is full.
func (st *stream) push(data []byte) bool {
	select {
	case <-st.done:
		return false
	default:
	}
	select {
	case st.outbox <- data:
		return true
	default:
		st.hub.logger.Warn("websocket outbox full, frame dropped")
		return false
	}
}

func (st *stream) subscribed(channel string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.topics[channel]
}

// keepalive holds the connection timing derived from configuration.
type keepalive struct {
	ping      time.Duration
	wait      time.Duration
	readLimit int64
}

func newKeepalive(cfg config.WebSocketConfig) keepalive {
	ka := keepalive{
		ping:      time.Duration(cfg.PingInterval) * time.Second,
		wait:      time.Duration(cfg.PongTimeout) * time.Second,
		readLimit: int64(cfg.MaxMessageSize),
	}
	if ka.ping <= 0 {
		ka.ping = 30 * time.Second
	}
	if ka.wait <= 0 {
		ka.wait = 10 * time.Second
	}
	if ka.readLimit <= 0 {
		ka.readLimit = 8192
	}
	return ka
}

// handleWebSocket upgrades the request into a stream.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	st := newStream(s.hub, conn)
	s.hub.add(st)

	ka := newKeepalive(s.wsCfg)
	go st.writeLoop(ka)
	go s.readLoop(st, ka)
}

// writeLoop drains the outbox and keeps the connection alive with pings.
func (st *stream) writeLoop(ka keepalive) {
	ticker := time.NewTicker(ka.ping)
	defer func() {
		ticker.Stop()
		st.conn.Close() //nolint:errcheck // Connection is being torn down
	}()

	for {
		select {
		case <-st.done:
			//nolint:errcheck // Best-effort close frame
			st.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(ka.wait))
			return
		case data := <-st.outbox:
			//nolint:errcheck // Write error is caught below
			st.conn.SetWriteDeadline(time.Now().Add(ka.wait))
			if err := st.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := st.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ka.wait)); err != nil {
				return
			}
		}
	}
}

// readLoop dispatches client frames until the connection fails.
func (s *Server) readLoop(st *stream, ka keepalive) {
	defer s.hub.remove(st)

	extend := func() error { return st.conn.SetReadDeadline(time.Now().Add(ka.ping + ka.wait)) }
	st.conn.SetReadLimit(ka.readLimit)
	extend() //nolint:errcheck // Deadline on a fresh connection
	st.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, raw, err := st.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		extend() //nolint:errcheck // Any frame proves liveness
		s.dispatch(st, raw)
	}
}

// dispatch handles one client frame.
func (s *Server) dispatch(st *stream, raw []byte) {
	var in Frame
	if err := json.Unmarshal(raw, &in); err != nil {
		st.fail("", ErrCodeBadRequest, "frame is not valid JSON")
		return
	}

	switch in.Kind {
	case FrameSubscribe, FrameUnsubscribe:
		st.changeTopics(in)
	case FrameSolve:
		s.solveFrame(st, in)
	case FramePing:
		st.reply(FramePong, in.Ref, nil)
	default:
		st.fail(in.Ref, ErrCodeBadRequest, "unknown frame kind "+in.Kind)
	}
}

// changeTopics applies a subscribe or unsubscribe frame and acks with the
// stream's resulting channel set.
func (st *stream) changeTopics(in Frame) {
	var list ChannelList
	if err := json.Unmarshal(in.Data, &list); err != nil || len(list.Channels) == 0 {
		st.fail(in.Ref, ErrCodeBadRequest, "data must be {\"channels\": [...]}")
		return
	}
	for _, ch := range list.Channels {
		if !channels[ch] {
			st.fail(in.Ref, ErrCodeNotFound, "unknown channel "+ch)
			return
		}
	}

	st.mu.Lock()
	for _, ch := range list.Channels {
		if in.Kind == FrameSubscribe {
			st.topics[ch] = true
		} else {
			delete(st.topics, ch)
		}
	}
	current := make([]string, 0, len(st.topics))
	for ch := range st.topics {
		current = append(current, ch)
	}
	st.mu.Unlock()

	sort.Strings(current)
	st.reply(FrameAck, in.Ref, ChannelList{Channels: current})
}

// solveFrame runs a cycle from a solve frame. Data is decoded over the
// reference plant like a POST body; a missing data field solves it as is.
func (s *Server) solveFrame(st *stream, in Frame) {
	spec := cycle.DefaultSpec()
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &spec); err != nil {
			st.fail(in.Ref, ErrCodeBadRequest, "invalid spec: "+err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), wsSolveTimeout)
	defer cancel()

	res, err := s.cycles.Solve(ctx, spec)
	if err != nil {
		status, code := classifyError(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("websocket solve failed", "error", err)
			st.fail(in.Ref, code, "internal server error")
			return
		}
		st.fail(in.Ref, code, err.Error())
		return
	}
	st.reply(FrameResult, in.Ref, res)
}

func (st *stream) reply(kind, ref string, data any) {
	out, err := encodeFrame(Frame{Kind: kind, Ref: ref}, data)
	if err != nil {
		st.hub.logger.Error("encoding websocket reply", "kind", kind, "error", err)
		return
	}
	st.push(out)
}

func (st *stream) fail(ref, code, message string) {
	st.reply(FrameError, ref, FrameFailure{Code: code, Message: message})
}

// encodeFrame stamps f, attaches data and marshals it.
func encodeFrame(f Frame, data any) ([]byte, error) {
	f.At = time.Now().UTC()
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		f.Data = raw
	}
	return json.Marshal(f)
}
