package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vaanihq/platform/internal/config"
	"github.com/vaanihq/platform/internal/language"
	"github.com/vaanihq/platform/internal/pipeline"
	"github.com/vaanihq/platform/internal/registry"
	"github.com/vaanihq/platform/internal/segment"
	"github.com/vaanihq/platform/internal/syncx"
	"github.com/vaanihq/platform/internal/trace"
)

// JoinedMessage acknowledges a successful handshake.
type JoinedMessage struct {
	Type         string `json:"type"`
	Device       string `json:"device"`
	Conversation string `json:"conversation"`
	Source       string `json:"source"`
	Target       string `json:"target"`
}

// TranslateRequest is the body of the text-only translation endpoint.
type TranslateRequest struct {
	Text string `json:"text"`
	Src  string `json:"src"`
	Tgt  string `json:"tgt"`
}

// Stats counts relay activity for the stats endpoint.
type Stats struct {
	SessionsJoined    int64 `json:"sessions_joined"`
	SessionsRejected  int64 `json:"sessions_rejected"`
	SegmentsProcessed int64 `json:"segments_processed"`
	SegmentsFailed    int64 `json:"segments_failed"`
	PeersDropped      int64 `json:"peers_dropped"`
}

// Server handles HTTP and WebSocket connections for the relay.
type Server struct {
	cfg        *config.Config
	orch       *pipeline.Orchestrator
	translator pipeline.Translator
	reg        *registry.Registry
	disp       *Dispatcher
	stats      *syncx.RWGuard[Stats]
}

// New creates a relay server. The translator is the same client the
// orchestrator uses, exposed separately for the text-only endpoint.
func New(cfg *config.Config, orch *pipeline.Orchestrator, translator pipeline.Translator) *Server {
	reg := registry.New(cfg.RoomCapacity)
	stats := syncx.NewGuard(Stats{})
	return &Server{
		cfg:        cfg,
		orch:       orch,
		translator: translator,
		reg:        reg,
		disp:       NewDispatcher(reg, cfg.SendTimeout, stats),
		stats:      stats,
	}
}

// Registry exposes the session registry (used by tests and stats).
func (s *Server) Registry() *registry.Registry { return s.reg }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint: one connection per device per conversation.
	mux.HandleFunc("GET /ws/{src}/{tgt}/{device}", s.handleSession)

	// REST API
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	// Apply middleware: trace -> CORS
	return corsMiddleware(trace.Middleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	srcName := r.PathValue("src")
	tgtName := r.PathValue("tgt")
	device := r.PathValue("device")
	conv := r.URL.Query().Get("room")
	if conv == "" {
		conv = DefaultConversation
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("websocket accept error", "error", err)
		return
	}
	conn.SetReadLimit(s.cfg.MaxFrameBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	log := trace.Logger(ctx).With("device", device, "conversation", conv)

	for _, name := range []string{srcName, tgtName} {
		if !language.Known(name) {
			log.Warn("unknown language, using default", "name", name, "default", language.Default.Name)
		}
	}

	out := &wsOutbound{conn: conn, cancel: cancel}
	sess := registry.NewSession(device, conv,
		language.Resolve(srcName), language.Resolve(tgtName),
		segment.NewBuffer(s.cfg.FlushFrames), out)

	prior, err := s.reg.Register(conv, sess)
	if err != nil {
		log.Info("connection rejected", "reason", "capacity")
		s.stats.Write(func(st *Stats) { st.SessionsRejected++ })
		nctx, ncancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
		_ = out.SendNotice(nctx, CapacityNotice)
		ncancel()
		_ = conn.Close(websocket.StatusTryAgainLater, "conversation full")
		return
	}
	if prior != nil {
		prior.Close("replaced by new connection")
	}
	defer func() {
		s.reg.Release(conv, sess)
		sess.Close("session ended")
	}()

	sess.Activate()
	s.stats.Write(func(st *Stats) { st.SessionsJoined++ })
	log.Info("session joined", "source", sess.Source.Name, "target", sess.Target.Name)

	_ = wsjson.Write(ctx, conn, JoinedMessage{
		Type:         "joined",
		Device:       device,
		Conversation: conv,
		Source:       sess.Source.Name,
		Target:       sess.Target.Name,
	})

	s.runSession(ctx, sess, conn, log)
	log.Info("session closed")
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"message": "relay is working"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{"languages": language.Names()})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "text, src and tgt required"})
		return
	}

	src := language.Resolve(req.Src)
	tgt := language.Resolve(req.Tgt)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.StageTimeout)
	defer cancel()

	translated, err := s.translator.Translate(ctx, req.Text, src.TranslationCode, tgt.TranslationCode)
	if err != nil {
		trace.Logger(r.Context()).Error("text translation failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, map[string]string{"translated_text": translated})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.stats.Get())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
