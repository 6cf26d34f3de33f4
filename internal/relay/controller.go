package relay

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coder/websocket"

	apperr "github.com/vaanihq/platform/internal/errors"
	"github.com/vaanihq/platform/internal/registry"
	"github.com/vaanihq/platform/internal/segment"
)

// runSession reads audio frames from the connection until it closes,
// flushing buffered segments through the pipeline and dispatching the
// results. Segments are processed one at a time; a slow pipeline stage
// delays the next read rather than accumulating unbounded work.
func (s *Server) runSession(ctx context.Context, sess *registry.Session, conn *websocket.Conn, log *slog.Logger) {
	limiter := &rateLimiter{}

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return
			}
			log.Debug("read error", "error", err)
			return
		}
		if typ != websocket.MessageBinary {
			continue
		}

		if !limiter.allow() {
			nctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
			_ = sess.SendNotice(nctx, "error: too many frames, slow down")
			cancel()
			continue
		}

		sess.Buffer.Append(data)
		if !sess.Buffer.ShouldFlush() {
			continue
		}

		seg, err := sess.Buffer.Take()
		if err != nil {
			if apperr.IsCode(err, apperr.CodeEmptySegment) {
				log.Debug("empty segment discarded")
				continue
			}
			log.Error("segment flush failed", "error", err)
			continue
		}

		s.processSegment(ctx, sess, seg, log)
	}
}

func (s *Server) processSegment(ctx context.Context, sess *registry.Session, seg segment.Segment, log *slog.Logger) {
	res := s.orch.Process(ctx, seg, sess.Source, sess.Target)
	if res.OK() {
		s.stats.Write(func(st *Stats) { st.SegmentsProcessed++ })
	} else {
		s.stats.Write(func(st *Stats) { st.SegmentsFailed++ })
		log.Info("segment failed", "stage", res.Failure.Stage, "message", res.Failure.Message)
	}
	s.disp.Deliver(ctx, sess, res)
}
