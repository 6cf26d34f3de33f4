package relay

import (
	"context"
	"time"

	"github.com/vaanihq/platform/internal/pipeline"
	"github.com/vaanihq/platform/internal/registry"
	"github.com/vaanihq/platform/internal/syncx"
	"github.com/vaanihq/platform/internal/trace"
)

// Dispatcher fans a pipeline result out to the right sessions:
// synthesized audio to every peer, failure notices to the originator
// only. A dead peer is unregistered and the broadcast continues.
type Dispatcher struct {
	reg         *registry.Registry
	sendTimeout time.Duration
	stats       *syncx.RWGuard[Stats]
}

// NewDispatcher creates a dispatcher over the registry.
func NewDispatcher(reg *registry.Registry, sendTimeout time.Duration, stats *syncx.RWGuard[Stats]) *Dispatcher {
	return &Dispatcher{reg: reg, sendTimeout: sendTimeout, stats: stats}
}

// Deliver routes one result. Per-peer sends are time-bounded so a
// stalled peer never blocks the speaker's pipeline.
func (d *Dispatcher) Deliver(ctx context.Context, from *registry.Session, res pipeline.Result) {
	ctx, span := trace.StartSpan(ctx, "dispatch")
	defer span.End()
	log := trace.Logger(ctx)

	if !res.OK() {
		// Peers hear silence for a failed segment; only the speaker
		// learns what went wrong.
		span.SetAttr("stage", string(res.Failure.Stage))
		nctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
		notice := string(res.Failure.Stage) + " error: " + res.Failure.Message
		if err := from.SendNotice(nctx, notice); err != nil {
			log.Debug("failure notice not delivered", "device", from.Identity, "error", err)
		}
		return
	}

	delivered := 0
	for _, peer := range d.reg.Peers(from.Conversation, from.Identity) {
		if !peer.Deliverable() {
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := peer.SendAudio(pctx, res.Audio)
		cancel()

		if err != nil {
			log.Warn("peer delivery failed, dropping peer", "peer", peer.Identity, "error", err)
			d.reg.Release(from.Conversation, peer)
			peer.Close("delivery failed")
			d.stats.Write(func(st *Stats) { st.PeersDropped++ })
			continue
		}
		delivered++
	}
	span.SetAttr("delivered", delivered)
}
