package relay

import (
	"context"
	"sync"

	"github.com/coder/websocket"
)

// wsOutbound adapts a websocket connection to the registry's Outbound
// contract. Closing cancels the session context so any in-flight
// pipeline call the session started is aborted too.
type wsOutbound struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	once   sync.Once
}

func (o *wsOutbound) SendAudio(ctx context.Context, audio []byte) error {
	return o.conn.Write(ctx, websocket.MessageBinary, audio)
}

func (o *wsOutbound) SendNotice(ctx context.Context, text string) error {
	return o.conn.Write(ctx, websocket.MessageText, []byte(text))
}

func (o *wsOutbound) Close(reason string) {
	o.once.Do(func() {
		o.cancel()
		if len(reason) > closeReasonLimit {
			reason = reason[:closeReasonLimit]
		}
		_ = o.conn.Close(websocket.StatusNormalClosure, reason)
	})
}
