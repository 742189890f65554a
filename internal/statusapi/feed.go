package statusapi

import (
	"context"
	"net/http"
	"time"

	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Feed streams tracker events over WebSocket. Each connection first gets a
// snapshot of the current standings, then every event as it happens.
type Feed struct {
	tracker      *Tracker
	logger       *zap.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
}

func NewFeed(tracker *Tracker, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{tracker: tracker, logger: logger, pingInterval: 30 * time.Second, writeTimeout: 5 * time.Second}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := f.tracker.Subscribe(64)
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		f.logger.Warn("feed_accept_failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead handles control frames and cancels ctx
	// once the peer goes away.
	ctx := conn.CloseRead(r.Context())
	f.logger.Debug("feed_connect", zap.String("remote", r.RemoteAddr))

	standings := f.tracker.Standings()
	if err := f.write(ctx, conn, resultdto.Event{Type: resultdto.EventSnapshot, Progress: f.tracker.Progress(), Standings: &standings}); err != nil {
		return
	}

	ping := time.NewTicker(f.pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := f.write(ctx, conn, ev); err != nil {
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, f.writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (f *Feed) write(ctx context.Context, conn *websocket.Conn, ev resultdto.Event) error {
	wctx, cancel := context.WithTimeout(ctx, f.writeTimeout)
	defer cancel()
	if err := wsjson.Write(wctx, conn, ev); err != nil {
		f.logger.Debug("feed_write_failed", zap.String("type", string(ev.Type)), zap.Error(err))
		return err
	}
	return nil
}
