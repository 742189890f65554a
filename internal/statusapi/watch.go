package statusapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Watch connects to a Feed and calls fn for every event until ctx ends, the
// feed closes, or the tournament finishes.
func Watch(ctx context.Context, wsURL string, fn func(resultdto.Event)) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}
	defer conn.CloseNow()

	for {
		var ev resultdto.Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		fn(ev)
		if ev.Type == resultdto.EventFinished {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return nil
		}
	}
}
