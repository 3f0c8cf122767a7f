package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"

	"github.com/scadakit/scriptvault/internal/notify"
)

type wsWriter interface {
	Write(ctx context.Context, msgType websocket.MessageType, data []byte) error
}

// handleNotifyWS streams push notifications to a connected page until the
// page goes away.
func (s *Server) handleNotifyWS(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		writeError(w, http.StatusInternalServerError, errNoHub)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := r.Context()
	if err := streamNotifications(ctx, s.Hub, conn); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "stream error")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")
}

func streamNotifications(ctx context.Context, hub *notify.Hub, writer wsWriter) error {
	sub := hub.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-sub:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(n)
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, websocket.MessageText, payload); err != nil {
				return err
			}
		}
	}
}

var errNoHub = errors.New("notification hub unavailable")
