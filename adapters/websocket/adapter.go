package websocket

import (
	"net/http"
	"strings"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"rankboard/core"
	"rankboard/realtime"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
	bufferSize = 256
)

// Handler returns an http.Handler that upgrades to WebSocket and streams
// leaderboard events from the hub as JSON text frames. The stream ends when
// the client goes away, a write fails or the hub closes. An optional
// comma-separated "types" query parameter limits the stream to those event
// types.
func Handler(hub *realtime.Hub) http.Handler {
	upgrader := gorillaws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var types []core.EventType
		if q := r.URL.Query().Get("types"); q != "" {
			types = realtime.ParseTypes(strings.Split(q, ","))
		}
		id, ch := hub.Subscribe(bufferSize, types...)
		defer hub.Unsubscribe(id)

		// Clients only listen; reading is needed to notice close frames.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(gorillaws.TextMessage, realtime.MarshalJSON(ev)); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(gorillaws.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-gone:
				return
			}
		}
	})
}
