package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mm "github.com/fomo-app/fomo/internal/middleware"
	"github.com/fomo-app/fomo/internal/realtime"
)

const (
	changesBuffer = 64
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s server) changesStream(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /changes Changes Stream
	//
	// Upgrades connection to websocket and streams row changes as json messages.
	// Changes happened while the connection was down are not replayed.
	//
	// ---
	// parameters:
	// - name: tables
	//   description: comma separated tables, all tables when omitted
	//   in: query
	//   required: false
	//   example: parties,posts
	// - name: filter
	//   description: row filter
	//   in: query
	//   required: false
	//   example: id=eq.party_1719867600000_0a1b2c3d4
	// responses:
	//   '101':
	//     description: switching protocols
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"

	q := r.URL.Query()

	var tables []string
	for _, v := range strings.Split(q.Get("tables"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			tables = append(tables, v)
		}
	}

	f, err := realtime.ParseFilter(tables, q.Get("filter"))
	if err != nil {
		writeErr(r.Context(), w, "subscribe", err)
		return
	}

	l := mm.GetLogger(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already replied with error
		l.WithError(err).Debug("failed to upgrade connection")
		return
	}
	defer conn.Close()

	var (
		events   = make(chan realtime.Event, changesBuffer)
		overflow = make(chan struct{})
		once     sync.Once
	)

	sub := s.changes.Subscribe(f, func(e realtime.Event) {
		select {
		case events <- e:
		default:
			once.Do(func() { close(overflow) })
		}
	})
	defer s.changes.Unsubscribe(sub)

	closed := make(chan struct{})
	go func() {
		defer close(closed)

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-overflow:
			l.Warn("changes subscriber is too slow, closing connection")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
				time.Now().Add(writeWait))
			return
		case e := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				l.WithError(err).Debug("failed to write change")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
