package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

// Subscriber joins the admin room on the live channel and forwards every
// event it receives.
type Subscriber struct {
	url   string
	token func() string
	mylog mylogger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ ports.IEventSubscriber = (*Subscriber)(nil)

// New builds a subscriber for url. token is asked for the session token at
// join time; it may return "".
func New(url string, token func() string, mylog mylogger.Logger) *Subscriber {
	return &Subscriber{
		url:   url,
		token: token,
		mylog: mylog.With("transport", "ws"),
	}
}

// Subscribe dials, sends the join-admin-room frame and reads until ctx is done
// or the connection drops. Frames that are not valid events are skipped.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(dto.Event)) error {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("connecting to websocket: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer s.Close()

	join := dto.Event{Type: dto.EventJoinAdminRoom}
	if s.token != nil {
		join.Token = s.token()
	}
	if err := s.send(join); err != nil {
		return err
	}
	s.mylog.Action("admin_room_joined").Info("joined admin room", "url", s.url)

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}

		var ev dto.Event
		if err := json.Unmarshal(payload, &ev); err != nil || ev.Type == "" {
			s.mylog.Action("live_event_skipped").Debug("skipping non-event frame")
			continue
		}
		handler(ev)
	}
}

func (s *Subscriber) send(ev dto.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return errors.New("websocket is not connected")
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
