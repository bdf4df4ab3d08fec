package socket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

const testSecret = "socket-test-secret"

// mapTickets redeems each ticket at most once, like the auth service does.
type mapTickets struct {
	mu      sync.Mutex
	tickets map[string]string
}

func (m *mapTickets) RedeemSocketTicket(_ context.Context, ticket string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tickets[ticket]
	if !ok {
		return "", errors.New("unknown ticket")
	}
	delete(m.tickets, ticket)
	return userID, nil
}

func newSocketServer(t *testing.T, tickets TicketRedeemer) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()

	h := NewHandler(hub, testSecret, tickets)
	r := gin.New()
	r.GET("/api/ws", h.HandleWebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws" + query
}

func TestHandleWebSocketTicket(t *testing.T) {
	tickets := &mapTickets{tickets: map[string]string{"t-1": "user-1"}}
	srv := newSocketServer(t, tickets)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=t-1"), nil)
	if err != nil {
		t.Fatalf("dial with ticket: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// Tickets are single use
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "?token=t-1"), nil)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("second dial: err = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("second dial status = %d", resp.StatusCode)
	}
}

func TestHandleWebSocketJWTFallback(t *testing.T) {
	srv := newSocketServer(t, &mapTickets{tickets: map[string]string{}})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-2",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+signed), nil)
	if err != nil {
		t.Fatalf("dial with jwt: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHandleWebSocketRejectsBadCredentials(t *testing.T) {
	srv := newSocketServer(t, &mapTickets{tickets: map[string]string{}})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=garbage"), nil)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("garbage token err = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", resp.StatusCode)
	}

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("no token err = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", resp.StatusCode)
	}
}
