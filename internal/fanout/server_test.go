package fanout

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DhavalSuthar-24/crickpro/internal/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	env, err := DecodeEnvelope(msg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func waitForClients(t *testing.T, s *Server, userID uint, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Clients(userID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients for %d = %d, want %d", userID, s.Clients(userID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeSendsHelloThenMatchEvents(t *testing.T) {
	bus := events.NewBus()
	feed := NewServer(bus)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feed.Serve(w, r, 7, events.New(events.EventStateChanged, 7, map[string]int{"score": 12}))
	}))
	defer srv.Close()

	conn := dial(t, srv)
	hello := readEnvelope(t, conn)
	if hello.Type != "state_changed" || hello.MatchUserID != 7 || string(hello.Payload) != `{"score":12}` {
		t.Fatalf("hello = %+v payload %s", hello, hello.Payload)
	}
	waitForClients(t, feed, 7, 1)

	// Another match's events never reach this spectator.
	bus.Publish(events.New(events.EventCommentary, 8, "elsewhere"))
	bus.Publish(events.New(events.EventCommentary, 7, "Driven beautifully!"))

	got := readEnvelope(t, conn)
	if got.Type != "commentary" || string(got.Payload) != `"Driven beautifully!"` {
		t.Fatalf("event = %+v payload %s", got, got.Payload)
	}
}

func TestClientRemovedOnDisconnect(t *testing.T) {
	bus := events.NewBus()
	feed := NewServer(bus)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feed.Serve(w, r, 3, events.New(events.EventStateChanged, 3, nil))
	}))
	defer srv.Close()

	conn := dial(t, srv)
	readEnvelope(t, conn)
	waitForClients(t, feed, 3, 1)

	conn.Close()
	waitForClients(t, feed, 3, 0)
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Fatalf("garbage decoded")
	}
	if _, err := DecodeEnvelope([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("envelope without type decoded")
	}
}
