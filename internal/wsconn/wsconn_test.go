package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// startServer runs a test WebSocket server driven by handler.
func startServer(t *testing.T, handler func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Logf("websocket accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		if handler != nil {
			handler(conn)
		}
	}))
	return server, "ws" + strings.TrimPrefix(server.URL, "http")
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	cfg := DefaultConfig(url, "test")
	cfg.PingInterval = 0

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestClient_Connect(t *testing.T) {
	server, url := startServer(t, func(conn *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	client := newTestClient(t, url)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !client.IsConnected() {
		t.Errorf("State() = %v, want %v", client.State(), StateConnected)
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	client := newTestClient(t, "ws://localhost:59999")
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err == nil {
		t.Fatal("Connect() succeeded against a dead endpoint")
	}
	if client.State() != StateDisconnected {
		t.Errorf("State() = %v, want %v", client.State(), StateDisconnected)
	}
}

func TestClient_SendJSON(t *testing.T) {
	var mu sync.Mutex
	var received []byte

	server, url := startServer(t, func(conn *websocket.Conn) {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return
		}
		mu.Lock()
		received = data
		mu.Unlock()
	})
	defer server.Close()

	client := newTestClient(t, url)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	payload := map[string]any{"op": "subscribe", "topic": "pools"}
	if err := client.SendJSON(ctx, payload); err != nil {
		t.Fatalf("SendJSON() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	var parsed map[string]any
	if err := json.Unmarshal(received, &parsed); err != nil {
		t.Fatalf("server received invalid JSON: %v (data: %s)", err, received)
	}
	if parsed["op"] != "subscribe" {
		t.Errorf("op = %v, want subscribe", parsed["op"])
	}
}

func TestClient_ReceivesMessages(t *testing.T) {
	server, url := startServer(t, func(conn *websocket.Conn) {
		ctx := context.Background()
		for {
			msgType, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if err := conn.Write(ctx, msgType, data); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := newTestClient(t, url)
	defer client.Close()

	got := make(chan []byte, 1)
	client.OnMessage(func(ctx context.Context, msg []byte) {
		select {
		case got <- msg:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	want := []byte(`{"pool":"0xabc","reserve0":"100"}`)
	if err := client.Send(ctx, want); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case msg := <-got:
		if string(msg) != string(want) {
			t.Errorf("received %s, want %s", msg, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed message")
	}
}

func TestClient_StateTransitions(t *testing.T) {
	server, url := startServer(t, func(conn *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	client := newTestClient(t, url)
	defer client.Close()

	var mu sync.Mutex
	var states []State
	client.OnStateChange(func(state State, err error) {
		mu.Lock()
		states = append(states, state)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(states) < 2 || states[0] != StateConnecting || states[1] != StateConnected {
		t.Errorf("state transitions = %v, want [connecting connected ...]", states)
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	server, url := startServer(t, func(conn *websocket.Conn) {
		ctx := context.Background()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := newTestClient(t, url)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if client.State() != StateClosed {
		t.Errorf("State() = %v, want %v", client.State(), StateClosed)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := client.Send(ctx, []byte("x")); err != ErrClosed {
		t.Errorf("Send() after Close = %v, want ErrClosed", err)
	}
}
