package network

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestConn upgrades one websocket pair: the raw client side and the
// framed server side.
func dialTestConn(t *testing.T) (*websocket.Conn, *WSConnection, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Dial failed: %v", err)
	}

	serverSide := NewWSConnection(<-connCh)
	cleanup := func() {
		client.Close()
		serverSide.Close()
		srv.Close()
	}
	return client, serverSide, cleanup
}

func TestWSConnection_HeartbeatDeadline(t *testing.T) {
	client, serverSide, cleanup := dialTestConn(t)
	defer cleanup()

	serverSide.SetHeartbeat(50 * time.Millisecond)

	// A message inside the deadline keeps the connection alive.
	if err := client.WriteMessage(websocket.BinaryMessage, Encode(MsgTypeHeartbeat, nil)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	packet, err := serverSide.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if packet.MsgID != MsgTypeHeartbeat {
		t.Errorf("Expected heartbeat message, got %d", packet.MsgID)
	}

	// Silence past twice the interval times the read out.
	if _, err := serverSide.ReadPacket(); err == nil {
		t.Error("Expected a read error after the heartbeat deadline passed")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte(`{"type":"open","x":3,"y":4}`)
	framed := Encode(MsgTypePlayerAction, payload)

	packet, err := Decode(framed)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if packet.MsgID != MsgTypePlayerAction {
		t.Errorf("MsgID = %d, want %d", packet.MsgID, MsgTypePlayerAction)
	}
	if packet.Length != uint16(len(payload)) {
		t.Errorf("Length = %d, want %d", packet.Length, len(payload))
	}
	if !bytes.Equal(packet.Data, payload) {
		t.Errorf("Data = %q, want %q", packet.Data, payload)
	}
}

func TestDecodeShortFrames(t *testing.T) {
	if _, err := Decode([]byte{0, 1}); err != io.ErrShortBuffer {
		t.Errorf("short header: err = %v, want io.ErrShortBuffer", err)
	}

	// Header claims more payload than the frame carries.
	framed := Encode(MsgTypeHeartbeat, []byte("abcd"))
	if _, err := Decode(framed[:6]); err != io.ErrShortBuffer {
		t.Errorf("truncated payload: err = %v, want io.ErrShortBuffer", err)
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	packet, err := Decode(Encode(MsgTypeHeartbeat, nil))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if packet.MsgID != MsgTypeHeartbeat || packet.Length != 0 {
		t.Errorf("got MsgID=%d Length=%d, want heartbeat with empty payload", packet.MsgID, packet.Length)
	}
}
