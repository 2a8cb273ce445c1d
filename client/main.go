package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/minesweeper/network"
)

// send frames and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	return c.WriteMessage(websocket.BinaryMessage, network.Encode(msgID, data))
}

// sendAction marshals a player action and sends it.
func sendAction(c *websocket.Conn, actionType string, x, y int) error {
	action := map[string]interface{}{"type": actionType, "x": x, "y": y}
	data, _ := json.Marshal(action)
	return send(c, network.MsgTypePlayerAction, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Decode(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
		}
	}()

	// Heartbeats keep the server's read deadline from firing while the
	// player thinks.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := send(c, network.MsgTypeHeartbeat, nil); err != nil {
				return
			}
		}
	}()

	// Start a game automatically
	log.Println("Sending Create Game request...")
	if err := send(c, network.MsgTypeCreateGame, []byte{}); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Commands: open X Y | flag X Y | chord X Y | hint | restart | new W H MINES")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "open", "flag", "chord":
				if len(fields) != 3 {
					log.Printf("Usage: %s X Y", fields[0])
					continue
				}
				x, _ := strconv.Atoi(fields[1])
				y, _ := strconv.Atoi(fields[2])
				err = sendAction(c, fields[0], x, y)
			case "hint", "restart":
				err = sendAction(c, fields[0], 0, 0)
			case "new":
				req := map[string]int{}
				if len(fields) == 4 {
					req["width"], _ = strconv.Atoi(fields[1])
					req["height"], _ = strconv.Atoi(fields[2])
					req["mines"], _ = strconv.Atoi(fields[3])
				}
				var data []byte
				data, _ = json.Marshal(req)
				err = send(c, network.MsgTypeCreateGame, data)
			default:
				log.Printf("Unknown command: %s", fields[0])
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", fields[0])
		}
	}
}
