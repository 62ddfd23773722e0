// Manual smoke client: creates a room, connects two players and plays
// the opening moves of a 2-player game, printing every event.
//
// Usage: go run test/loadtest.go [room_id]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const (
	createRoomURL = "http://localhost:3000/api/create-room"
	wsURL         = "ws://localhost:3000/ws"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	var roomID string
	if len(os.Args) >= 2 {
		roomID = os.Args[1]
		fmt.Println("Using existing room:", roomID)
	} else {
		roomID = createRoom()
		fmt.Println("Created room:", roomID)
	}

	p1 := connect(roomID, "alice")
	defer p1.Close()
	go drain("alice", p1)

	p2 := connect(roomID, "bob")
	defer p2.Close()
	go drain("bob", p2)

	time.Sleep(500 * time.Millisecond) // let the game auto-start

	// Opening moves from the two 2-player corners.
	place(p1, "piece_1", 0, 0, 0, false)
	time.Sleep(200 * time.Millisecond)
	place(p2, "piece_2", 12, 13, 0, false)

	time.Sleep(2 * time.Second)
}

func createRoom() string {
	body := bytes.NewBufferString(`{"max_players": 2}`)
	resp, err := http.Post(createRoomURL, "application/json", body)
	if err != nil {
		log.Fatal("Failed to create room:", err)
	}
	defer resp.Body.Close()

	var res struct {
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		log.Fatal("Invalid JSON from room creation:", err)
	}
	return res.RoomID
}

func connect(roomID, name string) *websocket.Conn {
	url := fmt.Sprintf("%s/%s?name=%s", wsURL, roomID, name)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("WS connect error for %s: %v", name, err)
	}
	fmt.Printf("%s connected\n", name)
	return conn
}

func place(conn *websocket.Conn, pieceID string, x, y, rotation int, flip bool) {
	data, _ := json.Marshal(map[string]any{
		"piece_id": pieceID,
		"x":        x,
		"y":        y,
		"rotation": rotation,
		"flip":     flip,
	})
	msg, _ := json.Marshal(WSMessage{Type: "place_piece", Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("Write error:", err)
	}
}

func drain(name string, conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			continue
		}
		fmt.Printf("[%s] %s: %s\n", name, wsMsg.Type, string(wsMsg.Data))
	}
}
