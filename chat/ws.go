package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inbound is what a client sends over the socket.
type inbound struct {
	Room    string `json:"room"`
	Content string `json:"content"`
}

// client bridges one websocket connection and its Redis subscription.
type client struct {
	service *Service
	conn    *websocket.Conn
	sub     *redis.PubSub
	userID  int
	rooms   map[string]bool
}

// ServeWS subscribes userID to rooms and upgrades the request. Events published
// to those rooms or to the user are forwarded to the socket; messages read from
// the socket are posted to their room if the user joined it.
func (s *Service) ServeWS(w http.ResponseWriter, r *http.Request, userID int, rooms []string) error {
	sub, err := s.Subscribe(r.Context(), userID, rooms)
	if err != nil {
		logging.Log.Errorf("CHAT: subscribe failed for %d: %v", userID, err)
		return err
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		logging.Log.Warnf("CHAT: upgrade failed for %d: %v", userID, err)
		return err
	}

	c := &client{
		service: s,
		conn:    conn,
		sub:     sub,
		userID:  userID,
		rooms:   make(map[string]bool, len(rooms)),
	}
	for _, room := range rooms {
		c.rooms[room] = true
	}
	logging.Log.Infof("CHAT: user %d connected to %v", userID, rooms)

	go c.writePump()
	go c.readPump()
	return nil
}

func (c *client) readPump() {
	defer func() {
		c.sub.Close()
		c.conn.Close()
		logging.Log.Infof("CHAT: user %d disconnected", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Log.Warnf("CHAT: read error for %d: %v", c.userID, err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if !c.rooms[msg.Room] {
			continue
		}
		if _, err := c.service.PostMessage(context.Background(), msg.Room, c.userID, msg.Content); err != nil {
			logging.Log.Warnf("CHAT: dropped message from %d: %v", c.userID, err)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	events := c.sub.Channel()
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
