package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeTimeout = 10 * time.Second

// refreshMessage tells clients a component's table changed and should be
// re-fetched from /api/tables/:component.
type refreshMessage struct {
	Event     string `json:"event"`
	Component string `json:"component"`
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

// handleWebSocket upgrades the connection and keeps it registered for
// refresh notifications until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	// Read pump — detect client disconnect.
	go func() {
		defer func() {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifyRefresh tells all connected clients that a component was
// re-ingested. Clients that cannot be written to are dropped.
func (s *Server) NotifyRefresh(component string) {
	msg := refreshMessage{Event: "refresh", Component: component}

	wsMu.Lock()
	defer wsMu.Unlock()
	for conn := range wsClients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket write failed: %v", err)
			delete(wsClients, conn)
			conn.Close()
		}
	}
}
