package dva

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var monitorUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Monitor broadcasts GenerationRecords from a running optimization to any
// number of connected websocket clients, grounded on the market-indikator
// broadcast hub: a register/unregister hub goroutine fans each tick out to
// per-client buffered send channels, dropping ticks for slow clients rather
// than blocking the optimizer (§6's live-monitor ambient component).
type Monitor struct {
	input      <-chan GenerationRecord
	clients    map[*monitorClient]bool
	register   chan *monitorClient
	unregister chan *monitorClient
}

// NewMonitor wraps input, a channel the MOEA core publishes generation
// records to.
func NewMonitor(input <-chan GenerationRecord) *Monitor {
	return &Monitor{
		input:      input,
		clients:    make(map[*monitorClient]bool),
		register:   make(chan *monitorClient),
		unregister: make(chan *monitorClient),
	}
}

// Run drives the hub loop until input is closed. Call in its own goroutine.
func (m *Monitor) Run() {
	for {
		select {
		case c := <-m.register:
			m.clients[c] = true
			log.Printf("monitor: client connected (%d total)", len(m.clients))
		case c := <-m.unregister:
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.send)
			}
		case rec, ok := <-m.input:
			if !ok {
				return
			}
			msg, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			for c := range m.clients {
				select {
				case c.send <- msg:
				default:
					// slow client: drop this tick
				}
			}
		}
	}
}

// ServeHTTP upgrades an HTTP request to a websocket connection and streams
// generation ticks to it until the client disconnects.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := monitorUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: upgrade failed: %v", err)
		return
	}
	c := &monitorClient{conn: conn, send: make(chan []byte, 256)}
	m.register <- c
	go c.writePump(m)
	go c.readPump(m)
}

type monitorClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *monitorClient) readPump(m *Monitor) {
	defer func() {
		m.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *monitorClient) writePump(m *Monitor) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
