package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
	"github.com/wricardo/gridduel/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound messages buffered per client before it is dropped.
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Both players usually open the same page from different hosts
		return true
	},
}

// Handler receives connection events. The session coordinator implements it.
type Handler interface {
	Join(clientID string, attach func(init service.Message))
	HandleMessage(clientID string, data []byte)
}

// Client represents a WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

type envelope struct {
	clientID string
	data     []byte
}

// Hub maintains the set of active clients and delivers outbound messages.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients by id
	clients map[string]*Client

	// Messages for every client
	broadcast chan []byte

	// Messages for a single client
	direct chan envelope

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Client count queries
	count chan chan int

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	running bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte),
		direct:     make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns after Close.
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			for _, client := range h.clients {
				h.deliver(client, data)
			}

		case env := <-h.direct:
			if client, ok := h.clients[env.clientID]; ok {
				h.deliver(client, env.data)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.quit:
			for _, client := range h.clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// Close stops the event loop and disconnects every client. It is safe to
// call more than once, concurrently, or before Run.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })

	h.mu.Lock()
	running := h.running
	h.mu.Unlock()
	if running {
		<-h.done
	}
}

// ServeWS upgrades the request and joins the new client through handler.
// The init message is queued before the client can see any broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, handler Handler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   ksuid.New().String(),
	}

	handler.Join(client.id, func(init service.Message) {
		if data, ok := encode(init); ok {
			client.send <- data
		}
		select {
		case h.register <- client:
		case <-h.quit:
			close(client.send)
		}
	})

	// Start client goroutines
	go client.writePump()
	go client.readPump(handler)
}

// Broadcast sends msg to every connected client
func (h *Hub) Broadcast(msg service.Message) {
	data, ok := encode(msg)
	if !ok {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.quit:
	}
}

// SendTo sends msg to one client. Unknown ids are ignored.
func (h *Hub) SendTo(clientID string, msg service.Message) {
	data, ok := encode(msg)
	if !ok {
		return
	}
	select {
	case h.direct <- envelope{clientID: clientID, data: data}:
	case <-h.quit:
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.quit:
		return 0
	}
}

func encode(msg service.Message) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msg.Type, err)
		return nil, false
	}
	return data, true
}

// deliver queues data for client, dropping the client if its buffer is full
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		log.Printf("Client %s is not keeping up, disconnecting", client.id)
		h.unregisterClient(client)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client.id] = client
	log.Printf("Client %s registered (total clients: %d)", client.id, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
		log.Printf("Client %s unregistered (remaining clients: %d)", client.id, len(h.clients))
	}
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *Client) readPump(handler Handler) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		handler.HandleMessage(c.id, data)
	}
}

// writePump pumps messages from the hub to the WebSocket connection. Each
// message goes out as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
