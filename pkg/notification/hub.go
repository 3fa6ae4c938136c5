package notification

import (
	"sync"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// Names of the broadcast notifications.
const (
	EventCreated = "newEvent"
	EventUpdated = "eventUpdated"
	EventDeleted = "eventDeleted"
)

// connectionBufferSize bounds how far a slow consumer may fall behind before
// messages are dropped.
const connectionBufferSize = 32

type Message struct {
	Event   string
	Payload any
}

type connection struct {
	channel chan Message
	rooms   map[uint]struct{}
}

// Hub owns the set of live connections and their room subscriptions. Rooms are
// keyed by event id and a connection joins a room explicitly; room membership
// is independent of the event's attendee set and dies with the connection.
// Delivery is best effort: per connection the order of delivered messages
// matches the order they were broadcast, but a connection whose buffer is full
// has the message dropped.
type Hub struct {
	connections map[string]*connection
	lock        sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*connection),
	}
}

// Connect registers a new connection and returns its id along with the channel
// the connection's messages arrive on. The channel is closed on Disconnect.
func (h *Hub) Connect() (string, <-chan Message) {
	h.lock.Lock()
	defer h.lock.Unlock()

	id := uuid.NewString()
	conn := &connection{
		channel: make(chan Message, connectionBufferSize),
		rooms:   make(map[uint]struct{}),
	}
	h.connections[id] = conn
	return id, conn.channel
}

func (h *Hub) Disconnect(id string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	conn, ok := h.connections[id]
	if !ok {
		return
	}
	close(conn.channel)
	delete(h.connections, id)
}

// SubscribeToRoom adds the connection to the room of the given event. No
// authentication is required; watching an event is not joining it.
func (h *Hub) SubscribeToRoom(connectionId string, eventId uint) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	conn, ok := h.connections[connectionId]
	if !ok {
		return errdef.NewNotFound("failed to find connection %q", connectionId)
	}
	conn.rooms[eventId] = struct{}{}
	return nil
}

// BroadcastGlobal sends the message to every connection.
func (h *Hub) BroadcastGlobal(event string, payload any) {
	h.lock.Lock()
	defer h.lock.Unlock()

	message := Message{Event: event, Payload: payload}
	for _, conn := range h.connections {
		send(conn, message)
	}
}

// BroadcastToRoom sends the message to the connections subscribed to the
// event's room.
func (h *Hub) BroadcastToRoom(eventId uint, event string, payload any) {
	h.lock.Lock()
	defer h.lock.Unlock()

	message := Message{Event: event, Payload: payload}
	for _, conn := range h.connections {
		if _, ok := conn.rooms[eventId]; ok {
			send(conn, message)
		}
	}
}

func send(conn *connection, message Message) {
	select {
	case conn.channel <- message:
	default:
		// slow consumer, the message is dropped
	}
}

// Connections returns the ids of the live connections.
func (h *Hub) Connections() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	return maps.Keys(h.connections)
}
