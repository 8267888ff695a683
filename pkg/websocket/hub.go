package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub is the realtime channel for the live-trip experience: every connected
// user sits in a personal room, and participants of a live trip share a trip
// room for chat and location updates. Domain services publish through the hub
// fire-and-forget; a send to a slow client drops the client, never blocks the
// caller.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex

	// ChatHandler, when set, is invoked for every chat message relayed
	// through a trip room, so the caller can persist it and emit a
	// notification intent.
	ChatHandler func(tripID, senderID primitive.ObjectID, body string)
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func UserRoom(userID primitive.ObjectID) string {
	return "user_" + userID.Hex()
}

func TripRoom(tripID primitive.ObjectID) string {
	return "trip_" + tripID.Hex()
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	h.joinRoom(client, UserRoom(client.UserID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		for roomID, room := range h.rooms {
			if _, exists := room[client]; exists {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	if msg.RoomID != "" {
		h.SendToRoom(msg.RoomID, msg)
		return
	}
	h.sendToAll(msg)
}

func (h *Hub) sendToAll(message Message) {
	data, _ := json.Marshal(message)

	h.mutex.RLock()
	var stalled []*Client
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mutex.RUnlock()

	h.evict(stalled)
}

func (h *Hub) SendToRoom(roomID string, message Message) {
	data, _ := json.Marshal(message)

	h.mutex.RLock()
	room, exists := h.rooms[roomID]
	if !exists {
		h.mutex.RUnlock()
		return
	}
	var stalled []*Client
	for client := range room {
		select {
		case client.send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mutex.RUnlock()

	h.evict(stalled)
}

// evict drops clients whose send buffer stayed full. Membership is re-checked
// under the write lock so a client caught by two concurrent publishers is
// removed and closed exactly once.
func (h *Hub) evict(clients []*Client) {
	if len(clients) == 0 {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, client := range clients {
		if _, ok := h.clients[client]; !ok {
			continue
		}
		delete(h.clients, client)
		close(client.send)

		for roomID, room := range h.rooms {
			if _, exists := room[client]; exists {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
	}
}

// SendToUser publishes to a user's personal room. Users not currently
// connected simply miss the realtime copy; the persisted notification record
// is the source of truth.
func (h *Hub) SendToUser(userID primitive.ObjectID, eventType string, data map[string]interface{}) {
	h.SendToRoom(UserRoom(userID), Message{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
}

// SendToTrip publishes to a live trip's shared room.
func (h *Hub) SendToTrip(tripID primitive.ObjectID, message Message) {
	h.SendToRoom(TripRoom(tripID), message)
}

// Broadcast publishes to every connected client, used for open-trip
// discovery events.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	h.sendToAll(Message{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
}

func (h *Hub) JoinTrip(client *Client, tripID primitive.ObjectID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.joinRoom(client, TripRoom(tripID))
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}
