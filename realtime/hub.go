package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/utils"
)

// Event types
const (
	EventOrdersSnapshot = "orders_snapshot"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// SnapshotProvider builds the payload a given viewer should see. It is
// called once per connected client on every order change, so it must be
// side-effect free.
type SnapshotProvider func(viewer models.ViewerIdentity) (interface{}, error)

// Hub holds every subscribed client (customers and staff) together with
// the identity used to filter its feed.
type Hub struct {
	clients  map[*websocket.Conn]models.ViewerIdentity
	provider SnapshotProvider
	mutex    sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]models.ViewerIdentity),
}

// SetSnapshotProvider wires the per-viewer snapshot builder. Must be
// called once at startup before any client connects.
func SetSnapshotProvider(fn SnapshotProvider) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.provider = fn
}

// RegisterClient adds a connection to the feed and pushes its initial
// snapshot so new subscribers never start from a blank view.
func RegisterClient(conn *websocket.Conn, viewer models.ViewerIdentity) {
	hub.mutex.Lock()
	hub.clients[conn] = viewer
	provider := hub.provider
	hub.mutex.Unlock()

	if provider != nil {
		pushSnapshot(conn, viewer, provider)
	}
}

// UnregisterClient removes a connection and closes it. No further
// messages are written to the connection afterwards.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected subscribers.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastSnapshots recomputes and pushes every client's view. Called
// after each committed order mutation; the store is the source of truth,
// clients just receive the freshly filtered result.
func BroadcastSnapshots() {
	hub.mutex.Lock()
	provider := hub.provider
	targets := make(map[*websocket.Conn]models.ViewerIdentity, len(hub.clients))
	for conn, viewer := range hub.clients {
		targets[conn] = viewer
	}
	hub.mutex.Unlock()

	if provider == nil {
		return
	}

	for conn, viewer := range targets {
		pushSnapshot(conn, viewer, provider)
	}
}

func pushSnapshot(conn *websocket.Conn, viewer models.ViewerIdentity, provider SnapshotProvider) {
	data, err := provider(viewer)
	if err != nil {
		utils.ErrorLogger.Printf("Error building snapshot for viewer %+v: %v", viewer, err)
		return
	}

	payload, err := json.Marshal(Message{Event: EventOrdersSnapshot, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling snapshot: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	// Client may have unsubscribed between the copy and the write.
	if _, ok := hub.clients[conn]; !ok {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		utils.ErrorLogger.Printf("Error sending snapshot: %v", err)
	}
}
