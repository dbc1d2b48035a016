package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/resto-pos/models"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderProcessed = "order_processed"
	EventStockLow       = "stock_low"
	EventStockAdjusted  = "stock_adjusted"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi kasir/admin dan menyiarkan update
// antrian order serta peringatan stok.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated -> order customer baru masuk antrian kasir
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{
		Event: EventOrderCreated,
		Data:  order,
	})
}

// BroadcastOrderProcessed -> order selesai dibayar dan stok dipotong
func BroadcastOrderProcessed(order models.Order) {
	broadcast(Message{
		Event: EventOrderProcessed,
		Data:  order,
	})
}

// BroadcastStockLow -> material menyentuh ambang min_stock
func BroadcastStockLow(material models.Material) {
	broadcast(Message{
		Event: EventStockLow,
		Data:  material,
	})
}

// BroadcastStockAdjusted -> admin mengubah stok atau restock
func BroadcastStockAdjusted(history models.StockHistory) {
	broadcast(Message{
		Event: EventStockAdjusted,
		Data:  history,
	})
}

// BroadcastStaffNotification -> notifikasi teks bebas untuk kasir/admin
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
