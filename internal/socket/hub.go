// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// client là một kết nối WebSocket kèm vai trò của user sở hữu nó.
type client struct {
	conn *websocket.Conn
	role string
}

// Hub quản lý tất cả các client WebSocket.
type Hub struct {
	// clients là một map để lưu trữ các kết nối, key là userID.
	clients map[string]*client
	// mu là một Mutex để đảm bảo an toàn khi truy cập map clients từ nhiều goroutine.
	mu sync.RWMutex
}

// NewHub tạo một Hub mới.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register thêm một client mới vào Hub.
func (h *Hub) Register(userID, role string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = &client{conn: conn, role: role}
	log.Printf("WebSocket client registered: %s (%s)", userID, role)
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Send gửi một tin nhắn đến một client cụ thể.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	if !ok {
		// Không tìm thấy client (có thể đã offline), không coi đây là lỗi nghiêm trọng.
		log.Printf("WebSocket client not found, could not send message: %s", userID)
		return nil
	}

	// Gửi tin nhắn JSON
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// SendToRole gửi một tin nhắn đến tất cả các client có vai trò cho trước.
func (h *Hub) SendToRole(role string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, c := range h.clients {
		if c.role != role {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send WebSocket message to %s: %v", userID, err)
		}
	}
}

// NotifyEvent đóng gói một sự kiện thành JSON và đẩy cho tất cả manager đang online.
// Đây là kênh "live feed": mọi mutation đều phát một sự kiện để client vẽ lại.
func (h *Hub) NotifyEvent(event string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		log.Printf("Failed to marshal WebSocket event %q: %v", event, err)
		return
	}
	h.SendToRole("manager", message)
}

// NotifyUser đóng gói một sự kiện và gửi riêng cho một user (citizen nhận
// thông báo về bản ghi phân phối của chính mình).
func (h *Hub) NotifyUser(userID, event string, payload interface{}) {
	if userID == "" {
		return
	}
	message, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		log.Printf("Failed to marshal WebSocket event %q: %v", event, err)
		return
	}
	h.Send(userID, message)
}
