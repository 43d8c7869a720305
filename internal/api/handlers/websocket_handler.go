// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"food-aid-distribution-api-server/internal/auth"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Thời gian chờ tối đa cho một tin nhắn từ client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
}

// ServeWs xử lý các yêu cầu kết nối WebSocket.
// Token được truyền qua query vì trình duyệt không gửi được header
// Authorization khi mở WebSocket.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	h.Hub.Register(userID, claims.Role, conn)

	defer func() {
		h.Hub.Unregister(userID)
		conn.Close()
	}()

	// Thiết lập cơ chế xử lý Ping (Heartbeat)
	// Đặt thời gian chờ tối đa để nhận một tin nhắn từ client.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	// Khi nhận được một tin nhắn PING từ client, chúng ta reset lại deadline.
	// Thư viện gorilla/websocket sẽ tự động gửi lại PONG.
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Khởi chạy Vòng Lặp Đọc (Read Loop)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}
	}
}
