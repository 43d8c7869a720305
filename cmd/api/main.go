// server/cmd/api/main.go
package main

import (
	"log"
	"time"

	"food-aid-distribution-api-server/config"
	"food-aid-distribution-api-server/internal/api/routes"
	"food-aid-distribution-api-server/internal/auth"
	"food-aid-distribution-api-server/internal/database"
	"food-aid-distribution-api-server/internal/s3"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Nạp .env (nếu có) rồi load configuration; thiếu trường bắt buộc là dừng luôn
	godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Gán secret và thời hạn token cho package auth
	auth.JwtSecret = []byte(cfg.JWT.Secret)
	if cfg.JWT.Expiration != "" {
		ttl, err := time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid jwt.expiration %q: %v", cfg.JWT.Expiration, err)
		}
		auth.TokenTTL = ttl
	}

	// 3. Kết nối MongoDB
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}

	// 4. Seed tài khoản manager mặc định và kho khởi điểm (chỉ khi đang rỗng)
	if err := database.SeedManager(db); err != nil {
		log.Fatalf("Failed to seed default manager: %v", err)
	}
	if err := database.SeedInventory(db); err != nil {
		log.Fatalf("Failed to seed inventory: %v", err)
	}

	// 5. Khởi tạo S3 uploader cho ảnh minh chứng (tùy chọn)
	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to create S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, proof photo upload is disabled.")
	}

	// 6. Khởi tạo WebSocket hub cho live feed
	wsHub := socket.NewHub()

	// 7. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub)

	// 8. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
