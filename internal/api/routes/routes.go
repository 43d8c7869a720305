// server/internal/api/routes/routes.go
package routes

import (
	"food-aid-distribution-api-server/config"
	"food-aid-distribution-api-server/internal/api/handlers"
	"food-aid-distribution-api-server/internal/api/middleware"
	"food-aid-distribution-api-server/internal/models"
	"food-aid-distribution-api-server/internal/s3"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	// Khởi tạo các handlers
	userHandler := &handlers.UserHandler{DB: db}
	inventoryHandler := &handlers.InventoryHandler{DB: db, Hub: wsHub}
	requestHandler := &handlers.RequestHandler{DB: db, Hub: wsHub}
	recordHandler := &handlers.RecordHandler{DB: db, Hub: wsHub, S3Uploader: s3Uploader}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// Route cho WebSocket (live feed)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===

		// Nhóm API authentication
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
			auth.POST("/anonymous", userHandler.AnonymousLogin)
		}

		// Form gửi yêu cầu công khai: không bắt buộc đăng nhập, nhưng nếu có
		// token thì yêu cầu được gắn với người gửi.
		public := apiV1.Group("/")
		public.Use(middleware.OptionalAuthenticate())
		{
			public.POST("/requests", requestHandler.CreateRequest)
		}

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===
		// Tất cả các route bên dưới sẽ đi qua middleware Authenticate trước

		// Nhóm API quản trị, yêu cầu vai trò "manager"
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize(models.RoleManager))
		{
			// User management
			admin.POST("/users", userHandler.CreateUser)
		}

		// Nhóm các API nghiệp vụ chính
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		{
			// Inventory management: đọc cho mọi vai trò đã đăng nhập,
			// mutation chỉ cho manager
			inventory := businessRoutes.Group("/inventory")
			{
				inventory.GET("/", inventoryHandler.GetAllInventory)

				managerInventoryRoutes := inventory.Group("/")
				managerInventoryRoutes.Use(middleware.Authorize(models.RoleManager))
				{
					managerInventoryRoutes.POST("/", inventoryHandler.CreateInventoryItem)
					managerInventoryRoutes.POST("/:item/restock", inventoryHandler.RestockItem)
				}
			}

			// Request management: mọi mutation trạng thái chỉ cho manager
			requests := businessRoutes.Group("/requests")
			requests.Use(middleware.Authorize(models.RoleManager))
			{
				requests.GET("/", requestHandler.GetAllRequests)
				requests.GET("/:id", requestHandler.GetRequestByID)
				requests.POST("/:id/approve", requestHandler.ApproveRequest)
				requests.POST("/:id/ship", requestHandler.ShipRequest)
				requests.POST("/:id/reset", requestHandler.ResetRequest)
			}

			// Distribution records
			records := businessRoutes.Group("/records")
			{
				// Citizen (và cả manager) chỉ xem bản ghi của chính mình qua /my
				records.GET("/my", recordHandler.GetMyRecords)

				managerRecordRoutes := records.Group("/")
				managerRecordRoutes.Use(middleware.Authorize(models.RoleManager))
				{
					managerRecordRoutes.GET("/", recordHandler.GetAllRecords)
					managerRecordRoutes.POST("/", recordHandler.CreateRecord)
					managerRecordRoutes.POST("/:id/complete", recordHandler.CompleteRecord)
					managerRecordRoutes.POST("/:id/proof-photo", recordHandler.UploadProofPhoto)
				}
			}
		}
	}

	return router
}
