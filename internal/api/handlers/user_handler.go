// server/internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"food-aid-distribution-api-server/internal/auth"
	"food-aid-distribution-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserHandler struct {
	DB *mongo.Database
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=manager citizen"`
}

// Login xác thực email/password và phát hành JWT cho phiên làm việc.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCollection := h.DB.Collection("users")
	var user models.User
	err := userCollection.FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		// Không phân biệt "không tồn tại" và "sai mật khẩu" để tránh dò email.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.Name, user.Role, user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
		"userID": user.UserID,
		"role":   user.Role,
		"name":   user.Name,
	})
}

// AnonymousLogin tạo một danh tính citizen ẩn danh và phát hành JWT.
// Đây là đường dự phòng cho người dùng chưa có tài khoản: họ vẫn nhận được
// một userID ổn định để theo dõi các bản ghi phân phối của mình.
func (h *UserHandler) AnonymousLogin(c *gin.Context) {
	userID := fmt.Sprintf("%s-%s", models.RoleCitizen, uuid.New().String()[:8])

	guest := models.User{
		Name:   "Guest",
		Role:   models.RoleCitizen,
		Status: "guest",
		UserID: userID,
	}

	userCollection := h.DB.Collection("users")
	if _, err := userCollection.InsertOne(context.Background(), guest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create anonymous identity"})
		return
	}

	token, err := auth.GenerateJWT("", guest.Name, guest.Role, guest.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"token":  token,
		"userID": userID,
		"role":   guest.Role,
	})
}

// CreateUser tạo một tài khoản mới (manager hoặc citizen). Chỉ manager được gọi.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCollection := h.DB.Collection("users")

	// Kiểm tra xem email đã tồn tại chưa
	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Tạo UserID duy nhất theo quy ước tiền tố vai trò
	userID := fmt.Sprintf("%s-%s", req.Role, uuid.New().String()[:8])

	newUser := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     req.Role,
		Status:   "active",
		UserID:   userID,
	}

	if _, err := userCollection.InsertOne(context.Background(), newUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"userID": userID,
		"email":  req.Email,
		"role":   req.Role,
	})
}
