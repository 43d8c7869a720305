// server/internal/api/handlers/inventory_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"food-aid-distribution-api-server/internal/models"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mức cộng mặc định cho thao tác "nhập thêm hàng" khi không chỉ định số lượng.
const defaultRestockAmount = 10

type InventoryHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

type CreateInventoryItemRequest struct {
	Item       string `json:"item" binding:"required"`
	Quantity   int    `json:"quantity" binding:"min=0"`
	Unit       string `json:"unit" binding:"required"`
	Expiration string `json:"expiration" binding:"required"` // "2006-01-02"
}

type RestockRequest struct {
	Amount int `json:"amount" binding:"omitempty,min=1"`
}

// GetAllInventory lấy danh sách tồn kho, mới cập nhật nhất xếp trước.
func (h *InventoryHandler) GetAllInventory(c *gin.Context) {
	collection := h.DB.Collection("inventory")

	findOptions := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})
	cursor, err := collection.Find(context.Background(), bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query inventory"})
		return
	}
	defer cursor.Close(context.Background())

	var items []models.InventoryItem
	if err = cursor.All(context.Background(), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode inventory"})
		return
	}

	// Đảm bảo trả về một mảng rỗng thay vì null nếu không có kết quả
	if items == nil {
		items = []models.InventoryItem{}
	}

	c.JSON(http.StatusOK, items)
}

// CreateInventoryItem tạo một mặt hàng mới trong kho.
func (h *InventoryHandler) CreateInventoryItem(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("inventory")

	// Kiểm tra xem tên mặt hàng đã tồn tại chưa (duy nhất theo quy ước)
	count, err := collection.CountDocuments(context.Background(), bson.M{"item": req.Item})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for item"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Inventory item with this name already exists"})
		return
	}

	newItem := models.InventoryItem{
		Item:        req.Item,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Expiration:  req.Expiration,
		LastUpdated: time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newItem)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newItem.ID = oid
	}

	h.Hub.NotifyEvent("inventory_updated", newItem)

	c.JSON(http.StatusCreated, newItem)
}

// RestockItem cộng thêm số lượng cho một mặt hàng (mặc định +10).
func (h *InventoryHandler) RestockItem(c *gin.Context) {
	itemName := c.Param("item")

	var req RestockRequest
	// Body rỗng là hợp lệ: dùng mức cộng mặc định.
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount := req.Amount
	if amount <= 0 {
		amount = defaultRestockAmount
	}

	collection := h.DB.Collection("inventory")

	update := bson.M{
		"$inc": bson.M{"quantity": amount},
		"$set": bson.M{"lastUpdated": time.Now()},
	}
	result, err := collection.UpdateOne(context.Background(), bson.M{"item": itemName}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock item"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	h.Hub.NotifyEvent("inventory_updated", gin.H{"item": itemName, "restocked": amount})

	c.JSON(http.StatusOK, gin.H{"status": "success", "item": itemName, "restocked": amount})
}
