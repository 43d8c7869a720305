// server/internal/api/handlers/record_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"food-aid-distribution-api-server/internal/models"
	"food-aid-distribution-api-server/internal/s3"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordHandler struct {
	DB         *mongo.Database
	Hub        *socket.Hub
	S3Uploader *s3.Uploader
}

type CreateRecordRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	FoodItem    string `json:"foodItem" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Location    string `json:"location" binding:"required"`
}

// GetMyRecords lấy các bản ghi phân phối của chính người đang đăng nhập.
// Filter recipientId luôn được server áp từ claims của token, client không
// truyền vào được - citizen không bao giờ thấy bản ghi của người khác.
func (h *RecordHandler) GetMyRecords(c *gin.Context) {
	recipientID := c.GetString("user_id")

	filter := bson.M{"recipientId": recipientID}
	status := c.Query("status")
	if status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("distribution_records")
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := collection.Find(context.Background(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query distribution records"})
		return
	}
	defer cursor.Close(context.Background())

	var records []models.DistributionRecord
	if err = cursor.All(context.Background(), &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode distribution records"})
		return
	}

	if records == nil {
		records = []models.DistributionRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// GetAllRecords lấy toàn bộ bản ghi phân phối (chỉ manager), có thể lọc theo trạng thái.
func (h *RecordHandler) GetAllRecords(c *gin.Context) {
	filter := bson.M{}
	status := c.Query("status")
	if status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("distribution_records")
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := collection.Find(context.Background(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query distribution records"})
		return
	}
	defer cursor.Close(context.Background())

	var records []models.DistributionRecord
	if err = cursor.All(context.Background(), &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode distribution records"})
		return
	}

	if records == nil {
		records = []models.DistributionRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// CreateRecord tạo trực tiếp một bản ghi phân phối (phát hàng tại chỗ,
// không qua yêu cầu trực tuyến).
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := models.DistributionRecord{
		RecordID:    fmt.Sprintf("REC-%s", uuid.New().String()[:8]),
		RecipientID: req.RecipientID,
		FoodItem:    req.FoodItem,
		Quantity:    req.Quantity,
		Location:    req.Location,
		Status:      models.RecordStatusPending,
		Timestamp:   time.Now(),
	}

	collection := h.DB.Collection("distribution_records")
	result, err := collection.InsertOne(context.Background(), record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create distribution record"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}

	h.Hub.NotifyUser(record.RecipientID, "record_created", record)

	c.JSON(http.StatusCreated, record)
}

// CompleteRecord đánh dấu một bản ghi Pending là đã trao xong (Completed).
func (h *RecordHandler) CompleteRecord(c *gin.Context) {
	recordID := c.Param("id")

	collection := h.DB.Collection("distribution_records")

	now := time.Now()
	filter := bson.M{"recordID": recordID, "status": models.RecordStatusPending}
	update := bson.M{"$set": bson.M{
		"status":      models.RecordStatusCompleted,
		"completedAt": now,
	}}

	result, err := collection.UpdateOne(context.Background(), filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete distribution record"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Record is not in Pending status or does not exist"})
		return
	}

	// Lấy lại bản ghi để biết người nhận và thông báo cho họ
	var record models.DistributionRecord
	if err := collection.FindOne(context.Background(), bson.M{"recordID": recordID}).Decode(&record); err == nil {
		h.Hub.NotifyUser(record.RecipientID, "record_completed", record)
	}
	h.Hub.NotifyEvent("record_completed", gin.H{"recordID": recordID})

	c.JSON(http.StatusOK, gin.H{"status": "success", "recordID": recordID, "newStatus": models.RecordStatusCompleted})
}

// UploadProofPhoto nhận ảnh minh chứng trao hàng, đẩy lên S3 và gắn vào bản ghi.
func (h *RecordHandler) UploadProofPhoto(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	recordID := c.Param("id")

	collection := h.DB.Collection("distribution_records")
	count, err := collection.CountDocuments(context.Background(), bson.M{"recordID": recordID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for record"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Distribution record not found"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("proof-photos/%s/%s-%s", recordID, uuid.New().String()[:8], fileHeader.Filename)
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	photo := models.MediaPointer{
		ID:       uuid.New().String(),
		URL:      url,
		FileName: fileHeader.Filename,
		FileType: contentType,
	}

	_, err = collection.UpdateOne(
		context.Background(),
		bson.M{"recordID": recordID},
		bson.M{"$set": bson.M{"proofPhoto": photo}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach photo to record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "recordID": recordID, "photo": photo})
}
