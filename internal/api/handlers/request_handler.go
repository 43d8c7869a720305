// server/internal/api/handlers/request_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"food-aid-distribution-api-server/internal/models"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

// Các lỗi nghiệp vụ của thao tác Ship, dùng để ánh xạ sang mã HTTP.
var (
	errRequestNotFound      = errors.New("distribution request not found")
	errRequestNotApproved   = errors.New("only approved requests can be shipped")
	errInsufficientStock    = errors.New("insufficient inventory quantity for the requested item")
	errConcurrentTransition = errors.New("request status was changed by another manager")
)

type CreateRequestPayload struct {
	Organization string `json:"organization" binding:"required"`
	Item         string `json:"item" binding:"required"`
	Amount       int    `json:"amount" binding:"required,min=1"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
}

// CreateRequest xử lý form gửi yêu cầu công khai. Không yêu cầu đăng nhập;
// nếu người gửi có phiên (kể cả ẩn danh), yêu cầu được gắn với userID của họ
// để sau này bản ghi phân phối tìm được đúng người nhận.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	newRequest := models.DistributionRequest{
		RequestID:     fmt.Sprintf("REQ-%s", uuid.New().String()[:8]),
		Organization:  payload.Organization,
		Item:          payload.Item,
		Amount:        payload.Amount,
		Status:        models.RequestStatusPending,
		ContactEmail:  payload.ContactEmail,
		RequestedDate: now.Format("2006-01-02"),
		CreatedBy:     c.GetString("user_id"), // Rỗng nếu là khách vãng lai
		CreatedAt:     now,
	}

	collection := h.DB.Collection("requests")
	result, err := collection.InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create distribution request"})
		return
	}

	newRequest.ID = result.InsertedID.(primitive.ObjectID)

	// Báo cho các manager đang online biết có yêu cầu mới
	h.Hub.NotifyEvent("request_created", newRequest)

	c.JSON(http.StatusCreated, newRequest)
}

// GetAllRequests lấy danh sách các yêu cầu phân phối, có thể lọc theo trạng thái.
func (h *RequestHandler) GetAllRequests(c *gin.Context) {
	filter := bson.M{}

	// Ví dụ: /requests?status=Pending
	status := c.Query("status")
	if status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("requests")
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(context.Background(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query distribution requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.DistributionRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode distribution requests"})
		return
	}

	// Đảm bảo trả về một mảng rỗng thay vì null nếu không có kết quả
	if requests == nil {
		requests = []models.DistributionRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequestByID lấy chi tiết một yêu cầu phân phối theo ID.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	requestID := c.Param("id")
	collection := h.DB.Collection("requests")
	var request models.DistributionRequest
	err := collection.FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Distribution request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve distribution request"})
		return
	}
	c.JSON(http.StatusOK, request)
}

// ApproveRequest chuyển trạng thái Pending -> Approved.
// Filter có điều kiện trạng thái: nếu một manager khác vừa xử lý yêu cầu này
// thì không có document nào khớp và thao tác trở thành no-op.
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	requestID := c.Param("id")
	managerID := c.GetString("user_id")

	collection := h.DB.Collection("requests")

	now := time.Now()
	filter := bson.M{"requestID": requestID, "status": models.RequestStatusPending}
	update := bson.M{"$set": bson.M{
		"status":      models.RequestStatusApproved,
		"processedBy": managerID,
		"processedAt": now,
	}}

	result, err := collection.UpdateOne(context.Background(), filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve request"})
		return
	}
	if result.ModifiedCount == 0 {
		// Không có document nào được sửa: request không tồn tại hoặc không còn Pending
		c.JSON(http.StatusConflict, gin.H{"error": "Request is not in Pending status or does not exist"})
		return
	}

	h.Hub.NotifyEvent("request_status_changed", gin.H{"requestID": requestID, "status": models.RequestStatusApproved})

	c.JSON(http.StatusOK, gin.H{"status": "success", "requestID": requestID, "newStatus": models.RequestStatusApproved})
}

// ShipRequest giao hàng cho một yêu cầu đã được duyệt.
//
// Toàn bộ thao tác chạy trong một transaction: trừ kho và đổi trạng thái
// request được commit cùng nhau hoặc không gì cả. Điều kiện đủ hàng nằm ngay
// trong filter của lệnh trừ kho (quantity >= amount), nên hai manager cùng
// ship một mặt hàng sắp hết sẽ không bao giờ đẩy tồn kho xuống âm.
func (h *RequestHandler) ShipRequest(c *gin.Context) {
	requestID := c.Param("id")
	managerID := c.GetString("user_id")

	// Bắt đầu một session mới với MongoDB để thực hiện transaction
	session, err := h.DB.Client().StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start database session"})
		return
	}
	defer session.EndSession(context.Background())

	requestCollection := h.DB.Collection("requests")
	inventoryCollection := h.DB.Collection("inventory")
	recordCollection := h.DB.Collection("distribution_records")

	// Định nghĩa logic transaction
	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		// 1. Đọc yêu cầu bên trong transaction
		var request models.DistributionRequest
		if err := requestCollection.FindOne(sessCtx, bson.M{"requestID": requestID}).Decode(&request); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, errRequestNotFound
			}
			return nil, err
		}
		if request.Status != models.RequestStatusApproved {
			return nil, errRequestNotApproved
		}

		now := time.Now()

		// 2. Trừ kho có điều kiện: chỉ khớp khi còn đủ hàng.
		// ModifiedCount == 0 nghĩa là không đủ hàng -> abort, không ghi gì cả.
		invFilter := bson.M{
			"item":     request.Item,
			"quantity": bson.M{"$gte": request.Amount},
		}
		invUpdate := bson.M{
			"$inc": bson.M{"quantity": -request.Amount},
			"$set": bson.M{"lastUpdated": now},
		}
		invResult, err := inventoryCollection.UpdateOne(sessCtx, invFilter, invUpdate)
		if err != nil {
			return nil, err
		}
		if invResult.ModifiedCount == 0 {
			return nil, errInsufficientStock
		}

		// 3. Đổi trạng thái request, vẫn có điều kiện Approved đề phòng
		// một manager khác vừa reset yêu cầu này.
		reqFilter := bson.M{"requestID": requestID, "status": models.RequestStatusApproved}
		reqUpdate := bson.M{"$set": bson.M{
			"status":      models.RequestStatusShipped,
			"processedBy": managerID,
			"processedAt": now,
		}}
		reqResult, err := requestCollection.UpdateOne(sessCtx, reqFilter, reqUpdate)
		if err != nil {
			return nil, err
		}
		if reqResult.ModifiedCount == 0 {
			return nil, errConcurrentTransition
		}

		// 4. Ghi lại bản ghi phân phối cho người nhận
		recipientID := request.CreatedBy
		if recipientID == "" {
			recipientID = request.Organization
		}
		record := models.DistributionRecord{
			RecordID:    fmt.Sprintf("REC-%s", uuid.New().String()[:8]),
			RecipientID: recipientID,
			FoodItem:    request.Item,
			Quantity:    request.Amount,
			Location:    "Central Warehouse",
			Status:      models.RecordStatusPending,
			Timestamp:   now,
		}
		recordResult, err := recordCollection.InsertOne(sessCtx, record)
		if err != nil {
			return nil, err
		}
		if oid, ok := recordResult.InsertedID.(primitive.ObjectID); ok {
			record.ID = oid
		}

		return record, nil
	}

	// Thực thi transaction
	result, err := session.WithTransaction(context.Background(), callback)
	if err != nil {
		// Nếu có lỗi ở bất kỳ bước nào bên trong callback, transaction sẽ tự động được rollback
		switch {
		case errors.Is(err, errRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, errRequestNotApproved), errors.Is(err, errInsufficientStock), errors.Is(err, errConcurrentTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed", "details": err.Error()})
		}
		return
	}

	record := result.(models.DistributionRecord)

	// Thông báo cho manager và cho người nhận
	h.Hub.NotifyEvent("request_status_changed", gin.H{"requestID": requestID, "status": models.RequestStatusShipped})
	h.Hub.NotifyUser(record.RecipientID, "record_created", record)

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"requestID": requestID,
		"newStatus": models.RequestStatusShipped,
		"record":    record,
	})
}

// ResetRequest đưa một yêu cầu Approved hoặc Shipped về lại Pending.
// Tồn kho đã trừ khi ship không được cộng lại (khớp hành vi của dashboard cũ).
func (h *RequestHandler) ResetRequest(c *gin.Context) {
	requestID := c.Param("id")

	collection := h.DB.Collection("requests")

	filter := bson.M{
		"requestID": requestID,
		"status":    bson.M{"$in": []string{models.RequestStatusApproved, models.RequestStatusShipped}},
	}
	update := bson.M{
		"$set":   bson.M{"status": models.RequestStatusPending},
		"$unset": bson.M{"processedBy": "", "processedAt": ""},
	}

	result, err := collection.UpdateOne(context.Background(), filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset request"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Request is not in a resettable status or does not exist"})
		return
	}

	h.Hub.NotifyEvent("request_status_changed", gin.H{"requestID": requestID, "status": models.RequestStatusPending})

	c.JSON(http.StatusOK, gin.H{"status": "success", "requestID": requestID, "newStatus": models.RequestStatusPending})
}
