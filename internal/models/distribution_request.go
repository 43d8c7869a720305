// server/internal/models/distribution_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một yêu cầu phân phối.
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusShipped  = "Shipped"
)

// DistributionRequest là yêu cầu nhận hàng cứu trợ từ một tổ chức cộng đồng.
type DistributionRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID     string             `bson:"requestID" json:"requestID"` // ID tự tạo, dễ đọc, e.g., "REQ-1a2b3c4d"
	Organization  string             `bson:"organization" json:"organization"`
	Item          string             `bson:"item" json:"item"` // Tham chiếu InventoryItem theo tên
	Amount        int                `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"`
	ContactEmail  string             `bson:"contactEmail" json:"contactEmail"`
	RequestedDate string             `bson:"requestedDate" json:"requestedDate"` // "2006-01-02"
	CreatedBy     string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	ProcessedBy   string             `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	ProcessedAt   *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// AllowedTransition kiểm tra một chuyển trạng thái có nằm trong tập cho phép không:
// Pending -> Approved, Approved -> Shipped, Approved -> Pending, Shipped -> Pending.
// Mọi chuyển trạng thái khác đều bị từ chối.
func AllowedTransition(from, to string) bool {
	switch from {
	case RequestStatusPending:
		return to == RequestStatusApproved
	case RequestStatusApproved:
		return to == RequestStatusShipped || to == RequestStatusPending
	case RequestStatusShipped:
		return to == RequestStatusPending
	}
	return false
}
