// server/internal/models/distribution_record.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một bản ghi phân phối.
const (
	RecordStatusPending   = "Pending"
	RecordStatusCompleted = "Completed"
)

// DistributionRecord ghi lại một lần trao hàng cứu trợ cho người nhận.
// Citizen chỉ được đọc các bản ghi có recipientId trùng với userID của chính mình.
type DistributionRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecordID    string             `bson:"recordID" json:"recordID"` // e.g., "REC-1a2b3c4d"
	RecipientID string             `bson:"recipientId" json:"recipientId"`
	FoodItem    string             `bson:"foodItem" json:"foodItem"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Location    string             `bson:"location" json:"location"` // e.g., "Kho trung tâm", "Warehouse B"
	Status      string             `bson:"status" json:"status"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ProofPhoto  *MediaPointer      `bson:"proofPhoto,omitempty" json:"proofPhoto,omitempty"` // Ảnh minh chứng trao hàng (tham chiếu S3)
}
