// server/internal/models/inventory_item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem là một mặt hàng trong kho cứu trợ.
// Trường "item" là duy nhất theo quy ước (tên mặt hàng, không phải ObjectID).
type InventoryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Item        string             `bson:"item" json:"item"`               // e.g., "Rice", "Dry Pasta"
	Quantity    int                `bson:"quantity" json:"quantity"`       // Luôn >= 0, được bảo vệ bởi conditional update
	Unit        string             `bson:"unit" json:"unit"`               // e.g., "kg", "boxes", "cans"
	Expiration  string             `bson:"expiration" json:"expiration"`   // Ngày hết hạn, định dạng "2006-01-02"
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}
