package models

// Các vai trò trong hệ thống. UserID được sinh theo quy ước tiền tố
// "manager-"/"citizen-" cho dễ đọc, nhưng phân quyền luôn dựa trên claim
// "role" trong JWT, không dựa trên tiền tố chuỗi.
const (
	RoleManager = "manager"
	RoleCitizen = "citizen"
)

// User struct matches the document in MongoDB
type User struct {
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`
	Status   string `bson:"status" json:"status"` // e.g., "active", "guest"
	UserID   string `bson:"userID" json:"userID"` // e.g., "manager-1a2b3c4d", "citizen-9f8e7d6c"
}
