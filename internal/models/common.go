// server/internal/models/common.go
package models

// MediaPointer đại diện cho một tài liệu media được lưu trữ trên S3 hoặc dịch vụ tương tự.
type MediaPointer struct {
	ID       string `bson:"id" json:"id"`             // ID duy nhất trong hệ thống
	URL      string `bson:"url" json:"url"`           // URL truy cập tài liệu
	FileName string `bson:"fileName" json:"fileName"` // Tên file gốc
	FileType string `bson:"fileType" json:"fileType"` // Loại file, ví dụ: "image/jpeg"
}
