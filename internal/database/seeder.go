// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"food-aid-distribution-api-server/internal/auth"
	"food-aid-distribution-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedManager tạo tài khoản manager mặc định nếu chưa có manager nào.
func SeedManager(db *mongo.Database) error {
	userCollection := db.Collection("users")
	managerEmail := "manager@example.com"

	// Kiểm tra xem manager đã tồn tại chưa
	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": managerEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Default manager already exists. Seeding skipped.")
		return nil
	}

	// Tạo manager nếu chưa có
	log.Println("Default manager not found. Seeding...")
	hashedPassword, err := auth.HashPassword("managerpassword") // Đặt một password mặc định
	if err != nil {
		return err
	}

	manager := models.User{
		Email:    managerEmail,
		Name:     "Warehouse Manager",
		Password: hashedPassword,
		Role:     models.RoleManager,
		Status:   "active",
		UserID:   "manager-default",
	}

	_, err = userCollection.InsertOne(context.Background(), manager)
	if err != nil {
		return err
	}

	log.Println("Default manager seeded successfully.")
	return nil
}

// SeedInventory chèn bộ hàng khởi điểm khi collection inventory đang rỗng.
// Đây là hành vi tiện lợi cho demo/triển khai mới, không chạy lại khi đã có dữ liệu.
func SeedInventory(db *mongo.Database) error {
	collection := db.Collection("inventory")

	count, err := collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Inventory is not empty. Seeding skipped.")
		return nil
	}

	log.Println("Inventory is empty. Seeding starter items...")
	now := time.Now()
	starterItems := []interface{}{
		models.InventoryItem{Item: "Rice", Quantity: 500, Unit: "kg", Expiration: now.AddDate(1, 0, 0).Format("2006-01-02"), LastUpdated: now},
		models.InventoryItem{Item: "Dry Pasta", Quantity: 300, Unit: "kg", Expiration: now.AddDate(0, 6, 0).Format("2006-01-02"), LastUpdated: now},
		models.InventoryItem{Item: "Canned Beans", Quantity: 800, Unit: "cans", Expiration: now.AddDate(2, 0, 0).Format("2006-01-02"), LastUpdated: now},
		models.InventoryItem{Item: "Cooking Oil", Quantity: 150, Unit: "liters", Expiration: now.AddDate(0, 9, 0).Format("2006-01-02"), LastUpdated: now},
		models.InventoryItem{Item: "Flour", Quantity: 400, Unit: "kg", Expiration: now.AddDate(0, 4, 0).Format("2006-01-02"), LastUpdated: now},
	}

	_, err = collection.InsertMany(context.Background(), starterItems)
	if err != nil {
		return err
	}

	log.Printf("Seeded %d starter inventory items.", len(starterItems))
	return nil
}
