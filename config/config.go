// server/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	S3     S3Config     `mapstructure:"s3"`
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
// Thiếu trường bắt buộc (mongo.uri, mongo.dbName, jwt.secret) sẽ trả về lỗi
// ngay tại đây để server dừng khởi động thay vì chết giữa chừng.
func LoadConfig(path string) (config Config, err error) {
	// Thiết lập đường dẫn và tên file config
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Bật tính năng tự động đọc biến môi trường
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowedOrigins", []string{"*"})
	viper.SetDefault("jwt.expiration", "24h")

	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	// Đọc file config.yaml
	// Nếu file không tồn tại, Viper sẽ chỉ sử dụng các biến môi trường.
	err = viper.ReadInConfig()
	if err != nil {
		// Chỉ trả về lỗi nếu đó không phải là lỗi "không tìm thấy file"
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	// Unmarshal toàn bộ cấu hình đã được kết hợp (từ file và env) vào struct Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate kiểm tra các trường cấu hình bắt buộc.
func (c Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing required config: mongo.uri (MONGO_URI)")
	}
	if c.Mongo.DBName == "" {
		return fmt.Errorf("missing required config: mongo.dbName (MONGO_DBNAME)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("missing required config: jwt.secret (JWT_SECRET)")
	}
	return nil
}
