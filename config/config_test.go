package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredFields(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.uri")

	cfg.Mongo.URI = "mongodb://localhost:27017"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.dbName")

	cfg.Mongo.DBName = "foodaid"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")

	cfg.JWT.Secret = "a-secret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DBNAME", "foodaid")
	t.Setenv("JWT_SECRET", "a-secret")
	t.Setenv("SERVER_PORT", "9090")

	// Thư mục rỗng: không có config.yaml, chỉ dùng biến môi trường
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "foodaid", cfg.Mongo.DBName)
	assert.Equal(t, "a-secret", cfg.JWT.Secret)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "24h", cfg.JWT.Expiration) // default
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DBNAME", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}
