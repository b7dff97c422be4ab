package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_URL", "DB_HOST", "DB_SCHEMA", "REDIS_ADDR", "KAFKA_BROKERS", "JAEGER_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "shop", cfg.Database.Schema)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 60*time.Second, cfg.Redis.NoticeTTL)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "order-events", cfg.Kafka.TopicOrder)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "8888")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("NOTICE_TTL_SECONDS", "5")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "8888", cfg.Database.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Redis.NoticeTTL)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "parts without password",
			cfg:  DatabaseConfig{Host: "localhost", Port: "8888", User: "shop", Name: "shop", SSLMode: "disable", Schema: "shop"},
			want: "postgres://shop@localhost:8888/shop?search_path=shop&sslmode=disable",
		},
		{
			name: "parts with password",
			cfg:  DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "s3cret", Name: "app", SSLMode: "require"},
			want: "postgres://app:s3cret@db:5432/app?sslmode=require",
		},
		{
			name: "url gets schema appended",
			cfg:  DatabaseConfig{URL: "postgres://app@db/app?sslmode=disable", Schema: "shop"},
			want: "postgres://app@db/app?sslmode=disable&search_path=shop",
		},
		{
			name: "url keeps explicit search_path",
			cfg:  DatabaseConfig{URL: "postgres://app@db/app?search_path=other", Schema: "shop"},
			want: "postgres://app@db/app?search_path=other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
