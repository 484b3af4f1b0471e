package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr        string
	GinMode        string
	DBDSN          string
	JWTSecret      string
	JWTTTL         time.Duration
	RedisURL       string
	AllowedOrigins []string
}

const defaultDSN = "root:@tcp(127.0.0.1:3306)/rideshare?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

// LoadEnv reads process env (and an optional .env file) into Env.
func LoadEnv() Env {
	if err := godotenv.Load(); err == nil {
		log.Println("[CONFIG] loaded .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("DB_DSN", defaultDSN)
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	return envFrom(v)
}

func envFrom(v *viper.Viper) Env {
	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	origins := []string{}
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:        strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:        strings.TrimSpace(v.GetString("GIN_MODE")),
		DBDSN:          withParseTime(strings.TrimSpace(v.GetString("DB_DSN"))),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         ttl,
		RedisURL:       strings.TrimSpace(v.GetString("REDIS_URL")),
		AllowedOrigins: origins,
	}
}

// withParseTime makes sure DATETIME columns scan into time.Time.
func withParseTime(dsn string) string {
	if dsn == "" || strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}
