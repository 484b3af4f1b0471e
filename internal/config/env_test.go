package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestEnvFromDefaults(t *testing.T) {
	v := viper.New()
	v.Set("DB_DSN", "app:secret@tcp(db:3306)/rideshare")
	v.Set("JWT_TTL", "not-a-duration")
	v.Set("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	env := envFrom(v)
	if env.DBDSN != "app:secret@tcp(db:3306)/rideshare?parseTime=true" {
		t.Fatalf("unexpected DSN %q", env.DBDSN)
	}
	if env.JWTTTL != 24*time.Hour {
		t.Fatalf("expected fallback TTL, got %v", env.JWTTTL)
	}
	if len(env.AllowedOrigins) != 2 || env.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", env.AllowedOrigins)
	}
}

func TestWithParseTime(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"u@tcp(h)/db?parseTime=false": "u@tcp(h)/db?parseTime=false",
		"u@tcp(h)/db?loc=UTC":         "u@tcp(h)/db?loc=UTC&parseTime=true",
	}
	for in, want := range cases {
		if got := withParseTime(in); got != want {
			t.Fatalf("withParseTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPingWithoutConnection(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()
	if err := Ping(context.Background()); err == nil {
		t.Fatalf("expected error when DB is not connected")
	}
}
