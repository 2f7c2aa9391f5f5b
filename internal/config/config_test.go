package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/hifcm/v1", cfg.FCM.Namespace)
	assert.Equal(t, []string{"all"}, cfg.FCM.DefaultTerms)
	assert.Equal(t, 5*time.Minute, cfg.FCM.TermsTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FCM_NAMESPACE", "/push/v2/")
	t.Setenv("FCM_DEFAULT_TERMS", "news, offers,,")
	t.Setenv("FCM_TERMS_TTL", "30s")
	t.Setenv("JWT_EXPIRY", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "/push/v2", cfg.FCM.Namespace)
	assert.Equal(t, []string{"news", "offers"}, cfg.FCM.DefaultTerms)
	assert.Equal(t, 30*time.Second, cfg.FCM.TermsTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
}

func TestDBConfig_URL(t *testing.T) {
	d := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.URL())
	assert.Contains(t, d.DSN(), "dbname=n")
}
