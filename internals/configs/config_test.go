package configs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gormLogger "gorm.io/gorm/logger"
)

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "ACCESS_TOKEN_TTL", "RETENTION_DAYS", "CORS_ORIGINS", "JWT_REFRESH_SECRET", "REAPER_CRON"} {
		unsetEnv(t, k)
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "none", cfg.StorageDriver)
	assert.Equal(t, "s3cret", cfg.JWTRefreshSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, "15 2 * * *", cfg.ReaperCron)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "OSS")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("MAX_UPLOAD_MB", "nope")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SUPABASE_PROJECT_URL", "https://proj.supabase.co/")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "oss", cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, 5, cfg.MaxUploadMB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "https://proj.supabase.co", cfg.SupabaseURL)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FLAG_ON", "Yes")
	t.Setenv("FLAG_OFF", "0")
	t.Setenv("BAD_DURATION", "soon")

	assert.True(t, GetEnvBool("FLAG_ON", false))
	assert.False(t, GetEnvBool("FLAG_OFF", true))
	assert.True(t, GetEnvBool("FLAG_UNSET_FOR_TEST", true))
	assert.Equal(t, time.Second, GetEnvDuration("BAD_DURATION", time.Second))
	assert.Equal(t, "fallback", GetEnv("ENV_UNSET_FOR_TEST", "fallback"))
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "school", DBSSLMode: "disable"}
	assert.Equal(t,
		"postgres://u:p@db:5432/school?sslmode=disable&application_name=schoolku&options=-c%20statement_timeout%3D3000",
		cfg.DSN())
}

func TestGormLoggerLogModeCopies(t *testing.T) {
	base := &GormLogger{LogLevel: gormLogger.Warn}
	quiet := base.LogMode(gormLogger.Silent)
	assert.Equal(t, gormLogger.Warn, base.LogLevel)
	assert.Equal(t, gormLogger.Silent, quiet.(*GormLogger).LogLevel)
}
