package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	}
	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET belum diset!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvInt: nilai kosong/tidak valid jatuh ke default
func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

// =======================
// SERVER CONFIG
// =======================
type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	StorageDriver  string // supabase | oss | none
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	OSSEndpoint    string
	OSSAccessKey   string
	OSSSecretKey   string
	OSSBucket      string
	OSSPublicBase  string
	UploadPrefix   string

	ReaperCron    string
	RetentionDays int

	CORSOrigins []string
	MaxUploadMB int
}

// Load membaca setting server dari ENV. Panggil LoadEnv dulu kalau mau pakai .env.
func Load() Config {
	cfg := Config{
		Port: GetEnv("PORT", "8080"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		JWTSecret:        GetEnv("JWT_SECRET"),
		JWTRefreshSecret: GetEnv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   GetEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		StorageDriver:  strings.ToLower(GetEnv("STORAGE_DRIVER", "none")),
		SupabaseURL:    strings.TrimRight(GetEnv("SUPABASE_PROJECT_URL"), "/"),
		SupabaseKey:    GetEnv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket: GetEnv("SUPABASE_BUCKET", "image"),
		OSSEndpoint:    GetEnv("ALI_OSS_ENDPOINT"),
		OSSAccessKey:   GetEnv("ALI_OSS_ACCESS_KEY"),
		OSSSecretKey:   GetEnv("ALI_OSS_SECRET_KEY"),
		OSSBucket:      GetEnv("ALI_OSS_BUCKET"),
		OSSPublicBase:  GetEnv("ALI_OSS_PUBLIC_BASE"),
		UploadPrefix:   strings.Trim(GetEnv("UPLOAD_PREFIX", "schoolku"), "/"),

		ReaperCron:    GetEnv("REAPER_CRON", "15 2 * * *"),
		RetentionDays: GetEnvInt("RETENTION_DAYS", 30),

		MaxUploadMB: GetEnvInt("MAX_UPLOAD_MB", 5),
	}
	// refresh secret opsional, fallback ke JWT_SECRET
	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret
	}
	for _, o := range strings.Split(GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

// ✅ Gunakan URL/DSN lengkap + statement_timeout
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName +
		"?sslmode=" + c.DBSSLMode + "&application_name=schoolku&options=-c%20statement_timeout%3D3000"
}
