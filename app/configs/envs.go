package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv         string
	Port           string
	AppURL         string
	DBDriver       string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBLogLevel     string
	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string
	UploadDir      string
	MaxUploadMB    int64
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	return ENV{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("APP_PORT", ":3001"),
		AppURL:         getEnv("APP_URL", "http://localhost:3001"),
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getDuration("JWT_TTL", 2*time.Hour),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:    getInt("MAX_UPLOAD_MB", 10),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("LoadEnv: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("LoadEnv: invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
