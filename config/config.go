package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"smartbite/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens, read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "servesoft_dev_secret_2024"))

// TokenTTL is how long an issued session token stays valid.
var TokenTTL = getDuration("JWT_TTL", 24*time.Hour)

// LoadEnv preloads variables from a .env file when one exists. Values already
// present in the environment win.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.Println("⚠️  Could not load .env:", err)
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", string(JWTSecret)))
	TokenTTL = getDuration("JWT_TTL", TokenTTL)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️  Ignoring invalid %s=%q", key, v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️  Ignoring invalid %s=%q", key, v)
	}
	return fallback
}

// Server holds the settings of the development backend.
type Server struct {
	Port            string
	DatabasePath    string
	CORSOrigins     []string
	LoginRatePerMin int
	Seed            bool
}

// LoadServer reads the backend settings from the environment.
func LoadServer() Server {
	return Server{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "servesoft.db"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		LoginRatePerMin: getInt("LOGIN_RATE_PER_MIN", 20),
		Seed:            getEnv("SEED_DEMO_DATA", "true") == "true",
	}
}

// OpenDB opens the SQLite database at path and migrates every model.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.CartItem{},
		&models.RevokedToken{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func InitDB(path string) {
	var err error
	DB, err = OpenDB(path)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	log.Println("✅ Database connected and migrated successfully")
}
