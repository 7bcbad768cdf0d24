package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBDriver string // postgres, mysql or sqlite
	DBDsn    string
	JWTKey   string

	ScormCoursesPath string // root directory holding the SCORM packages
	ScormRescanCron  string // cron spec for the package rescan job
	ScormAPIBaseURL  string // base URL for the remote progress flusher (optional)

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:     getEnv("PORT", "3000"),
		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDsn:    getEnv("DB_DSN", "sliz.db"),
		JWTKey:   getEnv("JWT_SECRET_KEY", "defaultSecret"),

		ScormCoursesPath: getEnv("SCORM_COURSES_PATH", "./public/scorm-courses"),
		ScormRescanCron:  getEnv("SCORM_RESCAN_CRON", "@hourly"),
		ScormAPIBaseURL:  getEnv("SCORM_API_BASE_URL", ""),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver == "sqlite" && AppConfig.DBDsn == "sliz.db" {
		log.Println("Warning: Using default sqlite database. Update DB_DRIVER/DB_DSN in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
