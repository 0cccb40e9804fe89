package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	JWTAccessExpiry     time.Duration
	FirebaseCredentials string
	GoogleCredentials   string
	GoogleProjectID     string
	PubSubTopic         string
	DispatchInterval    time.Duration
	SettlingDelay       time.Duration
	SnoozeInterval      time.Duration
	ResyncCron          string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=famtask password=famtask dbname=famtask port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		PubSubTopic:         getEnv("PUBSUB_TOPIC", "famtask-device-events"),
		DispatchInterval:    getDuration("DISPATCH_INTERVAL", 30*time.Second),
		SettlingDelay:       getDuration("SETTLING_DELAY", 30*time.Second),
		SnoozeInterval:      getDuration("SNOOZE_INTERVAL", 10*time.Minute),
		ResyncCron:          getEnv("RESYNC_CRON", "0 0 3 * * *"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
