package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini   string
	JwtSecret      string
	EmbedTopicName string // watermill topic for guide embedding
}

type AIConfig struct {
	DetectionModel  string // fast model for the domain gate and image OCR
	GenerationModel string // heavyweight model for guide generation
	TargetDomain    string // the only domain the gate lets through
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:   getEnv("GEMINI_API_KEY", ""),
			JwtSecret:      getEnv("JWT_SECRET", ""),
			EmbedTopicName: getEnv("EMBED_GUIDE_TOPIC_NAME", "EMBED_GUIDE_SOURCE"),
		},
		Ai: AIConfig{
			DetectionModel:  getEnv("DETECTION_MODEL", "gemini-2.5-flash"),
			GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.5-pro"),
			TargetDomain:    getEnv("TARGET_DOMAIN", "dentistry"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
