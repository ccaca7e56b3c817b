package services

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Storage   StorageConfig
	Exam      ExamConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqBaseURL  string
	GroqModel    string
}

type JWTConfig struct {
	Secret string
}

type WebSocketConfig struct {
	AllowedOrigins string
}

type StorageConfig struct {
	UploadDir string
}

type ExamConfig struct {
	Workers          int
	QuestionsPerExam int
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("websocket.allowed_origins", "")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("groq.api_key", "")
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.model", "gemma2-9b-it")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "true")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("storage.upload_dir", "./uploads")
	viper.SetDefault("exam.workers", "2")
	viper.SetDefault("exam.questions_per_exam", "10")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("websocket.allowed_origins", "WEBSOCKET_ALLOWED_ORIGINS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("groq.base_url", "GROQ_BASE_URL")
	viper.BindEnv("groq.model", "GROQ_MODEL")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("storage.upload_dir", "STORAGE_UPLOAD_DIR")
	viper.BindEnv("exam.workers", "EXAM_WORKERS")
	viper.BindEnv("exam.questions_per_exam", "EXAM_QUESTIONS_PER_EXAM")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			GeminiAPIKey: viper.GetString("gemini.api_key"),
			GeminiModel:  viper.GetString("gemini.model"),
			GroqAPIKey:   viper.GetString("groq.api_key"),
			GroqBaseURL:  viper.GetString("groq.base_url"),
			GroqModel:    viper.GetString("groq.model"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: viper.GetString("websocket.allowed_origins"),
		},
		Storage: StorageConfig{
			UploadDir: viper.GetString("storage.upload_dir"),
		},
		Exam: ExamConfig{
			Workers:          viper.GetInt("exam.workers"),
			QuestionsPerExam: viper.GetInt("exam.questions_per_exam"),
		},
	}
}
