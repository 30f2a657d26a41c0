package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
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
	OpenRouter string
	Gemini     string
	Jina       string
	TurnTopic  string // in-process bus topic for turn events
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "gemini" or "jina"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "openrouter" or "auto"
	LLMModel          string // e.g. "llama3", "mistralai/mistral-7b-instruct"
	OpenRouterBaseURL string
	SynonymTablePath  string // optional JSON overriding the builtin table
}

// PipelineConfig tunes the turn pipeline. Phrasings=1 turns the
// multi-phrasing search pass into a plain single search.
type PipelineConfig struct {
	Phrasings      int // alternative query phrasings per search turn
	TopK           int // hits requested per phrasing search
	CandidateLimit int // fused candidates handed to the reranker
	MaxResults     int // final selection cap
	ContextTurns   int // conversation turns kept per session
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenRouter: getEnv("OPENROUTER_API_KEY", ""),
			Gemini:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:       getEnv("JINA_API_KEY", ""),
			TurnTopic:  getEnv("TURN_COMPLETED_TOPIC_NAME", "TURN_COMPLETED"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "auto"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			SynonymTablePath:  getEnv("SYNONYM_TABLE_PATH", ""),
		},
		Pipeline: PipelineConfig{
			Phrasings:      getEnvAsInt("PIPELINE_PHRASINGS", 4),
			TopK:           getEnvAsInt("PIPELINE_TOP_K", 30),
			CandidateLimit: getEnvAsInt("PIPELINE_CANDIDATE_LIMIT", 20),
			MaxResults:     getEnvAsInt("PIPELINE_MAX_RESULTS", 5),
			ContextTurns:   getEnvAsInt("CONTEXT_MAX_TURNS", 6),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
