package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort        string `yaml:"APP_PORT"`
	AllowedOrigins string `yaml:"ALLOWED_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Document parser (agentic document extraction API)
	DocParseAPIURL string `yaml:"DOCPARSE_API_URL"`
	DocParseAPIKey string `yaml:"DOCPARSE_API_KEY"`

	// Anthropic Claude (primary structuring/classification model)
	AnthropicAPIKey string `yaml:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `yaml:"CLAUDE_MODEL"`

	// Azure OpenAI (correction model)
	AzureOpenAIEndpoint string `yaml:"AZURE_OPENAI_ENDPOINT"`
	AzureDeploymentName string `yaml:"AZURE_DEPLOYMENT_NAME"`
	AzureOpenAIAPIKey   string `yaml:"AZURE_OPENAI_API_KEY"`

	// OpenAI (fallback classification + embeddings)
	OpenAIAPIKey string `yaml:"OPENAI_API_KEY"`
	OpenAIModel  string `yaml:"OPENAI_MODEL"`

	// Embeddings
	EmbeddingModel      string `yaml:"EMBEDDING_MODEL"`
	EmbeddingDimensions string `yaml:"EMBEDDING_DIMENSIONS"`

	// Search
	SimilarityThreshold string `yaml:"SIMILARITY_THRESHOLD"`
	MaxSearchResults    string `yaml:"MAX_SEARCH_RESULTS"`

	// AWS S3 configuration (export artifacts)
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Set environment variables for keys that should be accessible via os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("ANTHROPIC_API_KEY", config.AnthropicAPIKey)
	os.Setenv("AZURE_OPENAI_API_KEY", config.AzureOpenAIAPIKey)
	os.Setenv("OPENAI_API_KEY", config.OpenAIAPIKey)
	os.Setenv("DOCPARSE_API_KEY", config.DocParseAPIKey)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		if config.AppPort == "" {
			return "8001"
		}
		return config.AppPort
	case "ALLOWED_ORIGINS":
		if config.AllowedOrigins == "" {
			return "http://localhost:3000,http://127.0.0.1:3000"
		}
		return config.AllowedOrigins
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "DOCPARSE_API_URL":
		return config.DocParseAPIURL
	case "DOCPARSE_API_KEY":
		return config.DocParseAPIKey
	case "ANTHROPIC_API_KEY":
		return config.AnthropicAPIKey
	case "CLAUDE_MODEL":
		if config.ClaudeModel == "" {
			return "claude-3-7-sonnet-latest"
		}
		return config.ClaudeModel
	case "AZURE_OPENAI_ENDPOINT":
		return config.AzureOpenAIEndpoint
	case "AZURE_DEPLOYMENT_NAME":
		return config.AzureDeploymentName
	case "AZURE_OPENAI_API_KEY":
		return config.AzureOpenAIAPIKey
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_MODEL":
		if config.OpenAIModel == "" {
			return "gpt-4-turbo-preview"
		}
		return config.OpenAIModel
	case "EMBEDDING_MODEL":
		if config.EmbeddingModel == "" {
			return "text-embedding-3-small"
		}
		return config.EmbeddingModel
	case "EMBEDDING_DIMENSIONS":
		if config.EmbeddingDimensions == "" {
			return "1536"
		}
		return config.EmbeddingDimensions
	case "SIMILARITY_THRESHOLD":
		if config.SimilarityThreshold == "" {
			return "0.7"
		}
		return config.SimilarityThreshold
	case "MAX_SEARCH_RESULTS":
		if config.MaxSearchResults == "" {
			return "10"
		}
		return config.MaxSearchResults
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

func GetConfigInt(key string) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		log.Printf("Error parsing config %s as int: %s\n", key, err)
		return 0
	}
	return v
}

func GetConfigFloat(key string) float64 {
	v, err := strconv.ParseFloat(GetConfig(key), 64)
	if err != nil {
		log.Printf("Error parsing config %s as float: %s\n", key, err)
		return 0
	}
	return v
}
