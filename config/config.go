package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string         `mapstructure:"port"`
	UploadDir      string         `mapstructure:"upload_dir"`
	ChatProvider   string         `mapstructure:"chat_provider"`
	AIEndpoint     string         `mapstructure:"ai_endpoint"`
	ChatModel      string         `mapstructure:"chat_model"`
	EmbedModel     string         `mapstructure:"embed_model"`
	EmbedBatchSize int            `mapstructure:"embed_batch_size"`
	OpenAIAPIKey   string         `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string       `mapstructure:"gemini_api_keys"`
	Pinecone       PineconeConfig `mapstructure:"pinecone"`
	Chunking       ChunkingConfig `mapstructure:"chunking"`
}

type PineconeConfig struct {
	APIKey           string `mapstructure:"api_key"`
	IndexName        string `mapstructure:"index_name"`
	DefaultNamespace string `mapstructure:"default_namespace"`
	Dimension        int32  `mapstructure:"dimension"`
}

type ChunkingConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	Overlap   int `mapstructure:"overlap"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	// The two remote credentials always come from the environment.
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("pinecone.api_key", "PINECONE_API_KEY")

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("chat_provider", "openai")
	v.SetDefault("chat_model", "gpt-4o")
	v.SetDefault("embed_model", "text-embedding-ada-002")
	v.SetDefault("embed_batch_size", 64)
	v.SetDefault("pinecone.index_name", "n8n")
	v.SetDefault("pinecone.default_namespace", "n8n")
	v.SetDefault("pinecone.dimension", 1536)
	v.SetDefault("chunking.chunk_size", 1000)
	v.SetDefault("chunking.overlap", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
