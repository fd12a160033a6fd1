package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type S3Config struct {
	Region          string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint switches the client to a custom S3-compatible store
	// (MinIO, R2) with path-style addressing. Empty means AWS.
	Endpoint string
	// CDNBaseURL, when set, is used instead of the bucket endpoint when
	// building the storage-facing URL for a key.
	CDNBaseURL string
}

type AppConfig struct {
	// PublicBaseURL is the front-facing address short links are built
	// from, e.g. https://img.example.com.
	PublicBaseURL string
	MaxUploadSize int64
	MaxDimension  int
	AllowedTypes  []string
	CORSOrigins   []string
	TemplatesDir  string
}

func Load() (*Config, error) {
	// Local development convenience; real environment wins over .env.
	_ = godotenv.Load()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET_NAME", "images")
	viper.SetDefault("S3_ACCESS_KEY_ID", "")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("CDN_BASE_URL", "")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10 MiB
	viper.SetDefault("APP_MAX_DIMENSION", 1920)
	viper.SetDefault("APP_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("APP_TEMPLATES_DIR", "web/templates")

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		S3: S3Config{
			Region:          viper.GetString("S3_REGION"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			CDNBaseURL:      viper.GetString("CDN_BASE_URL"),
		},
		App: AppConfig{
			PublicBaseURL: viper.GetString("PUBLIC_BASE_URL"),
			MaxUploadSize: viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			MaxDimension:  viper.GetInt("APP_MAX_DIMENSION"),
			AllowedTypes:  viper.GetStringSlice("APP_ALLOWED_TYPES"),
			CORSOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			TemplatesDir:  viper.GetString("APP_TEMPLATES_DIR"),
		},
	}

	return cfg, nil
}
