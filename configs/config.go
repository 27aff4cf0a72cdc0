package config

import "os"

type S3 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Sheets struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	SpreadsheetID string
	Range         string
}

type Config struct {
	PostgresURI     string
	RedisURI        string
	GraphAPIBaseURL string
	N8NBaseURL      string
	FrontendURL     string
	S3              S3
	Sheets          Sheets
	SecretKey       string
	CookieName      string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		RedisURI:        getEnv("REDIS_URI", "127.0.0.1:6379"),
		GraphAPIBaseURL: getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v18.0"),
		N8NBaseURL:      getEnv("N8N_BASE_URL", "http://127.0.0.1:5678"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		S3: S3{
			AccountID:  getEnv("S3_ACCOUNT_ID", ""),
			AccessKey:  getEnv("S3_ACCESS_KEY", ""),
			SecretKey:  getEnv("S3_SECRET_KEY", ""),
			BucketName: getEnv("S3_BUCKET_NAME", ""),
			PublicURL:  getEnv("S3_PUBLIC_URL", ""),
		},
		Sheets: Sheets{
			ClientID:      getEnv("SHEETS_CLIENT_ID", ""),
			ClientSecret:  getEnv("SHEETS_CLIENT_SECRET", ""),
			RefreshToken:  getEnv("SHEETS_REFRESH_TOKEN", ""),
			SpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
			Range:         getEnv("SHEETS_RANGE", "Inventario!A2"),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "autosell_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
