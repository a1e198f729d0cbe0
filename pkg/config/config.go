package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	KafkaBrokers []string

	ESURL         string
	ESUser        string
	ESPassword    string
	ESReviewIndex string

	OAuthTokenURI    string
	OAuthProfileURI  string
	OAuthClientID    string
	OAuthGrantType   string
	OAuthRedirectURI string
	OAuthTimeout     time.Duration

	RewardRate     string
	RewardRounding string
}

// LoadDotEnv reads path into the process environment. A missing file is not an error.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "nanum"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESReviewIndex: EnvDefault("ES_REVIEW_INDEX", "reviews"),

		OAuthTokenURI:    os.Getenv("OAUTH_TOKEN_URI"),
		OAuthProfileURI:  os.Getenv("OAUTH_PROFILE_URI"),
		OAuthClientID:    os.Getenv("OAUTH_CLIENT_ID"),
		OAuthGrantType:   EnvDefault("OAUTH_GRANT_TYPE", "authorization_code"),
		OAuthRedirectURI: os.Getenv("OAUTH_REDIRECT_URI"),
		OAuthTimeout:     EnvDurationDefault("OAUTH_TIMEOUT", 5*time.Second),

		RewardRate:     EnvDefault("REWARD_RATE", "0.05"),
		RewardRounding: EnvDefault("REWARD_ROUNDING", "floor"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
