package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTSecret      string
	JWTExpiryHours int

	AlertTopicARN string // SNS topic for guardrail/ops alerts; empty disables alerting

	SeedAdminEmail    string
	SeedAdminPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Animals       string
	Families      string
	Guardrails    string
	Conversations string
	Media         string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	env := getEnv("APP_ENV", "dev")
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  env,

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "quest-"+env+"-users"),
			Animals:       getEnv("DYNAMO_TABLE_ANIMALS", "quest-"+env+"-animals"),
			Families:      getEnv("DYNAMO_TABLE_FAMILIES", "quest-"+env+"-families"),
			Guardrails:    getEnv("DYNAMO_TABLE_GUARDRAILS", "quest-"+env+"-guardrails"),
			Conversations: getEnv("DYNAMO_TABLE_CONVERSATIONS", "quest-"+env+"-conversations"),
			Media:         getEnv("DYNAMO_TABLE_MEDIA", "quest-"+env+"-media"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "quest-"+env+"-media"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

		AlertTopicARN: getEnv("ALERT_TOPIC_ARN", ""),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
