package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the safepulse service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port string

	// Classifier configuration
	ClassifierProvider string
	OpenAIAPIKey       string
	OpenAIModel        string
	ClassifierTimeout  time.Duration

	// Twilio configuration, missing credentials switch SMS to simulation
	TwilioAccountSid  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	SmsTimeout        time.Duration

	// SendGrid configuration
	SendGridAPIKey    string
	SendGridFromName  string
	SendGridFromEmail string

	// AMQP configuration, empty URL disables event publishing
	AmqpURL      string
	AmqpExchange string

	// Rate limiting configuration
	SubmitRateLimitPerMinute int
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "safepulse"),

		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Classifier defaults
		ClassifierProvider: getEnv("CLASSIFIER_PROVIDER", "openai"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ClassifierTimeout:  time.Duration(getIntEnv("CLASSIFIER_TIMEOUT_SECONDS", 20)) * time.Second,

		// Twilio defaults
		TwilioAccountSid:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		SmsTimeout:        time.Duration(getIntEnv("SMS_TIMEOUT_SECONDS", 15)) * time.Second,

		// SendGrid defaults
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "SafePulse"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "alerts@safepulse.io"),

		// AMQP defaults
		AmqpURL:      getEnv("AMQP_URL", ""),
		AmqpExchange: getEnv("AMQP_EXCHANGE", "safepulse-events"),

		// Rate limiting defaults
		SubmitRateLimitPerMinute: getIntEnv("SUBMIT_RATE_LIMIT_PER_MINUTE", 30),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
