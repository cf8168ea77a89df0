package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first, if present; real environment variables
// win over .env entries (godotenv does not override existing ones).
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	IN_MEMORY                "true" to use in-memory storage
//	SECRET_KEY               JWT HMAC secret
//	TOKEN_VALIDITY_MINUTES   session token validity, minutes
//	DEFAULT_USER_PASSWORD    password for createUser accounts
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("IN_MEMORY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.InMemory = b
		}
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY_MINUTES"); ok {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("DEFAULT_USER_PASSWORD"); ok {
		config.DefaultUserPassword = v
	}
}
