package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the current value untouched.
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("JWT_ACCESS_SECRET", &config.AccessSecret)
	setString("JWT_REFRESH_SECRET", &config.RefreshSecret)
	setString("JWT_RESET_SECRET", &config.ResetSecret)
	setString("APP_ENV", &config.AppEnv)
	setString("APP_DOMAIN", &config.AppDomain)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setString("SMTP_HOST", &config.SMTPHost)
	setString("SMTP_USER", &config.SMTPUser)
	setString("SMTP_PASSWORD", &config.SMTPPassword)
	setString("SMTP_FROM", &config.SMTPFrom)

	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = port
		}
	}

	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	setDuration("RESET_TOKEN_TTL", &config.ResetTokenValidityDuration)
}
