package config

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	TLS_DOMAINS      = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS     = "0.0.0.0:8080"
	MYSQL_DSN        = ""             // MySQL will be used if this is set
	POSTGRES_DSN     = ""             // PostgreSQL will be used if MYSQL_DSN is not configured and this is set
	SQLITE_FILE      = "yatube.db"    // SQLite is the fallback store
	DEBUG_MODE       = true
	SESSION_KEY      = "change me, this is a long session key"
	MEDIA_DIR        = "media" // Default disk bucket, used when no S3_BUCKET is configured
	S3_BUCKET        = ""
	S3_PREFIX        = ""
	S3_REGION        = "us-east-1"
	S3_ENDPOINT      = "" // For S3 compatible services (MinIO, etc)
	S3_KEY           = ""
	S3_SECRET        = ""
	MAX_IMAGE_SIZE   = 5 << 20    // bytes
	MAX_IMAGE_PIXELS = 25_000_000 // width * height
	THUMB_SIZE       = 960
	CLEANUP_SCHEDULE = "@every 60m"
	ADMIN_USERNAME   = "" // Created on start (with admin permission) if set together with ADMIN_PASSWORD
	ADMIN_PASSWORD   = ""
)

// Init reads settings.toml (if present) and then YATUBE_* environment variables
func Init() {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("yatube")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn().Err(err).Msg("Cannot read settings file, using environment only")
		}
	}

	readString("TLS_DOMAINS", &TLS_DOMAINS)
	readString("BIND_ADDRESS", &BIND_ADDRESS)
	readString("MYSQL_DSN", &MYSQL_DSN)
	readString("POSTGRES_DSN", &POSTGRES_DSN)
	readString("SQLITE_FILE", &SQLITE_FILE)
	readBool("DEBUG_MODE", &DEBUG_MODE)
	readString("SESSION_KEY", &SESSION_KEY)
	readString("MEDIA_DIR", &MEDIA_DIR)
	readString("S3_BUCKET", &S3_BUCKET)
	readString("S3_PREFIX", &S3_PREFIX)
	readString("S3_REGION", &S3_REGION)
	readString("S3_ENDPOINT", &S3_ENDPOINT)
	readString("S3_KEY", &S3_KEY)
	readString("S3_SECRET", &S3_SECRET)
	readInt("MAX_IMAGE_SIZE", &MAX_IMAGE_SIZE)
	readInt("MAX_IMAGE_PIXELS", &MAX_IMAGE_PIXELS)
	readInt("THUMB_SIZE", &THUMB_SIZE)
	readString("CLEANUP_SCHEDULE", &CLEANUP_SCHEDULE)
	readString("ADMIN_USERNAME", &ADMIN_USERNAME)
	readString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
}

func readString(name string, value *string) {
	if !viper.IsSet(name) {
		return
	}
	if v := viper.GetString(name); v != "" {
		*value = v
	}
}

func readBool(name string, value *bool) {
	if !viper.IsSet(name) {
		return
	}
	*value = viper.GetBool(name)
}

func readInt(name string, value *int) {
	if !viper.IsSet(name) {
		return
	}
	if v := viper.GetInt(name); v > 0 {
		*value = v
	}
}
