package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; real
// environment variables win over .env entries (godotenv does not override).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	envString(&cfg.DataDir, "PATRONTHEQUE_DATA_DIR")
	envString(&cfg.RemoteBackend, "PATRONTHEQUE_REMOTE")
	envString(&cfg.DriveBaseURL, "PATRONTHEQUE_DRIVE_BASE_URL")
	envString(&cfg.DriveUploadURL, "PATRONTHEQUE_DRIVE_UPLOAD_URL")
	envString(&cfg.RemoteFolderName, "PATRONTHEQUE_REMOTE_FOLDER")
	envString(&cfg.S3Region, "PATRONTHEQUE_S3_REGION")
	envString(&cfg.S3Bucket, "PATRONTHEQUE_S3_BUCKET")
	envString(&cfg.S3AccessKey, "PATRONTHEQUE_S3_ACCESS_KEY")
	envString(&cfg.S3SecretKey, "PATRONTHEQUE_S3_SECRET_KEY")
	envString(&cfg.S3Endpoint, "PATRONTHEQUE_S3_ENDPOINT")
	envString(&cfg.CacheBackend, "PATRONTHEQUE_CACHE")
	envString(&cfg.RedisAddr, "PATRONTHEQUE_REDIS_ADDR")
	envString(&cfg.CacheVersion, "PATRONTHEQUE_CACHE_VERSION")

	if v := os.Getenv("PATRONTHEQUE_API_HOSTS"); v != "" {
		cfg.APIHosts = splitHosts(v)
	}

	envInt(&cfg.ImageMaxWidth, "PATRONTHEQUE_IMAGE_MAX_WIDTH")
	envInt(&cfg.ImageMaxHeight, "PATRONTHEQUE_IMAGE_MAX_HEIGHT")
	envInt(&cfg.ImageQuality, "PATRONTHEQUE_IMAGE_QUALITY")

	if v := os.Getenv("PATRONTHEQUE_ONLINE_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OnlineCheckInterval = d
		}
	}

	if v := os.Getenv("PATRONTHEQUE_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedSampleData = b
		}
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitHosts(s string) []string {
	parts := strings.Split(s, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hosts = append(hosts, p)
		}
	}
	return hosts
}
