package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/adubois/patrontheque/internal/flagx"
	"github.com/adubois/patrontheque/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. Zero values mean "not set" and leave the
// corresponding Config field untouched.
type JsonConfig struct {
	DataDir             string         `json:"data_dir"`
	RemoteBackend       string         `json:"remote_backend"`
	DriveBaseURL        string         `json:"drive_base_url"`
	DriveUploadURL      string         `json:"drive_upload_url"`
	RemoteFolderName    string         `json:"remote_folder_name"`
	S3Region            string         `json:"s3_region"`
	S3Bucket            string         `json:"s3_bucket"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	S3Endpoint          string         `json:"s3_endpoint"`
	CacheBackend        string         `json:"cache_backend"`
	RedisAddr           string         `json:"redis_addr"`
	CacheVersion        string         `json:"cache_version"`
	APIHosts            []string       `json:"api_hosts"`
	ImageMaxWidth       int            `json:"image_max_width"`
	ImageMaxHeight      int            `json:"image_max_height"`
	ImageQuality        int            `json:"image_quality"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SeedSampleData      *bool          `json:"seed_sample_data"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; without one this is a no-op.
// Intended usage is: defaults -> env -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.RemoteBackend, jc.RemoteBackend)
	setString(&cfg.DriveBaseURL, jc.DriveBaseURL)
	setString(&cfg.DriveUploadURL, jc.DriveUploadURL)
	setString(&cfg.RemoteFolderName, jc.RemoteFolderName)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.CacheBackend, jc.CacheBackend)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.CacheVersion, jc.CacheVersion)

	if len(jc.APIHosts) > 0 {
		cfg.APIHosts = jc.APIHosts
	}
	if jc.ImageMaxWidth > 0 {
		cfg.ImageMaxWidth = jc.ImageMaxWidth
	}
	if jc.ImageMaxHeight > 0 {
		cfg.ImageMaxHeight = jc.ImageMaxHeight
	}
	if jc.ImageQuality > 0 {
		cfg.ImageQuality = jc.ImageQuality
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SeedSampleData != nil {
		cfg.SeedSampleData = *jc.SeedSampleData
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
