// Package config assembles runtime settings from defaults, environment
// variables (with optional .env file), a JSON config file and command-line
// flags. Later sources take precedence over earlier ones.
package config

import "time"

// Remote backend selectors.
const (
	RemoteDrive = "drive"
	RemoteS3    = "s3"
	RemoteNone  = "none"
)

// Cache backend selectors.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds runtime settings for the patronthèque client.
type Config struct {
	// DataDir is where the local database lives.
	DataDir string

	// RemoteBackend selects the remote object store: drive, s3 or none.
	RemoteBackend string

	// DriveBaseURL / DriveUploadURL are the REST endpoints of the drive
	// backend. Overridable so tests can point at a local server.
	DriveBaseURL   string
	DriveUploadURL string

	// RemoteFolderName is the well-known folder holding synced records.
	RemoteFolderName string

	// S3 settings, used when RemoteBackend is "s3". Endpoint is optional and
	// covers S3-compatible services (MinIO, R2, Spaces).
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// CacheBackend selects the gateway cache store: sqlite, redis or none.
	CacheBackend string
	RedisAddr    string

	// CacheVersion tags the gateway's cache buckets. Bumping it makes the
	// next activation drop every bucket carrying the old tag.
	CacheVersion string

	// APIHosts are host suffixes treated as API/auth traffic by the gateway
	// (network-first).
	APIHosts []string

	// Image compression bounds applied before a picture is embedded in a
	// record.
	ImageMaxWidth  int
	ImageMaxHeight int
	ImageQuality   int

	// OnlineCheckInterval is how often the client probes remote
	// reachability.
	OnlineCheckInterval time.Duration

	// SeedSampleData loads the bundled sample patrons on first run.
	SeedSampleData bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.RemoteBackend = RemoteDrive
	c.DriveBaseURL = "https://www.googleapis.com/drive/v3"
	c.DriveUploadURL = "https://www.googleapis.com/upload/drive/v3"
	c.RemoteFolderName = "CrochetPatterns"
	c.S3Region = "us-east-1"
	c.CacheBackend = CacheSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.CacheVersion = "v1"
	c.APIHosts = []string{"googleapis.com", "google.com", "gstatic.com"}
	c.ImageMaxWidth = 800
	c.ImageMaxHeight = 800
	c.ImageQuality = 80
	c.OnlineCheckInterval = 30 * time.Second
	c.SeedSampleData = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
