package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	TokenTTL  int    `env:"TOKEN_TTL_HOURS, default=8"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	Bulk    BulkConfig
}

type DBConfig struct {
	Path string `env:"DB_PATH, default=fieldops.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// StorageConfig selects the object store backing bulk files. When Bucket is
// empty or Local is set, files land under LocalDir on the filesystem.
type StorageConfig struct {
	Bucket   string `env:"GCS_BUCKET"`
	Local    bool   `env:"LOCAL_STORAGE, default=false"`
	LocalDir string `env:"LOCAL_STORAGE_DIR, default=storage"`
}

type BulkConfig struct {
	MaxFileMB       int `env:"BULK_MAX_FILE_MB, default=50"`
	ExportSyncLimit int `env:"BULK_EXPORT_SYNC_LIMIT, default=2000"`
	Workers         int `env:"BULK_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
