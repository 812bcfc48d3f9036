package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug            bool   `envconfig:"debug"`
	Port             int    `envconfig:"port" default:"5000"`
	Env              string `envconfig:"env"`
	PostgresHost     string `envconfig:"postgres_host"`
	PostgresUser     string `envconfig:"postgres_user"`
	PostgresDB       string `envconfig:"postgres_db"`
	PostgresPort     int    `envconfig:"postgres_port"`
	PostgresPassword string `envconfig:"postgres_password"`
	SqlitePath       string `envconfig:"sqlite_path" default:"circle.db"`
	UploadDir        string `envconfig:"upload_dir" default:"static/uploads"`
	ThumbnailDir     string `envconfig:"thumbnail_dir" default:"static/thumbnails"`
	MaxUploadSize    int64  `envconfig:"max_upload_size" default:"52428800"` // 50 MB
	AwsBucket        string `envconfig:"aws_bucket"`
	AwsRegion        string `envconfig:"aws_region"`
	AwsAccessKeyID   string `envconfig:"aws_access_key_id"`
	AwsSecretKey     string `envconfig:"aws_secret_access_key"`
	UploadRateLimit  uint   `envconfig:"upload_rate_limit" default:"30"` // per minute, per client IP
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("circle", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UsePostgres reports whether a postgres host was configured. Without one the
// service falls back to a local sqlite file, the same way the original
// deployment fell back when DATABASE_URL was unset.
func (c *Config) UsePostgres() bool {
	return c.PostgresHost != ""
}
