package config

import (
	"time"

	"cutroom/internal/quota"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Local & Github Secrets (Fill up for local development)
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`
	S3URL              string `envconfig:"SUPABASE_S3_URL" required:"true"`
	S3Bucket           string `envconfig:"SUPABASE_S3_BUCKET" required:"true"`
	S3Region           string `envconfig:"SUPABASE_S3_REGION" required:"true"`
	S3AccessKey        string `envconfig:"SUPABASE_S3_ACCESS_KEY" required:"true"`
	S3SecretKey        string `envconfig:"SUPABASE_S3_SECRET_KEY" required:"true"`
	Environment        string `envconfig:"ENV" default:"development"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"debug"`

	// Local Secrets (Fill up for local development)
	Port               string        `envconfig:"PORT" default:"8080"`
	PubSubEmulatorHost string        `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubTrackTopic   string        `envconfig:"PUBSUB_TRACK_TOPIC" default:"track-events"`
	UploadURLTTL       time.Duration `envconfig:"UPLOAD_URL_TTL" default:"15m"`

	// GitHub Secrets (No need to fill up for local development)
	GCPProjectID                  string `envconfig:"GCP_PROJECT_ID"`
	PubSubPushAudience            string `envconfig:"PUBSUB_PUSH_AUDIENCE"`
	PubSubPushServiceAccountEmail string `envconfig:"PUBSUB_PUSH_SERVICE_ACCOUNT_EMAIL"`

	// Plan limits
	QuotaFreeMaxUploadMB  int64 `envconfig:"QUOTA_FREE_MAX_UPLOAD_MB" default:"200"`
	QuotaLiteMaxUploadMB  int64 `envconfig:"QUOTA_LITE_MAX_UPLOAD_MB" default:"2048"`
	QuotaProMaxUploadMB   int64 `envconfig:"QUOTA_PRO_MAX_UPLOAD_MB" default:"5120"`
	QuotaDefaultStorageMB int64 `envconfig:"QUOTA_DEFAULT_STORAGE_MB" default:"500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// QuotaLimits converts the configured plan limits to bytes.
func (c *Config) QuotaLimits() quota.Limits {
	return quota.Limits{
		FreeMaxUpload:  c.QuotaFreeMaxUploadMB * quota.MiB,
		LiteMaxUpload:  c.QuotaLiteMaxUploadMB * quota.MiB,
		ProMaxUpload:   c.QuotaProMaxUploadMB * quota.MiB,
		DefaultStorage: c.QuotaDefaultStorageMB * quota.MiB,
	}
}

// IsLocalPubSub reports whether Pub/Sub traffic goes to the emulator, in which
// case push requests are not authenticated.
func (c *Config) IsLocalPubSub() bool {
	return c.PubSubEmulatorHost != ""
}
