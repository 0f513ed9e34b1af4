package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
// Wird einmal beim Start geladen und per Zeiger an die Komponenten übergeben.
type Config struct {
	AppName string `envconfig:"APP_NAME" default:"Screen AI"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`

	// postgres oder sqlite
	DBDriver       string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         int    `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"postgres"`
	DBPassword     string `envconfig:"DB_PASSWORD"`
	DBName         string `envconfig:"DB_NAME" default:"screen_ai"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"screen-ai.db"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8000"`

	SecretKey                string `envconfig:"SECRET_KEY" required:"true"`
	AccessTokenExpireMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"10080"`
	JWTIssuer                string `envconfig:"JWT_ISSUER" default:"screen-ai"`

	PageLimitMax       int     `envconfig:"PAGE_LIMIT_MAX" default:"1000"`
	CORSAllowedOrigins string  `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LoginRatePerSecond float64 `envconfig:"LOGIN_RATE_PER_SECOND" default:"5"`
	LoginRateBurst     int     `envconfig:"LOGIN_RATE_BURST" default:"10"`

	// Blob-Storage für Mikroskopie-Bilder (S3 / MinIO)
	BlobDriver         string        `envconfig:"BLOB_DRIVER" default:"s3"`
	S3Bucket           string        `envconfig:"S3_BUCKET"`
	S3Region           string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint         string        `envconfig:"S3_ENDPOINT"`
	AWSAccessKeyID     string        `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string        `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3PresignTTL       time.Duration `envconfig:"S3_PRESIGN_TTL" default:"15m"`

	// Default-Admin (Demo/Entwicklung)
	AdminEmail           string `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword        string `envconfig:"ADMIN_PASSWORD"`
	AdminFullName        string `envconfig:"ADMIN_FULL_NAME" default:"Admin User"`
	CreateAdminOnStartup bool   `envconfig:"CREATE_ADMIN_ON_STARTUP" default:"false"`

	// none, stdout oder otlp
	TracingExporter string `envconfig:"TRACING_EXPORTER" default:"none"`
	OTLPEndpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// AccessTokenTTL gibt die Lebensdauer eines Access-Tokens zurück.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// AllowedOrigins zerlegt CORS_ALLOWED_ORIGINS in eine Liste.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
