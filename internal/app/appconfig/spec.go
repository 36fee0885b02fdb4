package appconfig

import (
	"time"

	"maa.plus/backend-next/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address the backend would listen on for
	// serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9020"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs)
	// to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// TrustedProxies is a list of trusted proxies that are trusted to report
	// a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin
	// up utilities for debugging and provide a more contextual message when
	// encountered a panic.
	DevMode bool `split_words:"true"`

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to
	// construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// RedisURL is the URL of the Redis server. See
	// https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL for more
	// information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/2"`

	// SentryDSN is the DSN of the Sentry server. Leaving this empty disables
	// Sentry reporting.
	SentryDSN string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut
	// down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// JWTSecret is the HMAC secret used to sign session tokens.
	JWTSecret string `required:"true" split_words:"true"`

	// JWTExpire is the validity window of an issued session token.
	JWTExpire time.Duration `split_words:"true" default:"72h"`

	// GameDataBaseURL overrides the location the game data mirror fetches
	// its table dumps from. Leave empty to use the community dump on GitHub.
	GameDataBaseURL string `split_words:"true"`

	// GameDataTimeout bounds a single table fetch.
	GameDataTimeout time.Duration `split_words:"true" default:"30s"`

	// GameDataSyncInterval describes the interval in-between two mirror
	// refresh batches.
	GameDataSyncInterval time.Duration `split_words:"true" default:"1h"`

	// GameDataSyncEnabled is a flag to indicate whether to run the periodic
	// mirror refresh worker.
	GameDataSyncEnabled bool `split_words:"true" default:"true"`

	// SMTPAddress is the host:port of the SMTP relay used for activation and
	// password reset mails. Leaving this empty disables outbound mail, in
	// which case codes are only ever visible in logs (dev setups).
	SMTPAddress string `split_words:"true"`

	SMTPUsername string `split_words:"true"`
	SMTPPassword string `split_words:"true"`

	// MailFrom is the From address of outbound mail.
	MailFrom string `split_words:"true" default:"noreply@maa.plus"`

	// MailCodeExpire is the TTL of activation and password reset codes.
	MailCodeExpire time.Duration `split_words:"true" default:"10m"`

	// ActivationURLBase is the frontend URL prefix activation nonces are
	// appended to when composing activation mails.
	ActivationURLBase string `split_words:"true" default:"https://prts.plus/account/activation?nonce="`

	// AdminKey is the key used to authenticate the admin API.
	AdminKey string `split_words:"true"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
