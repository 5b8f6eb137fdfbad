package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel           string `env:"LOG_LEVEL"`
	Postgres           Postgres
	Telegram           Telegram
	Redis              Redis
	API                API
	Cache              Cache
	Jobs               Jobs
	GoogleDrive        GoogleDrive
	Import             Import
	SessionExpiration  time.Duration `env:"SESSION_EXPIRATION"`
	HistoryDefaultDays int           `env:"HISTORY_DEFAULT_DAYS" envDefault:"30"`
	ReportOperations   int           `env:"REPORT_OPERATIONS_LIMIT" envDefault:"200"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR"`
}

type Telegram struct {
	Token          string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout     time.Duration `env:"TELEGRAM_UPD_TIMEOUT"`
	AllowedChatIDs []int64       `env:"TELEGRAM_ALLOWED_CHAT_IDS" envSeparator:","`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug        bool          `env:"API_DEBUG"`
	Timeout      time.Duration `env:"API_TIMEOUT"`
	RetryCount   int           `env:"API_RETRY_COUNT" envDefault:"2"`
	PortfolioApi PortfolioApi
}

type PortfolioApi struct {
	Url string `env:"PORTFOLIO_API_URL"`
}

type Cache struct {
	PricesExpiration          time.Duration `env:"CACHE_PRICES_EXPIRATION" envDefault:"60s"`
	LastKnownPricesExpiration time.Duration `env:"CACHE_LAST_KNOWN_PRICES_EXPIRATION" envDefault:"24h"`
}

type Jobs struct {
	SnapshotCrontab          string        `env:"SNAPSHOT_JOB_CRONTAB"`
	WarmPricesInterval       time.Duration `env:"WARM_PRICES_JOB_INTERVAL"`
	DeleteOldReportsInterval time.Duration `env:"DELETE_OLD_REPORTS_JOB_INTERVAL" envDefault:"1h"`
	Timeout                  time.Duration `env:"JOB_TIMEOUT" envDefault:"5m"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

type Import struct {
	FileLimitInBytes int64 `env:"IMPORT_FILE_LIMIT_IN_BYTES" envDefault:"1048576"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
