package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace shared by every binary.
const EnvPrefix = "tidyops"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TIDYOPS_DB_DSN"
	EnvDBHost = "TIDYOPS_DB_HOST"
	EnvDBUser = "TIDYOPS_DB_USER"
	EnvDBName = "TIDYOPS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Scheduling   SchedulingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Scheduling.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIDYOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"TIDYOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIDYOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIDYOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIDYOPS_DB_DSN"`
	Driver string `envconfig:"TIDYOPS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TIDYOPS_DB_HOST"`
	Port     int    `envconfig:"TIDYOPS_DB_PORT" default:"5432"`
	User     string `envconfig:"TIDYOPS_DB_USER"`
	Password string `envconfig:"TIDYOPS_DB_PASSWORD"`
	Name     string `envconfig:"TIDYOPS_DB_NAME"`
	SSLMode  string `envconfig:"TIDYOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIDYOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIDYOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIDYOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIDYOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TIDYOPS_REDIS_URL"`
	Address      string        `envconfig:"TIDYOPS_REDIS_ADDR"`
	Password     string        `envconfig:"TIDYOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIDYOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIDYOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIDYOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIDYOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIDYOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIDYOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TIDYOPS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TIDYOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TIDYOPS_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"TIDYOPS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIDYOPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIDYOPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIDYOPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIDYOPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIDYOPS_ARGON_KEY_LEN" default:"32"`
}

// SchedulingConfig tunes the assignment engine. The defaults mirror the
// business rules: two hours between visits, five visits per agent per day.
type SchedulingConfig struct {
	BufferMinutes        int `envconfig:"TIDYOPS_SCHEDULING_BUFFER_MINUTES" default:"120"`
	DefaultDailyCapacity int `envconfig:"TIDYOPS_SCHEDULING_DEFAULT_DAILY_CAPACITY" default:"5"`
}

func (s SchedulingConfig) validate() error {
	if s.BufferMinutes < 0 {
		return fmt.Errorf("scheduling buffer must not be negative, got %d", s.BufferMinutes)
	}
	if s.DefaultDailyCapacity < 1 {
		return fmt.Errorf("default daily capacity must be at least 1, got %d", s.DefaultDailyCapacity)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TIDYOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TIDYOPS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
