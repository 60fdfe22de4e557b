package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"0"` // realtime streams are long lived
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialSupervisor struct {
		Email     string `env:"EMAIL,required"`
		Password  string `env:"PASSWORD,required"`
		Name      string `env:"NAME" envDefault:"Program Supervisor"`
		Specialty string `env:"SPECIALTY" envDefault:"General Medicine"`
	} `envPrefix:"INITIAL_SUPERVISOR_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // hours, 14 days
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Auth struct {
		AutoSignIn bool `env:"AUTO_SIGN_IN" envDefault:"false"`
	} `envPrefix:"AUTH_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"mentorflow"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN" envDefault:"mentorflow.local"`
		AppURL     string `env:"APP_URL" envDefault:"http://localhost:3000"`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		MailQueue      string `env:"MAIL_QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Realtime struct {
		ChannelPrefix     string `env:"CHANNEL_PREFIX" envDefault:"realtime:"`
		HeartbeatInterval int    `env:"HEARTBEAT_INTERVAL" envDefault:"25"`
		PublishTimeout    int    `env:"PUBLISH_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REALTIME_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
}

// ClientConfig configures the terminal client. Nothing in it is required: a missing remote
// URL turns every remote call into ErrNotConfigured and a missing advisory key selects the
// local heuristics.
type ClientConfig struct {
	Remote struct {
		URL     string `env:"URL"`
		Timeout int    `env:"TIMEOUT" envDefault:"15"`
	} `envPrefix:"REMOTE_"`
	Advisory struct {
		APIKey string `env:"API_KEY"`
		Model  string `env:"MODEL" envDefault:"gemini-2.0-flash"`
	} `envPrefix:"ADVISORY_"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
	Debug    bool   `env:"DEBUG"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := parse(cfg, env.Options{}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values that parse fine but would break at runtime, such as a zero
// ticker interval.
func (cfg *Config) validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"REALTIME_HEARTBEAT_INTERVAL", cfg.Realtime.HeartbeatInterval},
		{"DATABASE_QUERY_TIMEOUT", cfg.Database.QueryTimeout},
		{"JWT_EXPIRATION", cfg.JWT.Expiration},
		{"NEW_USER_PASSWORD_LENGTH", cfg.NewUser.PasswordLength},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}

	return nil
}

func LoadClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{}
	if err := parse(cfg, env.Options{Prefix: "MENTORFLOW_"}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(v any, opts env.Options) error {
	if err := env.ParseWithOptions(v, opts); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error, keeps the startup log readable
			return aggErr.Errors[0]
		}
		return err
	}

	return nil
}
