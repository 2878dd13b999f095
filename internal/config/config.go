package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	Auth       AuthConfig
	SMTP       SMTPConfig
	Email      EmailConfig
	SMS        SMSConfig
	Identity   IdentityConfig
	Cache      Cache
}

type HttpServer struct {
	Port             string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout          time.Duration `env:"HTTP_TIMEOUT" env-default:"40s"`
	IdleTimeout      time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled   bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	IntegrityEnabled bool          `env:"HTTP_INTEGRITY_ENABLED" env-default:"false" env-description:"require X-Integrity header on api routes"`
	AllowedOrigins   []string      `env:"HTTP_ALLOWED_ORIGINS" env-default:"*"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT                    JWTConfig
	BcryptCost             int           `env:"AUTH_BCRYPT_COST" env-default:"12"`
	VerificationCodeLength int           `env:"AUTH_VERIFICATION_CODE_LENGTH" env-default:"6"`
	EmailVerificationTTL   time.Duration `env:"AUTH_EMAIL_VERIFICATION_TTL" env-default:"24h"`
	OtpTTL                 time.Duration `env:"AUTH_OTP_TTL" env-default:"3m"`
	OtpCooldown            time.Duration `env:"AUTH_OTP_COOLDOWN" env-default:"3m"`
}

type JWTConfig struct {
	AccessTokenTTL    time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL   time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"168h"`
	AccessSigningKey  string        `env:"JWT_ACCESS_SIGNING_KEY" env-required:"true"`
	RefreshSigningKey string        `env:"JWT_REFRESH_SIGNING_KEY" env-required:"true"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"SMTP_FROM"`
	Pass string `env:"SMTP_PASS"`
}

type EmailConfig struct {
	Enabled    bool   `env:"EMAIL_ENABLED" env-default:"false"`
	Provider   string `env:"EMAIL_PROVIDER" env-default:"brevo" env-description:"one of brevo/smtp/resend"`
	SenderName string `env:"EMAIL_SENDER_NAME" env-default:"YemekTaxi"`
	SenderAddr string `env:"EMAIL_SENDER_ADDRESS" env-default:"info@yemektaxi.com"`
	Brevo      struct {
		APIKey string `env:"BREVO_API_KEY"`
		URL    string `env:"BREVO_API_URL" env-default:"https://api.brevo.com/v3/smtp/email"`
	}
	Resend struct {
		APIKey string `env:"RESEND_API_KEY"`
	}
	Templates EmailTemplates
}

type EmailTemplates struct {
	Verification string `env:"EMAIL_TEMPLATE_VERIFICATION" env-default:"verification.html"`
	Signup       string `env:"EMAIL_TEMPLATE_SIGNUP" env-default:"signup.html"`
}

type SMSConfig struct {
	Enabled  bool   `env:"SMS_ENABLED" env-default:"false"`
	Provider string `env:"SMS_PROVIDER" env-default:"netgsm" env-description:"one of netgsm/twilio"`
	NetGSM   struct {
		URL      string `env:"NETGSM_URL" env-default:"https://api.netgsm.com.tr/sms/rest/v2/send"`
		Username string `env:"NETGSM_USERNAME"`
		Password string `env:"NETGSM_PASSWORD"`
		Header   string `env:"NETGSM_HEADER" env-default:"yemektaxi"`
	}
	Twilio struct {
		AccountSID string `env:"TWILIO_ACCOUNT_SID"`
		AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
		From       string `env:"TWILIO_FROM"`
	}
}

type IdentityConfig struct {
	URL     string        `env:"IDENTITY_KPS_URL" env-default:"https://tckimlik.nvi.gov.tr/Service/KPSPublic.asmx"`
	Timeout time.Duration `env:"IDENTITY_KPS_TIMEOUT" env-default:"30s"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"localhost:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001'', '172.27.29.92:7002'']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
