package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Kakao     KakaoConfig
	Storage   StorageConfig
	MinIO     MinIOConfig
	RabbitMQ  RabbitMQConfig
	Consul    ConsulConfig
	Grpc      GrpcConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ServiceName    string
	ServiceID      string
	ServiceAddress string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	BodyLimitMB    int
	AllowOrigins   []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	PoolSize uint64
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	CacheTTL time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// KakaoConfig holds the OAuth client settings. The endpoint fields are
// overridable so tests can point the client at a local server.
type KakaoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AdminKey     string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
}

type StorageConfig struct {
	Backend   string // "local" or "minio"
	LocalDir  string
	PublicURL string
}

type MinIOConfig struct {
	Endpoint        string
	PublicEndpoint  string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address string
	Enabled bool
}

type GrpcConfig struct {
	Port string
}

type LogConfig struct {
	Dir   string
	Level string
}

type SchedulerConfig struct {
	QuizCountSpec string
}

// Load reads .env (when present) and the process environment into a Config.
// The result is read-only for the lifetime of the process.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	serviceName := getEnv("SERVICE_NAME", "quizly-server")
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			Host:           getEnv("HOST", "0.0.0.0"),
			ServiceName:    serviceName,
			ServiceID:      serviceName + "-" + getEnv("HOSTNAME", "1"),
			ServiceAddress: getEnv("SERVICE_ADDRESS", "localhost"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			BodyLimitMB:    getEnvAsInt("BODY_LIMIT_MB", 20),
			AllowOrigins:   getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "quizly"),
			PoolSize: getEnvAsUint64("MONGO_POOL_SIZE", 100),
			Timeout:  getEnvAsDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PWD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: time.Duration(getEnvAsInt("TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		},
		Kakao: KakaoConfig{
			ClientID:     getEnv("KAKAO_CLIENT_ID", ""),
			ClientSecret: getEnv("KAKAO_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("KAKAO_REDIRECT_URI", ""),
			AdminKey:     getEnv("KAKAO_ADMIN_KEY", ""),
			AuthURL:      getEnv("KAKAO_AUTH_URL", "https://kauth.kakao.com/oauth/authorize"),
			TokenURL:     getEnv("KAKAO_TOKEN_URL", "https://kauth.kakao.com/oauth/token"),
			APIBaseURL:   getEnv("KAKAO_API_URL", "https://kapi.kakao.com"),
			Timeout:      getEnvAsDuration("KAKAO_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			LocalDir:  getEnv("UPLOAD_DIR", "uploads"),
			PublicURL: getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			PublicEndpoint:  getEnv("MINIO_PUBLIC_ENDPOINT", ""),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
			BucketName:      getEnv("MINIO_BUCKET_NAME", "quizly"),
			Region:          getEnv("MINIO_REGION", "us-east-1"),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "quizly-events"),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDRESS", "localhost:8500"),
			Enabled: getEnvAsBool("CONSUL_ENABLED", false),
		},
		Grpc: GrpcConfig{
			Port: getEnv("GRPC_PORT", ""),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "log"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			QuizCountSpec: getEnv("QUIZ_COUNT_REFRESH_SPEC", "@every 5m"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MongoDB.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.Storage.Backend != "local" && c.Storage.Backend != "minio" {
		return errors.New("STORAGE_BACKEND must be local or minio")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("invalid int in environment")
			return defaultValue
		}
		return intVal
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("invalid uint64 in environment")
			return defaultValue
		}
		return intVal
	}
	return defaultValue
}

// getEnvAsDuration reads a number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("invalid duration in environment")
			return defaultValue
		}
		return time.Duration(intVal) * time.Second
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("invalid bool in environment")
			return defaultValue
		}
		return boolVal
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
