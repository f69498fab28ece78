package config

import "strings"

// KafkaConfig selects the topic assembly jobs are consumed from
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// S3Config enables uploads of assembled videos when Bucket is set.
// Region and Profile fall back to the standard AWS credential chain.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// RedisConfig enables the Redis job store when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Enabled reports whether the Redis job store is configured
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// Service bundles everything the long-running service needs
type Service struct {
	Port              string
	InputDir          string
	OutputDir         string
	WorkDir           string
	MaxConcurrentJobs int

	// FitSubtitlesToAudio rescales estimated cues to the measured audio length
	FitSubtitlesToAudio bool

	// Schedule is a cron expression for recurring batch runs (empty disables)
	Schedule string

	// YouTubeServiceAccount is the path to a service-account JSON key (empty disables publishing)
	YouTubeServiceAccount string

	Kafka KafkaConfig
	S3    S3Config
	Redis RedisConfig

	Assembly Assembly
}

// ServiceFromEnv reads the service configuration from the environment.
// Call godotenv.Load first if a .env file should be honoured.
func ServiceFromEnv() Service {
	prefix := getEnv("S3_PREFIX", "")
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}

	return Service{
		Port:                  getEnv("PORT", DefaultAPIPort),
		InputDir:              getEnv("INPUT_DIR", InputDir),
		OutputDir:             getEnv("OUTPUT_DIR", OutputDir),
		WorkDir:               getEnv("WORK_DIR", WorkDir),
		MaxConcurrentJobs:     max(getEnvInt("MAX_CONCURRENT_JOBS", MaxConcurrentJobs), 1),
		FitSubtitlesToAudio:   getEnvBool("FIT_SUBTITLES_TO_AUDIO", false),
		Schedule:              getEnv("BATCH_SCHEDULE", ""),
		YouTubeServiceAccount: getEnv("YOUTUBE_SERVICE_ACCOUNT", ""),
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BOOTSTRAP_SERVERS", DefaultKafkaBrokers),
			Topic:   getEnv("KAFKA_TOPIC_ASSEMBLY_REQUESTS", DefaultKafkaTopic),
			GroupID: getEnv("KAFKA_CONSUMER_GROUP_ID", DefaultKafkaGroupID),
		},
		S3: S3Config{
			Bucket:       getEnv("S3_BUCKET", ""),
			Prefix:       prefix,
			Region:       getEnv("S3_REGION", ""),
			Profile:      getEnv("S3_PROFILE", ""),
			UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_JOBS_KEY", DefaultRedisJobsKey),
		},
		Assembly: AssemblyFromEnv(),
	}
}
