package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	BackendLocal = "local"
	BackendNone  = "none"
)

var validate = validator.New()

type Config struct {
	LogLevel           string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	AgentName          string        `env:"AGENT_NAME,required=true" validate:"required,max=64"`
	SignerSeed         string        `env:"SIGNER_SEED,required=true" validate:"required,len=64,hexadecimal"`
	LedgerBackend      string        `env:"LEDGER_BACKEND,default=local" validate:"oneof=local none"`
	LedgerPath         string        `env:"LEDGER_PATH,default=./data/ledger" validate:"required_if=LedgerBackend local"`
	NamespaceID        string        `env:"NAMESPACE_ID,required=true" validate:"required"`
	DefaultRoom        string        `env:"DEFAULT_ROOM,default=General" validate:"required"`
	Rooms              string        `env:"ROOMS"`
	APIBaseURL         string        `env:"API_BASE_URL" validate:"omitempty,url"`
	GatewayBaseURL     string        `env:"GATEWAY_BASE_URL" validate:"omitempty,url"`
	TrackerURL         string        `env:"TRACKER_URL" validate:"omitempty,url"`
	ConsumerWebhookURL string        `env:"CONSUMER_WEBHOOK_URL" validate:"omitempty,url"`
	SocialBaseURL      string        `env:"SOCIAL_BASE_URL" validate:"omitempty,url"`
	SocialToken        string        `env:"SOCIAL_TOKEN" validate:"required_with=SocialBaseURL"`
	PollInterval       time.Duration `env:"POLL_INTERVAL,default=5s" validate:"gt=0"`
	PollBatchSize      int           `env:"POLL_BATCH_SIZE,default=20" validate:"gte=1,lte=100"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT,default=10s" validate:"gt=0"`
	SeenCapacity       int           `env:"SEEN_CAPACITY,default=10000" validate:"gte=1"`
	EventBufferSize    int           `env:"EVENT_BUFFER_SIZE,default=256" validate:"gte=1"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,default=10s" validate:"gte=0"`
	LowCapacity        int           `env:"LOW_CAPACITY_THRESHOLD,default=16" validate:"gte=0"`
	ServeGateway       bool          `env:"SERVE_GATEWAY,default=false"`
	Host               string        `env:"HOST,default=localhost"`
	Port               int           `env:"PORT,default=8080" validate:"gte=1,lte=65535"`
	DebugPort          int           `env:"DEBUG_PORT,default=8081" validate:"gte=1,lte=65535"`
}

// Load reads the optional .env files, then the environment, then validates.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RoomList splits ROOMS on commas, dropping blanks and case-insensitive duplicates.
func (c Config) RoomList() []string {
	rooms := lo.FilterMap(strings.Split(c.Rooms, ","), func(room string, _ int) (string, bool) {
		room = strings.TrimSpace(room)
		return room, room != ""
	})
	return lo.UniqBy(rooms, strings.ToLower)
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
