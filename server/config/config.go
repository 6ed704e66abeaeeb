package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"flinch/server/reaction"
	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig は値の組み合わせが不正な場合に返されるエラーです。
var ErrInvalidConfig = errors.New("invalid config")

// Config はサーバーとボットの設定。環境変数から読み込みます。
type Config struct {
	Addr     string     `env:"ADDR"      envDefault:"localhost"`
	Port     int        `env:"PORT"      envDefault:"9090"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	TickRate int        `env:"TICK_RATE" envDefault:"60"`
	BotCount int        `env:"BOT_COUNT" envDefault:"3"`

	FieldHalfExtent float64 `env:"FIELD_HALF_EXTENT" envDefault:"2000"`
	FieldProps      int     `env:"FIELD_PROPS"       envDefault:"8"`

	PingInterval time.Duration `env:"PING_INTERVAL" envDefault:"5s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT"  envDefault:"30s"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"flinch"`

	// 空ならトークン検証を行わない
	JWTSecret string `env:"JWT_SECRET"`

	Reaction Reaction `envPrefix:"REACTION_"`
}

// Reaction はリアクションの調整値
type Reaction struct {
	CharacterBumpMinimumVelocity     float64  `env:"CHARACTER_BUMP_MIN_VELOCITY"  envDefault:"100"`
	ObstacleBumpMinimumVelocity      float64  `env:"OBSTACLE_BUMP_MIN_VELOCITY"   envDefault:"200"`
	BumpDetectionRadius              float64  `env:"BUMP_DETECTION_RADIUS"        envDefault:"30"`
	MaxBumpDetectionDistance         float64  `env:"MAX_BUMP_DETECTION_DISTANCE"  envDefault:"0.1"`
	MaxSlideToCoverDetectionDistance float64  `env:"MAX_SLIDE_DETECTION_DISTANCE" envDefault:"0.2"`
	RotationInterpolationSpeed       float64  `env:"ROTATION_INTERP_SPEED"        envDefault:"10"`
	RotationOffset                   float64  `env:"ROTATION_OFFSET"              envDefault:"0"`
	LatencyHiding                    []string `env:"LATENCY_HIDING"               envDefault:"attack,synced_attack" envSeparator:","`
	ValidateRequests                 bool     `env:"VALIDATE_REQUESTS"            envDefault:"false"`
	Debug                            bool     `env:"DEBUG"                        envDefault:"false"`
}

// Load は環境変数から設定を読み込み検証します。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は値の範囲を検証します。
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	}
	if c.BotCount < 0 {
		return fmt.Errorf("%w: bot count %d", ErrInvalidConfig, c.BotCount)
	}
	if c.FieldHalfExtent <= 0 {
		return fmt.Errorf("%w: field half extent %f", ErrInvalidConfig, c.FieldHalfExtent)
	}
	for _, name := range c.Reaction.LatencyHiding {
		if _, ok := reaction.ParseCategory(name); !ok {
			return fmt.Errorf("%w: unknown latency hiding category %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ListenAddr は host:port を返す
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

// ServerURL はボットが接続するwebsocketのURL
func (c Config) ServerURL() string {
	return "ws://" + c.ListenAddr() + "/ws"
}

// Settings はリアクションの調整値をreaction.Settingsに変換します。
// 検出対象と中断不可アクションは既定値を使います。
func (r Reaction) Settings() reaction.Settings {
	s := reaction.DefaultSettings()
	s.CharacterBumpMinimumVelocity = r.CharacterBumpMinimumVelocity
	s.ObstacleBumpMinimumVelocity = r.ObstacleBumpMinimumVelocity
	s.BumpDetectionRadius = r.BumpDetectionRadius
	s.MaxBumpDetectionDistance = r.MaxBumpDetectionDistance
	s.MaxSlideToCoverDetectionDistance = r.MaxSlideToCoverDetectionDistance
	s.RotationInterpolationSpeed = r.RotationInterpolationSpeed
	s.RotationOffset = r.RotationOffset
	s.Debug = r.Debug

	cats := make([]reaction.Category, 0, len(r.LatencyHiding))
	for _, name := range r.LatencyHiding {
		if cat, ok := reaction.ParseCategory(name); ok {
			cats = append(cats, cat)
		}
	}
	s.LatencyHiding = reaction.NewLatencyHidingPolicy(cats...)
	return s
}

// Validator は検証設定に応じたバリデーターを返します。
func (r Reaction) Validator() reaction.Validator {
	if r.ValidateRequests {
		return reaction.SanityValidator{}
	}
	return reaction.PermissiveValidator{}
}
