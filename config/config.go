// Initializing common application configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/ds124wfegd/imgaug/internal/pkg/augment"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "IMGAUG"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Augment   AugmentConfig   `mapstructure:"augment"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	AppVersion      string        `mapstructure:"appVersion"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Timeout         time.Duration `mapstructure:"timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	Env             string        `mapstructure:"environment"`
	Mode            string        `mapstructure:"mode"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	GroupID      string        `mapstructure:"group_id"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ProcessorConfig struct {
	// Workers is the number of goroutines rendering the images of one job.
	Workers int `mapstructure:"workers"`
	// MaxConcurrent bounds the jobs the consumer runs at once.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	MaxCount      int `mapstructure:"max_count"`
}

// AugmentConfig carries the default augmentation options and output policy.
type AugmentConfig struct {
	RotationRange    float64 `mapstructure:"rotation_range"`
	WidthShiftRange  float64 `mapstructure:"width_shift_range"`
	HeightShiftRange float64 `mapstructure:"height_shift_range"`
	ShearRange       float64 `mapstructure:"shear_range"`
	ZoomRange        float64 `mapstructure:"zoom_range"`
	HorizontalFlip   bool    `mapstructure:"horizontal_flip"`
	FillMode         string  `mapstructure:"fill_mode"`
	OutputDir        string  `mapstructure:"output_dir"`
	Format           string  `mapstructure:"format"`
	TargetWidth      int     `mapstructure:"target_width"`
	TargetHeight     int     `mapstructure:"target_height"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ToAugment converts the file/env/flag representation into an engine config and checks it.
func (a AugmentConfig) ToAugment() (augment.Config, error) {
	mode, err := augment.ParseFillMode(a.FillMode)
	if err != nil {
		return augment.Config{}, err
	}
	cfg := augment.Config{
		RotationRange:    a.RotationRange,
		WidthShiftRange:  a.WidthShiftRange,
		HeightShiftRange: a.HeightShiftRange,
		ShearRange:       a.ShearRange,
		ZoomRange:        a.ZoomRange,
		HorizontalFlip:   a.HorizontalFlip,
		FillMode:         mode,
	}
	return cfg, cfg.Validate()
}

func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LoadConfig reads config/config.yaml (or ./config.yaml) when present and layers
// IMGAUG_* environment variables and defaults underneath.
func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()
	SetDefaults(viperInstance)

	viperInstance.AddConfigPath("./config")
	viperInstance.AddConfigPath(".")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		viperInstance.SetConfigFile(path)
	}

	err := viperInstance.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode config into struct")
	}
	if _, err := c.Augment.ToAugment(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetDefaults registers every key so env overrides work without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.appVersion", "1.0.0")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("storage.base_path", "./storage")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "image-augmentation")
	v.SetDefault("kafka.group_id", "image-augmentation-service")
	v.SetDefault("kafka.dial_timeout", 10*time.Second)
	v.SetDefault("kafka.write_timeout", 10*time.Second)

	v.SetDefault("processor.workers", 4)
	v.SetDefault("processor.max_concurrent", 2)
	v.SetDefault("processor.max_count", 100)

	def := augment.DefaultConfig()
	v.SetDefault("augment.rotation_range", def.RotationRange)
	v.SetDefault("augment.width_shift_range", def.WidthShiftRange)
	v.SetDefault("augment.height_shift_range", def.HeightShiftRange)
	v.SetDefault("augment.shear_range", def.ShearRange)
	v.SetDefault("augment.zoom_range", def.ZoomRange)
	v.SetDefault("augment.horizontal_flip", def.HorizontalFlip)
	v.SetDefault("augment.fill_mode", def.FillMode.String())
	v.SetDefault("augment.output_dir", "augmented_images")
	v.SetDefault("augment.format", "jpg")
	v.SetDefault("augment.target_width", 0)
	v.SetDefault("augment.target_height", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
