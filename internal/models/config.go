package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultMakeDuration  = 150 * time.Second
	DefaultServeDuration = 60 * time.Second
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a libpq style connection string for pgx.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type Config struct {
	MakeDuration  time.Duration `mapstructure:"make_duration"`
	ServeDuration time.Duration `mapstructure:"serve_duration"`
	// StartTime anchors the replay; zero means "now" when the shop opens.
	StartTime time.Time `mapstructure:"start_time"`

	OutputFormat      string             `mapstructure:"output_format"` // console, json, csv, parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // local or s3
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string `mapstructure:"kafka_topic"`

	PostgresEnabled bool           `mapstructure:"postgres_enabled"`
	Database        DatabaseConfig `mapstructure:"database"`

	// simulate command
	Seed   int           `mapstructure:"seed"`
	Orders int           `mapstructure:"orders"`
	MaxGap time.Duration `mapstructure:"max_gap"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("make_duration", DefaultMakeDuration)
	v.SetDefault("serve_duration", DefaultServeDuration)
	v.SetDefault("output_format", "console")
	v.SetDefault("output_folder", "sandwichsim")
	v.SetDefault("output_destination", "local")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_topic", TopicSandwichActions)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("seed", 42)
	v.SetDefault("orders", 10)
	v.SetDefault("max_gap", 5*time.Minute)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// default config file is not an error; an explicit one that can't be read is.
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), cfgFile)
}

func LoadConfigFrom(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sandwichsim")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	if err := ValidateDurations(cfg.MakeDuration, cfg.ServeDuration); err != nil {
		return err
	}
	switch cfg.OutputFormat {
	case "", "console", "json", "csv", "parquet":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
	if cfg.OutputFormat != "" && cfg.OutputFormat != "console" && cfg.OutputPath == "" && cfg.OutputDestination != "s3" {
		return fmt.Errorf("output_path is required for %s output", cfg.OutputFormat)
	}
	return nil
}
