package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/nconklindev/dateline/internal/logger"
	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/workbook"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DATELINE_ORDER_CUSTOMER_ID.
const EnvPrefix = "DATELINE"

// Config holds all configuration for the application.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Schedule holds settings for decoding the schedule export.
	Schedule workbook.Config `mapstructure:"schedule"`
	// Dates controls how textual dates are read.
	Dates normalize.DatesConfig `mapstructure:"dates"`
	// Order holds settings for normalizing the order export.
	Order normalize.Config `mapstructure:"order"`
	// Output holds settings for the produced workbook.
	Output workbook.OutputConfig `mapstructure:"output"`
}

// LoadConfig loads configuration from environment variables and a .env file in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DATELINE_OUTPUT_DIR -> output.dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every mapstructure key with its 'default' tag so that
// AutomaticEnv can see nested keys.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
