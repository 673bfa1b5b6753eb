// Package config loads the mrzscan command configuration from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"

	"github.com/tsawler/mrzscan/correct"
	"github.com/tsawler/mrzscan/internal/imaging"
)

// ErrInvalidConfig is returned when a setting fails to parse or validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultEnvFile is read when it exists and no other file is named.
const DefaultEnvFile = ".env"

// Config holds the command settings. Each field is read from the
// environment variable named by its env tag.
type Config struct {
	Budget    int     `env:"MRZSCAN_BUDGET" validate:"gte=0,lte=100000"`
	Output    string  `env:"MRZSCAN_OUTPUT" validate:"oneof=text json csv"`
	Language  string  `env:"MRZSCAN_LANG" validate:"required"`
	Band      float64 `env:"MRZSCAN_BAND" validate:"gte=0,lte=1"`
	MinHeight int     `env:"MRZSCAN_MIN_HEIGHT" validate:"gte=0,lte=10000"`
	LogLevel  string  `env:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error off disabled"`
	LogFormat string  `env:"LOG_FORMAT" validate:"oneof=console json"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Budget:    correct.DefaultBudget,
		Output:    "text",
		Language:  "eng",
		Band:      0,
		MinHeight: imaging.DefaultMinHeight,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads envFile into the process environment, then builds the
// configuration from the environment on top of the defaults. Variables
// already set take precedence over the file. An empty envFile reads
// DefaultEnvFile if it exists.
func Load(envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.fromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// fromEnv overwrites every field whose variable is set and not empty.
func (c *Config) fromEnv() error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("env")
		raw, ok := os.LookupEnv(key)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}

		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.ToLower(raw))
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw)
			}
			f.SetInt(int64(n))
		case reflect.Float64:
			x, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, raw)
			}
			f.SetFloat(x)
		}
	}
	return nil
}

// Validate checks every field against its validate tag.
func (c Config) Validate() error {
	v, trans := newValidator()

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fe.Translate(trans)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// newValidator returns a validator that names fields by their variable and
// translates messages to English.
func newValidator() (*validator.Validate, ut.Translator) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag := fld.Tag.Get("env"); tag != "" {
			return tag
		}
		return fld.Name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return v, trans
}
