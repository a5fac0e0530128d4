package config

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5" validate:"min=1"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" mod:"trim" validate:"required"`

	// InpxFilePath is the INPX index to import.
	InpxFilePath string `koanf:"inpx_file_path" mod:"trim"`
	// LibraryDirectory holds the bundle archives referenced by the index.
	LibraryDirectory string   `koanf:"library_directory" mod:"trim"`
	ImportLanguages  []string `koanf:"import_languages" default:"[\"ru\"]" mod:"dive,trim,lcase" validate:"min=1,dive,required"`
	// GenreNamesFilePath is an optional tab-separated list of genre display
	// names loaded after every import.
	GenreNamesFilePath string `koanf:"genre_names_file_path" mod:"trim"`
	// WatchDebounce is how long the index has to stay unchanged before watch
	// mode re-imports it.
	WatchDebounce time.Duration `koanf:"watch_debounce" default:"2s"`

	ExtractDirectory string `koanf:"extract_directory" mod:"trim"`
	ExtractTemplate  string `koanf:"extract_template" default:"filename" mod:"trim" validate:"oneof=filename title-series authordir-title-series"`
	ExtractPackZip   bool   `koanf:"extract_pack_zip"`

	ServerHost string `koanf:"server_host" default:"127.0.0.1"`
	ServerPort int    `koanf:"server_port" default:"3690" validate:"min=0,max=65535"`
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"

	defaultConfigFile = "./config.yaml"
)

func New() (*Config, error) {
	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	// Environment variables override the file, e.g. DATABASE_FILE_PATH sets
	// database_file_path.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if os.Getenv(environmentENV) == "development" {
		loadDevelopmentConfig(cfg)
	}

	if err := modifiers.New().Struct(context.Background(), cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	fe := verrs[0]
	key := strings.SplitN(fe.Namespace(), ".", 2)[1]
	key = strings.SplitN(key, "[", 2)[0]
	envName := strings.ToUpper(key)
	switch fe.Tag() {
	case "required":
		return errors.Errorf("missing required config: set %s or %s in the config file", envName, key)
	case "oneof":
		return errors.Errorf("invalid config %s: %q must be one of %s", key, fmt.Sprint(fe.Value()), fe.Param())
	default:
		return errors.Errorf("invalid config %s: failed %q check", key, fe.Tag())
	}
}
