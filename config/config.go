package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ResolverAPI  = "api"
	ResolverPage = "page"
)

var (
	ErrConfig = errors.New("invalid configuration")

	envFile = ".env"
)

// DefaultChannels are collected when the configuration lists none.
var DefaultChannels = []string{
	"krishnaik06", "sentdex", "andreaskayy", "DataProfessor", "statquest", "dataschool",
	"RVideoTutorials", "DataScienceAcademy", "KenJee_ds", "GregHogg", "Thuvu5", "emma_ding", "SundasKhalid",
}

type Config struct {
	APIKey       string    `yaml:"api_key" validate:"required"`
	DataFolder   string    `yaml:"data_folder" validate:"required"`
	FileName     string    `yaml:"file_name" validate:"required"`
	ChannelsFile string    `yaml:"channels_file"`
	Channels     []string  `yaml:"channels" validate:"dive,required"`
	Resolver     string    `yaml:"resolver" validate:"oneof=api page"`
	Workers      int       `yaml:"workers" validate:"gte=1,lte=16"`
	Postgres     *Postgres `yaml:"postgres"`
	Miniflux     *Miniflux `yaml:"miniflux"`
}

type Postgres struct {
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required"`
}

type Miniflux struct {
	Endpoint string `yaml:"endpoint" validate:"required,url"`
	ApiKey   string `yaml:"api_key" validate:"required"`
}

// Load reads the YAML file at path. Variables from a .env file in the
// working directory are loaded first, YOUTUBE_API_KEY overrides api_key.
func Load(path string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: load %s: %v", ErrConfig, envFile, err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return Parse(body)
}

func Parse(body []byte) (Config, error) {
	conf := Config{
		Resolver: ResolverAPI,
		Workers:  1,
	}
	if err := yaml.Unmarshal(body, &conf); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if key, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok && key != "" {
		conf.APIKey = key
	}
	if len(conf.Channels) == 0 {
		conf.Channels = append([]string{}, DefaultChannels...)
	}
	if conf.Postgres != nil && conf.Postgres.Port == "" {
		conf.Postgres.Port = "5432"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(conf); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return conf, nil
}
