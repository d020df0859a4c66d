package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env-default:"local"`
	DSN       string          `yaml:"dsn" env-required:"true"`
	HTTP      HTTPConfig      `yaml:"http"`
	Media     MediaConfig     `yaml:"media"`
	Redis     RedisConf       `yaml:"redis"`
	Racefacer RacefacerConfig `yaml:"racefacer"`
	Admin     AdminConfig     `yaml:"admin"`
}

type HTTPConfig struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port" env-default:"8080"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
}

// MediaConfig выбирает медиахранилище: minio, либо локальный каталог
type MediaConfig struct {
	Backend string           `yaml:"backend" env-default:"minio"`
	Minio   MinioConfig      `yaml:"minio"`
	Local   LocalMediaConfig `yaml:"local"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env-default:"gallery"`
	UseSSL    bool   `yaml:"use_ssl" env-default:"false"`
}

type LocalMediaConfig struct {
	BaseDir string `yaml:"base_dir"`
	BaseURL string `yaml:"base_url"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redispassword"`
	RedisDB       int    `yaml:"redis_db"`
}

type RacefacerConfig struct {
	BaseURL  string        `yaml:"base_url"`
	TrackID  int           `yaml:"track_id"`
	UserID   string        `yaml:"user_id"`
	Email    string        `yaml:"email" env:"RACEFACER_EMAIL"`
	Password string        `yaml:"password" env:"RACEFACER_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout" env-default:"15s"`
}

type AdminConfig struct {
	Username     string `yaml:"username" env-default:"admin"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH" env-required:"true"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
