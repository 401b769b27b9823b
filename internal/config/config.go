package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Server   Server   `koanf:"server"`
	Store    Store    `koanf:"store"`
	Database Database `koanf:"db"`
	GitHub   GitHub   `koanf:"github"`
	Redis    Redis    `koanf:"redis"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

// Store selects the key-value backend: "sqlite", "postgres" or "memory".
type Store struct {
	Driver string `koanf:"driver"`
	SQLite SQLite `koanf:"sqlite"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type GitHub struct {
	BaseURL  string        `koanf:"baseurl"`
	Token    string        `koanf:"token"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cachettl"`
}

type Redis struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8181",
		},
		Store: Store{
			Driver: "sqlite",
			SQLite: SQLite{Path: "./data/techtrack.db"},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "techtrack",
			Pass:   "",
			Name:   "techtrack",
			Schema: "techtrack",
		},
		GitHub: GitHub{
			BaseURL:  "https://api.github.com",
			Timeout:  10 * time.Second,
			CacheTTL: 15 * time.Minute,
		},
		Redis: Redis{
			Enabled: false,
			Addr:    "localhost:6379",
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not load .env file: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "TECHTRACK_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "TECHTRACK_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
