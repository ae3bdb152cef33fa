package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port      int            `mapstructure:"port"`
	Env       string         `mapstructure:"env"`
	Pepper    string         `mapstructure:"pepper"`
	HMACKey   string         `mapstructure:"hmac_key"`
	CSRFKey   string         `mapstructure:"csrf_key"`
	ClientURL string         `mapstructure:"client_url"`
	Database  PostgresConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Github    GithubConfig   `mapstructure:"github"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GithubConfig struct {
	ID          string `mapstructure:"id"`
	Secret      string `mapstructure:"secret"`
	RedirectURL string `mapstructure:"redirect_url"`
}

// LoadConfig reads a config.json file if one is present, applies environment
// variable overrides (CHIRP_DATABASE_HOST and the like) on top, and falls back
// to the default dev setup otherwise. In production the file is required and
// the app refuses to start without it.
func LoadConfig(prod bool) Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("port", 1111)
	v.SetDefault("env", "dev")
	v.SetDefault("pepper", "secret-random-string")
	v.SetDefault("hmac_key", "secret-hmac-key")
	v.SetDefault("csrf_key", "32-byte-long-auth-key-change-me!")
	v.SetDefault("client_url", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "chirp")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("github.id", "")
	v.SetDefault("github.secret", "")
	v.SetDefault("github.redirect_url", "http://localhost:1111/oauth/github/callback")

	v.SetEnvPrefix("chirp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if prod {
			panic("a config.json file is required in production: " + err.Error())
		}
	} else {
		log.Println("successfully loaded config.json")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	if prod {
		c.Env = "prod"
	}
	return c
}
