package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the application configuration. It is loaded once at package
// init from defaults, an optional .env file and the environment.
var Conf *Config

type (
	Config struct {
		Debug      bool
		TestMode   bool
		Env        string
		AppName    string
		SchoolName string
		SecretKey  string
		WorkDir    string

		// DataDir is where the local fallback store keeps its collections.
		DataDir string

		SendgridApiKey   string
		RollbarToken     string
		OfficeEmail      string
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}
)

// IsConfigured reports whether remote database credentials were supplied.
// The storage backend is selected once at startup based on this.
func (c DatabaseConfig) IsConfigured() bool {
	return c.Host != "" && c.Name != "" && c.User != ""
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "SarvodayaFMS")
	v.SetDefault("schoolName", "SARVODAYA HIGHER SECONDARY SCHOOL")
	v.SetDefault("secretKey", "z#mq9$t(7e&2y^_p@4vj!x0d8s5k%wngb1ufc6rhl3oa*i+=")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("officeEmail", "")
	v.SetDefault("dataDir", filepath.Join(".", "data"))
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	wd, _ := os.Getwd()
	Conf = &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		AppName:          v.GetString("appName"),
		SchoolName:       v.GetString("schoolName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		DataDir:          v.GetString("dataDir"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		OfficeEmail:      v.GetString("officeEmail"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("dbEngine"),
			Host:       v.GetString("dbHost"),
			Port:       v.GetString("dbPort"),
			Name:       v.GetString("dbName"),
			User:       v.GetString("dbUser"),
			Password:   v.GetString("dbPassword"),
			DisableTLS: v.GetBool("dbDisableTLS"),
		},
	}
}
