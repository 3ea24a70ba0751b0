package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

// Conf is the application-wide configuration. It is set once by NewConfig.
var Conf *Config

type (
	Config struct {
		Env             string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		Build           string
		WorkDir         string
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string

		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugAddr          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration

		// Working sessions end at a fixed wall-clock cutover regardless of
		// when they started; see user.NextSessionCutover.
		SessionCutoverHour     int
		SessionCutoverTZOffset time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	StorageConfig struct {
		Bucket    string
		CDNDomain string
		LocalDir  string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Hamasa")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#o2x)x@vao0xkqt+9$cu=wyhph!mdr0o&-dsx4#yn$@1*(d&d")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":4000")
	v.SetDefault("jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("sessionCutoverHour", 15)
	v.SetDefault("sessionCutoverTZOffset", 330*time.Minute) // UTC+5:30
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "hamasa")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbUser", "hamasa")
	v.SetDefault("dbPassword", "hamasa")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("storageBucket", "")
	v.SetDefault("storageLocalDir", "var/submission-assets")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		Build:            v.GetString("build"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:                   v.GetString("serverHost"),
			Addr:                   v.GetString("serverAddr"),
			DebugAddr:              v.GetString("serverDebugAddr"),
			JWTExpirationDelta:     v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:        v.GetDuration("shutdownTimeout"),
			SessionCutoverHour:     v.GetInt("sessionCutoverHour"),
			SessionCutoverTZOffset: v.GetDuration("sessionCutoverTZOffset"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Storage: StorageConfig{
			Bucket:    v.GetString("storageBucket"),
			CDNDomain: v.GetString("storageCDNDomain"),
			LocalDir:  v.GetString("storageLocalDir"),
		},
	}

	if err := conf.validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	Conf = conf
	return conf
}

func (conf *Config) validate() error {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.AppName, "appName"),
		vala.StringNotEmpty(conf.SecretKey, "secretKey"),
		vala.StringNotEmpty(conf.Server.Addr, "serverAddr"),
		vala.StringNotEmpty(conf.Database.Engine, "dbEngine"),
		vala.StringNotEmpty(conf.Database.Name, "dbName"),
		vala.GreaterThan(conf.Server.SessionCutoverHour, -1, "sessionCutoverHour"),
	).Check()
	if err != nil {
		return err
	}
	if conf.Server.SessionCutoverHour > 23 {
		return fmt.Errorf("sessionCutoverHour must be a valid hour (got %d)", conf.Server.SessionCutoverHour)
	}
	if !conf.Debug && conf.SendgridApiKey == "" {
		return fmt.Errorf("sendgridApiKey is required when debug is off")
	}
	return nil
}

func (conf *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
}

func (conf *DatabaseConfig) Address() string {
	return net.JoinHostPort(conf.Host, conf.Port)
}
