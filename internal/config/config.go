package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	SessionSecret string
	MasterSecret  string
	DataDir       string
	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		MasterSecret:  os.Getenv("MASTER_SECRET"),
		DataDir:       os.Getenv("DATA_DIR"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.MasterSecret == "" {
		log.Fatal("MASTER_SECRET is not set")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
		log.Println("ADMIN_PASSWORD is not set, using the default; change it after first login")
	}

	return cfg
}

// UsersFile is the path of the encrypted account file.
func (c *Config) UsersFile() string {
	return filepath.Join(c.DataDir, "users.enc")
}

// NumbersFile is the path of the phone number list.
func (c *Config) NumbersFile() string {
	return filepath.Join(c.DataDir, "numbers.json")
}
