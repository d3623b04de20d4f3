package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	StaffTokenTTLMin int    `yaml:"staff_token_ttl_minutes"`
}

type SessionsConfig struct {
	OTPWindowMin     int `yaml:"otp_window_minutes"`
	SessionWindowMin int `yaml:"session_window_minutes"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Files    FilesConfig    `yaml:"files"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Sessions SessionsConfig `yaml:"sessions"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// LoadConfig reads config/config.yaml with ${VAR} references expanded from
// the environment (a local .env is loaded first when present, so secrets
// stay out of the yaml).
func LoadConfig() *Config {
	_ = godotenv.Load()

	raw, err := os.ReadFile("config/config.yaml")
	if err != nil {
		panic("Failed to read config.yaml: " + err.Error())
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Files.FontPath == "" {
		cfg.Files.FontPath = "assets/fonts/DejaVuSans.ttf"
	}
	if cfg.Sessions.OTPWindowMin == 0 {
		cfg.Sessions.OTPWindowMin = 70
	}
	if cfg.Sessions.SessionWindowMin == 0 {
		cfg.Sessions.SessionWindowMin = 120
	}
	if cfg.Auth.StaffTokenTTLMin == 0 {
		cfg.Auth.StaffTokenTTLMin = 120
	}
	return &cfg
}
