package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAuthURL   = "https://auth.tmup.com"
	DefaultEdgeURL   = "https://edge.tmup.com"
	DefaultTokenFile = ".secrets/teamup_tokens.json"
)

// Поддерживаемые хранилища токена.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// ErrCredentialsMissing возвращается, когда не задано одно из полей учётных данных TeamUp.
var ErrCredentialsMissing = errors.New("teamup credentials missing")

// Config агрегирует значения конфигурации из YAML файла и переменных окружения.
type Config struct {
	TeamUp   TeamUpConfig   `yaml:"teamup"`
	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Log      LogConfig      `yaml:"log"`
}

// Credentials содержит учётные данные OAuth клиента и бота TeamUp.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BotUsername  string `yaml:"bot_username"`
	BotPassword  string `yaml:"bot_password"`
}

// TeamUpConfig содержит учётные данные и базовые адреса API.
type TeamUpConfig struct {
	Credentials Credentials `yaml:"credentials"`
	AuthURL     string      `yaml:"auth_url"`
	EdgeURL     string      `yaml:"edge_url"`
}

// StoreConfig выбирает хранилище кэшированного токена.
type StoreConfig struct {
	Kind     string `yaml:"kind"`
	FilePath string `yaml:"file_path"`
}

// PostgresConfig хранит параметры подключения к пулу базы данных.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DB       string `yaml:"db"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// DSN собирает строку подключения для pgx/pgxpool.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// LogConfig задаёт уровень подробности логов.
type LogConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// Load читает переменные окружения и возвращает валидированную Config.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile читает YAML файл (если путь не пуст), накладывает поверх переменные окружения
// и возвращает валидированную Config.
func LoadFile(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		TeamUp: TeamUpConfig{
			AuthURL: DefaultAuthURL,
			EdgeURL: DefaultEdgeURL,
		},
		Store: StoreConfig{
			Kind:     StoreMemory,
			FilePath: DefaultTokenFile,
		},
	}
}

func (c *Config) applyEnv() error {
	creds := &c.TeamUp.Credentials
	override(&creds.ClientID, "TEAMUP_CLIENT_ID")
	override(&creds.ClientSecret, "TEAMUP_CLIENT_SECRET")
	override(&creds.BotUsername, "TEAMUP_BOT_USERNAME")
	override(&creds.BotPassword, "TEAMUP_BOT_PASSWORD")
	override(&c.TeamUp.AuthURL, "TEAMUP_AUTH_URL")
	override(&c.TeamUp.EdgeURL, "TEAMUP_EDGE_URL")

	override(&c.Store.Kind, "TEAMUP_TOKEN_STORE")
	override(&c.Store.FilePath, "TEAMUP_TOKEN_FILE")

	override(&c.Postgres.Host, "POSTGRES_HOST")
	override(&c.Postgres.Port, "POSTGRES_PORT")
	override(&c.Postgres.DB, "POSTGRES_DB")
	override(&c.Postgres.User, "POSTGRES_USER")
	override(&c.Postgres.Password, "POSTGRES_PASSWORD")

	if v := strings.TrimSpace(os.Getenv("TEAMUP_LOG_VERBOSITY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TEAMUP_LOG_VERBOSITY: %w", err)
		}
		c.Log.Verbosity = n
	}

	c.TeamUp.AuthURL = strings.TrimRight(c.TeamUp.AuthURL, "/")
	c.TeamUp.EdgeURL = strings.TrimRight(c.TeamUp.EdgeURL, "/")
	c.Store.Kind = strings.ToLower(c.Store.Kind)

	return nil
}

func override(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	creds := c.TeamUp.Credentials
	if creds.ClientID == "" {
		return fmt.Errorf("%w: требуется TEAMUP_CLIENT_ID", ErrCredentialsMissing)
	}
	if creds.ClientSecret == "" {
		return fmt.Errorf("%w: требуется TEAMUP_CLIENT_SECRET", ErrCredentialsMissing)
	}
	if creds.BotUsername == "" {
		return fmt.Errorf("%w: требуется TEAMUP_BOT_USERNAME", ErrCredentialsMissing)
	}
	if creds.BotPassword == "" {
		return fmt.Errorf("%w: требуется TEAMUP_BOT_PASSWORD", ErrCredentialsMissing)
	}

	if c.TeamUp.AuthURL == "" || c.TeamUp.EdgeURL == "" {
		return fmt.Errorf("требуются TEAMUP_AUTH_URL и TEAMUP_EDGE_URL")
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreFile:
		if strings.TrimSpace(c.Store.FilePath) == "" {
			return fmt.Errorf("требуется TEAMUP_TOKEN_FILE")
		}
	case StorePostgres:
		if c.Postgres.Host == "" {
			return fmt.Errorf("требуется POSTGRES_HOST")
		}
		if c.Postgres.Port == "" {
			return fmt.Errorf("требуется POSTGRES_PORT")
		}
		if c.Postgres.DB == "" {
			return fmt.Errorf("требуется POSTGRES_DB")
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("требуется POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			return fmt.Errorf("требуется POSTGRES_PASSWORD")
		}
	default:
		return fmt.Errorf("неизвестное хранилище токена %q", c.Store.Kind)
	}

	return nil
}
