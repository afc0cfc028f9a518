// Package config assembles slovo's settings from a YAML file, a .env file
// and SLOVO_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/slovo/internal/corpus"
	"github.com/abhisek/slovo/internal/explain"
	"github.com/abhisek/slovo/internal/llm"
	"github.com/abhisek/slovo/internal/store"
)

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "slovo.yaml"

// Config is the full application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Corpus   corpus.Paths   `yaml:"corpus"`
	LLM      llm.Config     `yaml:"llm"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Log      LogConfig      `yaml:"log"`
}

// TelegramConfig holds bot transport settings.
type TelegramConfig struct {
	Token string `yaml:"token"`
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int  `yaml:"poll_timeout"`
	Debug       bool `yaml:"debug"`
}

// StorageConfig selects the database.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	// DSN is a file path for sqlite and a connection URL for postgres.
	// Empty sqlite DSN means store.DefaultDBPath.
	DSN string `yaml:"dsn"`
}

// QuizConfig tunes the dialogue and the question generators.
type QuizConfig struct {
	MaxQuestions   int           `yaml:"max_questions"`
	ExplainTimeout time.Duration `yaml:"explain_timeout"`
	Persona        string        `yaml:"persona"`
	NumberFallback bool          `yaml:"number_fallback"`
	// Examples enables AI example sentences under stress questions.
	Examples bool `yaml:"examples"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{PollTimeout: 30},
		Storage:  StorageConfig{Driver: store.DriverSQLite},
		Corpus: corpus.Paths{
			Stress:    "data/stress.txt",
			WordForms: "data/word_forms.json",
			Treebank:  "data/uk_iu-ud-train.conllu",
		},
		LLM: llm.DefaultConfig(),
		Quiz: QuizConfig{
			MaxQuestions:   50,
			ExplainTimeout: 15 * time.Second,
			Persona:        string(explain.Shevchenko),
			NumberFallback: true,
			Examples:       true,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config. path may be empty, in which case DefaultFile is
// used if present. envFile is loaded into the process environment when it
// exists; variables already set are not overwritten.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	llm.ApplyEnv(&cfg.LLM)
	if cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = os.Getenv("CHATGPT_API_KEY")
	}
	llm.Discover(&cfg.LLM)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	str(&c.Telegram.Token, "SLOVO_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN", "TELOXIDE_TOKEN")
	str(&c.Storage.Driver, "SLOVO_DB_DRIVER")
	str(&c.Storage.DSN, "SLOVO_DB_DSN")
	str(&c.Corpus.Stress, "SLOVO_CORPUS_STRESS")
	str(&c.Corpus.WordForms, "SLOVO_CORPUS_WORD_FORMS")
	str(&c.Corpus.Treebank, "SLOVO_CORPUS_TREEBANK")
	str(&c.Quiz.Persona, "SLOVO_PERSONA")
	str(&c.Log.Level, "SLOVO_LOG_LEVEL")
	str(&c.Log.Format, "SLOVO_LOG_FORMAT")

	if v := os.Getenv("SLOVO_MAX_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLOVO_MAX_QUESTIONS: %w", err)
		}
		c.Quiz.MaxQuestions = n
	}
	if v := os.Getenv("SLOVO_EXPLAIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SLOVO_EXPLAIN_TIMEOUT: %w", err)
		}
		c.Quiz.ExplainTimeout = d
	}
	if v := os.Getenv("SLOVO_EXAMPLES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SLOVO_EXAMPLES: %w", err)
		}
		c.Quiz.Examples = b
	}
	return nil
}

// Validate checks settings every command relies on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if c.Storage.Driver == store.DriverPostgres && c.Storage.DSN == "" {
		errs = append(errs, errors.New("storage.dsn is required for postgres"))
	}
	if c.Quiz.MaxQuestions <= 0 {
		errs = append(errs, fmt.Errorf("quiz.max_questions must be positive, got %d", c.Quiz.MaxQuestions))
	}
	if c.Quiz.ExplainTimeout <= 0 {
		errs = append(errs, errors.New("quiz.explain_timeout must be positive"))
	}
	if _, err := explain.ParsePersona(c.Quiz.Persona); err != nil {
		errs = append(errs, fmt.Errorf("quiz.persona: %w", err))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format: want text or json, got %q", f))
	}
	return errors.Join(errs...)
}

// ValidateBot additionally requires what the Telegram bot needs.
func (c *Config) ValidateBot() error {
	err := c.Validate()
	if c.Telegram.Token == "" {
		err = errors.Join(err, errors.New("telegram token is required (SLOVO_TELEGRAM_TOKEN)"))
	}
	return err
}

// DSN resolves the storage DSN, defaulting sqlite to store.DefaultDBPath.
func (c *Config) DSN() (string, error) {
	switch {
	case c.Storage.Driver == store.DriverPostgres:
		return c.Storage.DSN, nil
	case c.Storage.DSN == "":
		return store.DefaultDBPath()
	case c.Storage.DSN == ":memory:":
		return c.Storage.DSN, nil
	}
	return c.Storage.DSN, store.EnsureDir(c.Storage.DSN)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds a logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	lvl, err := l.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
