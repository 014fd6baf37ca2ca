package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	APIKeys        []string      `yaml:"api_keys"`
	SeedTasks      bool          `yaml:"seed_tasks"`
	ListPageMeta   bool          `yaml:"list_page_meta"` // добавлять pagina/limite в ответ списка
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 - без таймаута
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		APIKeys:        splitList(getEnv("API_KEYS", "demo-key")),
		SeedTasks:      getBool("SEED_TASKS", true),
		ListPageMeta:   getBool("LIST_PAGE_META", false),
		ReadTimeout:    getDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 10*time.Second),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 5*time.Second),
		MaxBodyBytes:   getInt64("MAX_BODY_BYTES", 1<<20),
	}
}

// LoadFile накладывает YAML-файл поверх значений из окружения.
// Ключи, которых нет в файле, остаются как были
func LoadFile(path string) (Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}

func getInt64(key string, def int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
