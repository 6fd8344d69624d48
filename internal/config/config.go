package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultTimeout  = 60 * time.Second
	defaultLogLevel = "info"
	defaultLogFile  = "honeypot-console.log"
)

// Config 聚合控制台的全部配置项。
type Config struct {
	Backend BackendConfig
	Log     LogConfig
	UI      UIConfig
}

// BackendConfig 描述分析后端的访问方式。
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig 描述日志输出。File 为 "-" 时写到 stderr。
type LogConfig struct {
	Level string
	File  string
}

// UIConfig 描述终端界面选项。
type UIConfig struct {
	NoColor     bool
	SkipConfirm bool
}

// Default 返回未经任何覆盖的默认配置。
func Default() Config {
	return Config{
		Backend: BackendConfig{BaseURL: defaultBaseURL, Timeout: defaultTimeout},
		Log:     LogConfig{Level: defaultLogLevel, File: defaultLogFile},
	}
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile 先读取可选的 YAML 文件，再用环境变量覆盖。path 为空时只读环境变量。
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	backend, err := loadBackendConfig(cfg.Backend)
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig(cfg.Log)
	if err != nil {
		return nil, err
	}

	ui, err := loadUIConfig(cfg.UI)
	if err != nil {
		return nil, err
	}

	return &Config{Backend: backend, Log: logCfg, UI: ui}, nil
}

type fileConfig struct {
	Backend struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"backend"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	UI struct {
		NoColor     *bool `yaml:"no_color"`
		SkipConfirm *bool `yaml:"skip_confirm"`
	} `yaml:"ui"`
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if v := strings.TrimSpace(file.Backend.BaseURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(file.Backend.Timeout); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid backend.timeout value %q: %w", v, err)
		}
		cfg.Backend.Timeout = timeout
	}
	if v := strings.TrimSpace(file.Log.Level); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(file.Log.File); v != "" {
		cfg.Log.File = v
	}
	if file.UI.NoColor != nil {
		cfg.UI.NoColor = *file.UI.NoColor
	}
	if file.UI.SkipConfirm != nil {
		cfg.UI.SkipConfirm = *file.UI.SkipConfirm
	}
	return nil
}

// loadBackendConfig 解析后端地址与超时。
func loadBackendConfig(base BackendConfig) (BackendConfig, error) {
	baseURL := getEnvOrDefault("HONEYPOT_BASE_URL", base.BaseURL)
	if strings.Contains(baseURL, " ") {
		return BackendConfig{}, fmt.Errorf("invalid HONEYPOT_BASE_URL value: %q", baseURL)
	}

	timeout := base.Timeout
	if raw := strings.TrimSpace(os.Getenv("HONEYPOT_TIMEOUT")); raw != "" {
		parsed, err := parseTimeout(raw)
		if err != nil {
			return BackendConfig{}, fmt.Errorf("invalid HONEYPOT_TIMEOUT value %q: %w", raw, err)
		}
		timeout = parsed
	}

	return BackendConfig{BaseURL: baseURL, Timeout: timeout}, nil
}

func loadLogConfig(base LogConfig) (LogConfig, error) {
	level := strings.ToLower(getEnvOrDefault("HONEYPOT_LOG_LEVEL", base.Level))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid HONEYPOT_LOG_LEVEL value %q", level)
	}

	return LogConfig{
		Level: level,
		File:  getEnvOrDefault("HONEYPOT_LOG_FILE", base.File),
	}, nil
}

func loadUIConfig(base UIConfig) (UIConfig, error) {
	// NO_COLOR 约定：只要设置了非空值就关闭颜色。
	noColor := base.NoColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != ""

	skip, err := parseBoolEnv("HONEYPOT_SKIP_CONFIRM", base.SkipConfirm)
	if err != nil {
		return UIConfig{}, err
	}

	return UIConfig{NoColor: noColor, SkipConfirm: skip}, nil
}

// parseTimeout 接受 Go duration（"30s"）或纯秒数（"30"）。
func parseTimeout(raw string) (time.Duration, error) {
	if seconds, err := parseOptionalInt(raw); err == nil && seconds != nil {
		if *seconds < 0 {
			return 0, errors.New("timeout must not be negative")
		}
		return time.Duration(*seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("timeout must not be negative")
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalInt(raw string) (*int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &val, nil
}
