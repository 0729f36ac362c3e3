package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"threadpool/internal/events"
	"threadpool/internal/logger"
	"threadpool/internal/metrics"
	"threadpool/internal/worker"
)

const defaultNamespace = "threadpool"

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// PoolConfig はワーカープール設定
type PoolConfig struct {
	Workers        int  `yaml:"workers" json:"workers" validate:"gt=0"`
	RespawnOnPanic bool `yaml:"respawn_on_panic" json:"respawn_on_panic"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,log_level"`
}

// MetricsConfig はメトリクス設定
type MetricsConfig struct {
	Namespace      string `yaml:"namespace" json:"namespace"`
	Addr           string `yaml:"addr" json:"addr" validate:"omitempty,listen_addr"`
	LatencySamples int    `yaml:"latency_samples" json:"latency_samples" validate:"gte=0"`
}

// Default はファイルを使わない場合の設定を返す
func Default() *FileConfig {
	return &FileConfig{
		Pool:    PoolConfig{Workers: runtime.NumCPU()},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Namespace: defaultNamespace},
	}
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// エラーメッセージに設定ファイル上のキー名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
		_, err := logger.ParseLevel(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		_, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(port)
		return err == nil && n >= 0 && n <= 65535
	})

	return v
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "FileConfig.")
		msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' tag (value: %v)", field, fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LogLevel はログレベルを返す
func (f *FileConfig) LogLevel() (logger.Level, error) {
	return logger.ParseLevel(f.Log.Level)
}

// Namespace はPrometheusのネームスペースを返す
func (f *FileConfig) Namespace() string {
	if f.Metrics.Namespace == "" {
		return defaultNamespace
	}
	return f.Metrics.Namespace
}

// ToMetricsConfig はFileConfigをmetrics.Configに変換する
func (f *FileConfig) ToMetricsConfig() metrics.Config {
	config := metrics.DefaultConfig()
	if f.Metrics.LatencySamples > 0 {
		config.MaxLatencySamples = f.Metrics.LatencySamples
	}
	return config
}

// ToPoolConfig はFileConfigをworker.PoolConfigに変換する
// ワーカー数の検証は Validate と worker.NewPoolWithConfig の両方で行われる
func (f *FileConfig) ToPoolConfig(log *logger.Logger, m *metrics.Metrics, bus *events.Bus) worker.PoolConfig {
	return worker.PoolConfig{
		NumWorkers:     f.Pool.Workers,
		RespawnOnPanic: f.Pool.RespawnOnPanic,
		Logger:         log,
		Metrics:        m,
		Events:         bus,
	}
}
