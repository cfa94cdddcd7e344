package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀，例如 SEQLIST_LIST_BLOCK_SIZE=64
const EnvPrefix = "SEQLIST"

// Config seqlist 命令行工具的配置
//
// 优先级：环境变量 > 配置文件 > 默认值
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	List    ListConfig    `mapstructure:"list" yaml:"list" json:"list"`
	Bench   BenchConfig   `mapstructure:"bench" yaml:"bench" json:"bench"`
	Check   CheckConfig   `mapstructure:"check" yaml:"check" json:"check"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"required,oneof=text json"`
	Output string `mapstructure:"output" yaml:"output" json:"output" validate:"required"`
}

type ListConfig struct {
	// BlockSize 为 0 (或配置为 "auto") 时按元素数取 ceil(sqrt(n))
	BlockSize int `mapstructure:"block_size" yaml:"block_size" json:"block_size" validate:"gte=0"`
	// MaxBlocks 限制同时在用的块数，0 表示不限制
	MaxBlocks int `mapstructure:"max_blocks" yaml:"max_blocks" json:"max_blocks" validate:"gte=0"`
}

type BenchConfig struct {
	Size      int           `mapstructure:"size" yaml:"size" json:"size" validate:"gte=1"`
	Ops       int           `mapstructure:"ops" yaml:"ops" json:"ops" validate:"gte=1"`
	Seed      uint64        `mapstructure:"seed" yaml:"seed" json:"seed"`
	ValueLen  int           `mapstructure:"value_len" yaml:"value_len" json:"value_len" validate:"gte=1,lte=4096"`
	Workloads []string      `mapstructure:"workloads" yaml:"workloads" json:"workloads" validate:"min=1,dive,oneof=append insert remove get set mixed"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"gte=0"`
}

type CheckConfig struct {
	Ops        int    `mapstructure:"ops" yaml:"ops" json:"ops" validate:"gte=1"`
	Seed       uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`
	BlockSizes []int  `mapstructure:"block_sizes" yaml:"block_sizes" json:"block_sizes" validate:"min=1,dive,gte=1"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen" json:"listen" validate:"required_if=Enabled true"`
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults 为零值字段填充默认值，显式配置的值保持不变
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Bench.Size == 0 {
		cfg.Bench.Size = 100000
	}
	if cfg.Bench.Ops == 0 {
		cfg.Bench.Ops = 100000
	}
	if cfg.Bench.Seed == 0 {
		cfg.Bench.Seed = 1
	}
	if cfg.Bench.ValueLen == 0 {
		cfg.Bench.ValueLen = 16
	}
	if len(cfg.Bench.Workloads) == 0 {
		cfg.Bench.Workloads = []string{"append", "insert", "get", "set", "remove", "mixed"}
	}

	if cfg.Check.Ops == 0 {
		cfg.Check.Ops = 20000
	}
	if cfg.Check.Seed == 0 {
		cfg.Check.Seed = 1
	}
	if len(cfg.Check.BlockSizes) == 0 {
		cfg.Check.BlockSizes = []int{1, 2, 3, 4, 8, 32}
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9464"
	}
}

// Validate 校验配置
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load 从配置文件、环境变量与默认值加载配置
// configPath 为空时使用默认位置；文件不存在时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)
	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save 以 YAML 格式写出配置
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath 返回 $XDG_CONFIG_HOME/seqlist/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "seqlist", "config.yaml")
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv 只对已知的 key 生效
	registerKeys(v, "", reflect.TypeOf(Config{}))

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(filepath.Dir(DefaultPath()))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func registerKeys(v *viper.Viper, prefix string, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")
		if prefix != "" {
			key = prefix + "." + key
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			registerKeys(v, key, f.Type)
			continue
		}
		v.SetDefault(key, nil)
	}
}

// readConfigFile 读取配置文件，文件不存在不算错误
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		autoSizeDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// autoSizeDecodeHook 把整数字段上的 "auto" 解析为 0
func autoSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Int {
			return data, nil
		}
		if s, ok := data.(string); ok && strings.EqualFold(strings.TrimSpace(s), "auto") {
			return 0, nil
		}
		return data, nil
	}
}
