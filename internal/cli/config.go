// Config loading for the tally CLI.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TALLY"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyStorageKey    = "storage_key"
	cfgKeyLegacyKeys    = "legacy_keys"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyBatchSize     = "batch_size"
	cfgKeyBatchInterval = "batch_interval"
	cfgKeyLogLevel      = "log_level"
	cfgKeyLogFile       = "log_file"

	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend       string   `yaml:"backend"`
	DataDir       string   `yaml:"data_dir,omitempty"`
	StorageKey    string   `yaml:"storage_key"`
	LegacyKeys    []string `yaml:"legacy_keys"`
	SyncStrategy  string   `yaml:"sync_strategy"`
	BatchSize     int      `yaml:"batch_size"`
	BatchInterval int      `yaml:"batch_interval"`
	LogLevel      string   `yaml:"log_level"`
	LogFile       string   `yaml:"log_file,omitempty"`
}

const configHeader = "# tally configuration\n# Environment variables TALLY_<KEY> override these values.\n\n"

func defaultConfigFile() configFile {
	return configFile{
		Backend:       types.BackendSQLite,
		StorageKey:    tally.DefaultStorageKey,
		LegacyKeys:    tally.DefaultLegacyKeys,
		SyncStrategy:  types.SyncImmediate,
		BatchSize:     types.DefaultBatchSize,
		BatchInterval: types.DefaultBatchInterval,
		LogLevel:      defaultLogLevel,
	}
}

// settings is the effective configuration after flags, config.yaml and
// environment are merged.
type settings struct {
	ConfigDir  string
	Backend    string
	DataDir    string
	StorageKey string
	LegacyKeys []string
	SQLite     types.SQLiteConfig
	LogLevel   string
	LogFile    string
}

// storeConfig is the Config handed to Store.Attach.
func (s settings) storeConfig() types.Config {
	return types.Config{
		Backend:      s.Backend,
		DataDir:      s.DataDir,
		SQLiteConfig: s.SQLite,
	}
}

// loadSettings resolves directories and reads config.yaml into a.cfg.
func (a *app) loadSettings() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysErr("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysErr("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysErr("resolve data dir: %w", err)
	}

	a.cfg = settings{
		ConfigDir:  configDir,
		Backend:    v.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		StorageKey: v.GetString(cfgKeyStorageKey),
		LegacyKeys: v.GetStringSlice(cfgKeyLegacyKeys),
		SQLite: types.SQLiteConfig{
			SyncStrategy:  v.GetString(cfgKeySyncStrategy),
			BatchSize:     v.GetInt(cfgKeyBatchSize),
			BatchInterval: v.GetInt(cfgKeyBatchInterval),
		},
		LogLevel: v.GetString(cfgKeyLogLevel),
		LogFile:  paths.ResolveLogFile(v.GetString(cfgKeyLogFile), dataDir),
	}
	if err := a.cfg.storeConfig().Validate(); err != nil {
		return userErr("invalid configuration in %s: %w", filepath.Join(configDir, configFileExt), err)
	}
	return nil
}

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyStorageKey, def.StorageKey)
	v.SetDefault(cfgKeyLegacyKeys, def.LegacyKeys)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyBatchSize, def.BatchSize)
	v.SetDefault(cfgKeyBatchInterval, def.BatchInterval)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	def := defaultConfigFile()
	data, err := yaml.Marshal(&def)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
