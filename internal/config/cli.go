package config

import (
	"errors"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// CLI holds configuration for hhctl.
type CLI struct {
	DataDir    string
	ExportDir  string
	AnalyzeURL string
	CSRFToken  string
	NtfyURL    string
}

// LoadCLI reads .healing.yaml from HEALING_CONFIG_PATH, the home directory or
// the working directory, overlaid with HEALING_* environment variables.
func LoadCLI() (*CLI, error) {
	v := viper.New()
	v.SetDefault("data_dir", "~/.healing")
	v.SetDefault("export_dir", ".")
	v.SetDefault("analyze_url", "http://127.0.0.1:8000")
	v.SetConfigName(".healing") // .yaml is implicit
	v.SetEnvPrefix("HEALING")
	v.AutomaticEnv()

	if override := os.Getenv("HEALING_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	dataDir, err := homedir.Expand(v.GetString("data_dir"))
	if err != nil {
		return nil, err
	}
	exportDir, err := homedir.Expand(v.GetString("export_dir"))
	if err != nil {
		return nil, err
	}
	return &CLI{
		DataDir:    dataDir,
		ExportDir:  exportDir,
		AnalyzeURL: v.GetString("analyze_url"),
		CSRFToken:  v.GetString("csrf_token"),
		NtfyURL:    v.GetString("ntfy_url"),
	}, nil
}
