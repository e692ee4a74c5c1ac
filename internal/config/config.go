package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServiceConfig is one entry in the configured list of git services.
type ServiceConfig struct {
	Type  string   `yaml:"type"`
	Repos []string `yaml:"repos"`
	Token string   `yaml:"token"`
	Host  string   `yaml:"host"`
}

// Arguments holds the query and output defaults; CLI flags override them.
type Arguments struct {
	State           string   `yaml:"state"`
	Value           *int     `yaml:"value"`
	Duration        string   `yaml:"duration"`
	Format          string   `yaml:"format"`
	Reverse         bool     `yaml:"reverse"`
	CommentSort     bool     `yaml:"comment_sort"`
	ShowLastComment *int     `yaml:"show_last_comment"`
	Email           []string `yaml:"email"`
	IRC             []string `yaml:"irc"`
	SSLVerify       *bool    `yaml:"ssl_verify"`
}

// Config represents the application configuration
type Config struct {
	GitServices []ServiceConfig `yaml:"git_services"`
	Arguments   Arguments       `yaml:"arguments"`
	Mailer      struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Sender   string `yaml:"sender"`
	} `yaml:"mailer"`
	IRC struct {
		Server string `yaml:"server"`
		Port   int    `yaml:"port"`
		Nick   string `yaml:"nick"`
	} `yaml:"irc"`
	Log struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	// Trim stray whitespace from tokens before they become auth headers.
	for i := range config.GitServices {
		config.GitServices[i].Token = strings.TrimSpace(config.GitServices[i].Token)
	}
	config.Mailer.User = strings.TrimSpace(config.Mailer.User)
	config.Mailer.Password = strings.TrimSpace(config.Mailer.Password)

	return &config, nil
}
