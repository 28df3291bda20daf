package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/mindeducation/internal/common"
)

// Config holds runtime settings for the Mindeducation client.
//
// Fields:
//   - ServerBaseURL: base URL of the account API.
//   - RequestTimeout: per-request HTTP timeout.
//   - DataDir: directory for the credential database and the log file.
//   - StoreNamespace: prefix of the persisted credential keys.
//   - LogLevel: debug, info, warn or error.
//   - LogFile: log file name, relative to DataDir unless absolute.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DataDir        string
	StoreNamespace string
	LogLevel       string
	LogFile        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:3333"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = "data"
	c.StoreNamespace = common.DefaultStoreNamespace
	c.LogLevel = "info"
	c.LogFile = "client.log"
}

// LogPath resolves LogFile against DataDir.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, c.LogFile)
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args (if any), then the flags in args. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
