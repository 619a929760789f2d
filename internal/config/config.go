package config

import (
	"log"
	"os"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Port                   string   `yaml:"port"`
	SecureCookies          bool     `yaml:"secure_cookies"`
	ResultsPerPage         int      `yaml:"results_per_page"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	LoginRequestsPerMinute int      `yaml:"login_requests_per_minute"`
	LoginBurst             int      `yaml:"login_burst"`
}

// App holds the loaded configuration. Defaults apply until Load runs.
var App = defaults()

func defaults() Config {
	return Config{
		Port:                   "4567",
		ResultsPerPage:         20,
		AllowedOrigins:         []string{"http://localhost:5173"},
		LoginRequestsPerMinute: 5,
		LoginBurst:             5,
	}
}

// Load reads the YAML config file when present and applies env overrides.
// A missing file is not an error.
func Load(path string) {
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &App); err != nil {
			log.Fatal("Failed to parse config: ", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatal("Failed to read config: ", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		App.Port = port
	}
	if os.Getenv("SECURE_COOKIES") == "true" {
		App.SecureCookies = true
	}
}
