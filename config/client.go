package config

import (
	"os"
	"path/filepath"
)

// Client holds the settings of the SmartBite client.
type Client struct {
	// APIURL is the ServeSoft backend base URL, without the /api suffix.
	APIURL string
	// TokenFile persists the session token between CLI runs. Empty disables
	// persistence.
	TokenFile string
}

// LoadClient reads the client settings from the environment.
func LoadClient() Client {
	return Client{
		APIURL:    getEnv("SMARTBITE_API_URL", "http://localhost:8080"),
		TokenFile: getEnv("SMARTBITE_TOKEN_FILE", defaultTokenFile()),
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "smartbite", "token")
}
