// Package main is the entry point for the midistream API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/midistream/pkg/api"
	"github.com/james-see/midistream/pkg/config"
	"github.com/james-see/midistream/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Init("midistream-server", cfg.Log)

	fmt.Printf("Starting midistream API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)

	if err := api.StartServer(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads path when set, applies a non-zero port override and
// validates the result.
func loadConfig(path string, port int) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
