package main

import (
	"flag"
	"fmt"
	"os"

	"mediaengine/config"
	"mediaengine/monitor"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("MEDIA_ENGINE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:" + config.DefaultAPIPort
	}
	url := flag.String("url", defaultURL, "Media engine API address")
	interval := flag.Duration("interval", monitor.DefaultPollInterval, "Polling interval")
	flag.Parse()

	client := monitor.NewClient(*url)
	program := tea.NewProgram(monitor.NewModel(client, client.BaseURL(), *interval))
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
