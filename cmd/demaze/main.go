package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Anshpatel2434/Demaze-task/internal/app"
	"github.com/Anshpatel2434/Demaze-task/internal/credential"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway/local"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway/supabase"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/refresh"
	"github.com/Anshpatel2434/Demaze-task/internal/session"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	offline := flag.Bool("offline", false, "force the local sqlite gateway")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demaze: %v\n", err)
		os.Exit(1)
	}
	if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		// First run: materialize the defaults so there is a file to edit.
		if saveErr := model.SaveConfig(*configPath, cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "demaze: writing default config: %v\n", saveErr)
		}
	}
	if *offline {
		cfg.Gateway.Offline = true
	}

	gw, auth, closer, err := openGateway(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demaze: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer()
	}

	sess := session.NewManager(gw, auth)
	refresher := refresh.New(
		time.Duration(cfg.Display.RefreshIntervalSec) * time.Second)

	m := app.New(gw, sess, cfg.Display.PageSize, refresher)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "demaze: %v\n", err)
		os.Exit(1)
	}
}

// openGateway builds the configured gateway: local sqlite in offline
// mode, otherwise the remote service with any persisted token installed.
func openGateway(cfg *model.AppConfig) (gateway.Gateway, session.Authenticator, func() error, error) {
	if cfg.Gateway.Offline {
		g, err := local.New(cfg.Gateway.OfflinePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return g, nil, g.Close, nil
	}

	g := supabase.New(supabase.NewClient(cfg.Gateway.URL, cfg.Gateway.AnonKey))
	if token, err := credential.Get(credential.SessionTokenKey); err == nil && token != "" {
		g.Client().SetToken(token)
	}
	return g, g, nil, nil
}
