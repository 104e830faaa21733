// Command txdash is the live transaction dashboard: it logs in against the
// server, follows the WebSocket feed, and redraws a bar chart of the latest
// 20 transaction amounts on every message.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"txDashApp/config"
	"txDashApp/internal/client"
)

func main() {
	cfg := config.LoadConfig()

	username := flag.String("username", cfg.DemoUsername, "login username")
	password := flag.String("password", cfg.DemoPassword, "login password")
	serverURL := flag.String("server", cfg.ServerURL, "dashboard server base URL")
	chartPath := flag.String("chart", cfg.ChartPath, "path of the rendered chart image")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutting down...")
		cancel()
	}()

	session, err := client.Login(ctx, nil, *serverURL, *username, *password)
	if err != nil {
		var loginErr *client.LoginError
		if errors.As(err, &loginErr) {
			// User-facing failure: show the server's detail and stop;
			// retrying is up to the user
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		log.Error(fmt.Sprintf("Login request failed: %v", err))
		os.Exit(1)
	}
	log.Info("Logged in", "server", *serverURL)

	transport := client.NewTransport(session, client.WithReconnectDelay(cfg.ReconnectDelay))
	renderer := client.NewChartRenderer(*chartPath)
	dashboard := client.NewDashboard(transport.Events(), renderer)

	go transport.Run(ctx)

	log.Info("Dashboard running", "chart", *chartPath)
	if err := dashboard.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(fmt.Sprintf("Dashboard stopped: %v", err))
		os.Exit(1)
	}
	log.Info("Dashboard stopped.")
}
