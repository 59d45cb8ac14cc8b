// Command campus-portal serves the campus portal pages behind the session engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrEthical07/campusAuth/internal/portal"
	"github.com/joho/godotenv"
)

func main() {
	loadDotenv()

	cfg, err := portal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := portal.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		app.Close()
		os.Exit(1)
	}
	logger.Info("portal stopped")
}

// loadDotenv loads the first .env found walking up from the working directory.
// Values in the file override the inherited environment.
func loadDotenv() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Overload(path); err == nil {
			return
		}
	}
}
