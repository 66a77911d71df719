package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/db"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	pingAttempts int
	pingDelay    time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Wait for the database to accept connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		conn, err := db.NewConnection(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		color.Cyan("🔌 Connecting to %s database...", cfg.Database.Provider)
		err = conn.Wait(ctx, db.WaitOptions{
			Attempts: pingAttempts,
			Delay:    pingDelay,
			OnRetry: func(attempt int, err error) {
				color.Yellow("⚠️  Attempt %d/%d failed: %v", attempt, pingAttempts, err)
			},
		})
		if err != nil {
			color.Red("❌ %v", err)
			return err
		}

		color.Green("✅ Database is ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingAttempts, "attempts", 30, "Maximum connection attempts")
	pingCmd.Flags().DurationVar(&pingDelay, "delay", 3*time.Second, "Delay between attempts")
}
