package cmd

import (
	"fmt"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default ontoseed.config.json",
	Long: `Write a configuration file with the default database settings, volumes and
weight tables, ready to be tuned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultConfigFile
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}

		color.Green("✅ Created %s", path)
		fmt.Println()
		color.Cyan("Next steps:")
		fmt.Println("  1. Set DATABASE_URL in your environment or .env file")
		fmt.Println("  2. Run 'ontoseed ping' to check the connection")
		fmt.Println("  3. Run 'ontoseed seed' to populate the database")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
