package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║                                                              ║",
		"║     ██████╗ ███╗   ██╗████████╗ ██████╗                      ║",
		"║    ██╔═══██╗████╗  ██║╚══██╔══╝██╔═══██╗                     ║",
		"║    ██║   ██║██╔██╗ ██║   ██║   ██║   ██║  seed               ║",
		"║    ██║   ██║██║╚██╗██║   ██║   ██║   ██║                     ║",
		"║    ╚██████╔╝██║ ╚████║   ██║   ╚██████╔╝                     ║",
		"║     ╚═════╝ ╚═╝  ╚═══╝   ╚═╝    ╚═════╝                      ║",
		"║                                                              ║",
		"║      🥐 Bakery & coffee-shop sales data generator ☕          ║",
		"║                                                              ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "ontoseed",
	Short: "Seed a bakery and coffee-shop retail database with synthetic sales",
	Long: `
ontoseed populates a relational retail schema with stores, staff, products and
statistically plausible point-of-sale transactions. Every write is
insert-if-absent, so runs can be repeated safely.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("ontoseed version %s\n", Version)
			return nil
		}

		showBanner()
		fmt.Println()
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ontoseed.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("ontoseed.config")
	}

	viper.AutomaticEnv()

	// A missing config file falls back to defaults.
	_ = viper.ReadInConfig()
}
