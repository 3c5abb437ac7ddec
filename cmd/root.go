package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fieldsheet/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fieldsheet",
	Short: "Turn noisy field notes into structured timesheet rows with allocated times and pay.",
	Long: `
fieldsheet ingests OCR-derived or freeform text describing field work
(addresses visited, times worked, money spent) and produces structured
timesheet rows: one best-effort draft per stop, with allocated start/end
times, quarter-hour durations, and computed pay.

Multi-stop days without per-stop durations are time-sliced using
complexity-weighted heuristics, with optional real travel-time data
between stops. Everything the parser cannot determine stays blank for
human review.
`,
	Example: `
  # Create configuration file
  fieldsheet config create

  # Parse a day's OCR text and print the draft rows
  fieldsheet parse -i notes.txt

  # Parse and persist drafts to the local database
  fieldsheet parse -i notes.txt --save --db ./fieldsheet.db

  # Parse straight to a spreadsheet
  fieldsheet parse -i notes.txt --output ./rows.xlsx

  # Export saved drafts for one worker and week
  fieldsheet export --worker Jose --from 2026-08-24 --to 2026-08-30 --output ./jose.csv
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.fieldsheet.yaml, then ./.fieldsheet.yaml)")

	// Persistent so the gate runs for subcommands too.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "parse", "export":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fieldsheet" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fieldsheet")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
