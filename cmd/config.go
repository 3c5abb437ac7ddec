package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fieldsheet configuration file values.",
	Long: `Create and display the fieldsheet configuration file.

The configuration stores the worker roster and rate table, allocation
tuning (default day hours, travel buffer, complexity keywords, workday
start), the time zone used for weekend pay, and the optional
travel-time provider credential.`,
	Example: `
  # Create default config in $HOME/.fieldsheet.yaml
  fieldsheet config create

  # Show active config and source file
  fieldsheet config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
