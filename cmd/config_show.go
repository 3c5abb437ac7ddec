package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fieldsheet/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  fieldsheet config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file found; showing built-in defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("timezone: %s\n", cfg.Timezone)
		fmt.Printf("allocation.default_day_hours: %g\n", cfg.Allocation.DefaultDayHours)
		fmt.Printf("allocation.travel_buffer_minutes: %d\n", cfg.Allocation.TravelBufferMinutes)
		fmt.Printf("allocation.workday_start: %s\n", cfg.Allocation.WorkdayStart)
		fmt.Printf("allocation.complexity_keywords: %v\n", cfg.Allocation.ComplexityKeywords)
		fmt.Printf("travel.base_url: %s\n", cfg.Travel.BaseURL)
		fmt.Printf("travel.timeout_seconds: %d\n", cfg.Travel.TimeoutSeconds)
		fmt.Printf("travel.api_key set: %t\n", cfg.Travel.APIKey != "")
		fmt.Printf("workers: %d\n", len(cfg.Workers))
		for i, worker := range cfg.Workers {
			fmt.Printf("workers[%d].name: %s\n", i, worker.Name)
			fmt.Printf("workers[%d].rate: %g\n", i, worker.Rate)
			fmt.Printf("workers[%d].weekend_premium: %t\n", i, worker.WeekendPremium)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
