package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyTimezone                 = "timezone"
	KeyWorkers                  = "workers"
	KeyAllocationDefaultDay     = "allocation.default_day_hours"
	KeyAllocationTravelBuffer   = "allocation.travel_buffer_minutes"
	KeyAllocationWorkdayStart   = "allocation.workday_start"
	KeyAllocationKeywords       = "allocation.complexity_keywords"
	KeyTravelAPIKey             = "travel.api_key"
	KeyTravelBaseURL            = "travel.base_url"
	KeyTravelTimeoutSeconds     = "travel.timeout_seconds"
)

type Config struct {
	Timezone   string           `mapstructure:"timezone" validate:"required"`
	Workers    []Worker         `mapstructure:"workers" validate:"required,min=1,dive"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Travel     TravelConfig     `mapstructure:"travel"`
}

// Worker is one row of the enumerated roster and rate table.
type Worker struct {
	Name           string  `mapstructure:"name" validate:"required"`
	Rate           float64 `mapstructure:"rate" validate:"gte=0"`
	WeekendPremium bool    `mapstructure:"weekend_premium"`
}

type AllocationConfig struct {
	DefaultDayHours     float64  `mapstructure:"default_day_hours" validate:"gt=0"`
	TravelBufferMinutes int      `mapstructure:"travel_buffer_minutes" validate:"gte=0"`
	WorkdayStart        string   `mapstructure:"workday_start" validate:"required"`
	ComplexityKeywords  []string `mapstructure:"complexity_keywords"`
}

type TravelConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// Default returns the built-in configuration without consulting Viper.
// Tests and library callers use it to avoid ambient state.
func Default() Config {
	return Config{
		Timezone: "America/New_York",
		Workers:  defaultWorkers(),
		Allocation: AllocationConfig{
			DefaultDayHours:     8,
			TravelBufferMinutes: 15,
			WorkdayStart:        "08:00",
			ComplexityKeywords:  defaultComplexityKeywords(),
		},
		Travel: TravelConfig{
			BaseURL:        "https://maps.googleapis.com/maps/api/distancematrix/json",
			TimeoutSeconds: 15,
		},
	}
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# fieldsheet configuration
timezone: "America/New_York"

workers:
  - name: Jose
    rate: 25
    weekend_premium: true
  - name: Chris
    rate: 30
    weekend_premium: true
  - name: Myer
    rate: 20
  - name: Marco
    rate: 22

allocation:
  default_day_hours: 8
  travel_buffer_minutes: 15
  workday_start: "08:00"
  complexity_keywords:
    - install
    - replace
    - repair
    - leak
    - leaking
    - remove
    - service
    - shovel
    - snow
    - emergency

travel:
  # Leave api_key empty to use the flat travel buffer between stops.
  api_key: ""
  base_url: "https://maps.googleapis.com/maps/api/distancematrix/json"
  timeout_seconds: 15
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateWorkers(cfg.Workers); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("validation failed: unknown timezone %q", cfg.Timezone)
	}
	if _, err := parseWorkdayStart(cfg.Allocation.WorkdayStart); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault(KeyTimezone, defaults.Timezone)
	v.SetDefault(KeyAllocationDefaultDay, defaults.Allocation.DefaultDayHours)
	v.SetDefault(KeyAllocationTravelBuffer, defaults.Allocation.TravelBufferMinutes)
	v.SetDefault(KeyAllocationWorkdayStart, defaults.Allocation.WorkdayStart)
	v.SetDefault(KeyAllocationKeywords, defaults.Allocation.ComplexityKeywords)
	v.SetDefault(KeyTravelAPIKey, defaults.Travel.APIKey)
	v.SetDefault(KeyTravelBaseURL, defaults.Travel.BaseURL)
	v.SetDefault(KeyTravelTimeoutSeconds, defaults.Travel.TimeoutSeconds)

	workers := make([]map[string]any, 0, len(defaults.Workers))
	for _, worker := range defaults.Workers {
		workers = append(workers, map[string]any{
			"name":            worker.Name,
			"rate":            worker.Rate,
			"weekend_premium": worker.WeekendPremium,
		})
	}
	v.SetDefault(KeyWorkers, workers)
}

func defaultWorkers() []Worker {
	return []Worker{
		{Name: "Jose", Rate: 25, WeekendPremium: true},
		{Name: "Chris", Rate: 30, WeekendPremium: true},
		{Name: "Myer", Rate: 20},
		{Name: "Marco", Rate: 22},
	}
}

func defaultComplexityKeywords() []string {
	return []string{
		"install", "replace", "repair", "leak", "leaking",
		"remove", "service", "shovel", "snow", "emergency",
	}
}

func validateWorkers(workers []Worker) error {
	seen := make(map[string]struct{}, len(workers))
	for i, worker := range workers {
		name := strings.TrimSpace(worker.Name)
		if name == "" {
			return fmt.Errorf("validation failed: workers[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate worker name %q", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func parseWorkdayStart(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("validation failed: allocation.workday_start %q is not HH:MM", value)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("validation failed: allocation.workday_start %q is not HH:MM", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("validation failed: allocation.workday_start %q out of range", value)
	}
	return hour*60 + minute, nil
}

// RosterNames lists worker names in their configured order.
func (c Config) RosterNames() []string {
	names := make([]string, 0, len(c.Workers))
	for _, worker := range c.Workers {
		names = append(names, worker.Name)
	}
	return names
}

// RateFor resolves the hourly rate for a worker; unknown workers pay 0.
func (c Config) RateFor(name string) float64 {
	for _, worker := range c.Workers {
		if strings.EqualFold(worker.Name, name) {
			return worker.Rate
		}
	}
	return 0
}

// PremiumEligible reports whether a worker earns the weekend multiplier.
func (c Config) PremiumEligible(name string) bool {
	for _, worker := range c.Workers {
		if strings.EqualFold(worker.Name, name) {
			return worker.WeekendPremium
		}
	}
	return false
}

// Location resolves the configured time zone, falling back to UTC when
// the identifier cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkdayStartMinutes returns the configured workday start as minutes
// from midnight, defaulting to 08:00 when unset or malformed.
func (c Config) WorkdayStartMinutes() int {
	minutes, err := parseWorkdayStart(c.Allocation.WorkdayStart)
	if err != nil {
		return 8 * 60
	}
	return minutes
}
