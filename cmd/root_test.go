package cmd

import "testing"

func TestRequiresConfig(t *testing.T) {
	t.Parallel()

	wantByName := map[string]bool{
		"parse":  true,
		"export": true,
	}
	for _, sub := range rootCmd.Commands() {
		if got := requiresConfig(sub); got != wantByName[sub.Name()] {
			t.Fatalf("requiresConfig(%s): want %t, got %t", sub.Name(), wantByName[sub.Name()], got)
		}
	}

	if requiresConfig(rootCmd) {
		t.Fatalf("root command must not require config")
	}
	if requiresConfig(nil) {
		t.Fatalf("nil command must not require config")
	}
}

func TestConfigGateIsInherited(t *testing.T) {
	t.Parallel()

	// The gate only reaches subcommands through the persistent hook.
	if rootCmd.PersistentPreRunE == nil {
		t.Fatalf("expected a persistent pre-run hook on the root command")
	}
	if rootCmd.PreRunE != nil {
		t.Fatalf("config gate must be persistent, not root-only")
	}
}
