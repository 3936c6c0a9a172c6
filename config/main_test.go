package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config package tests unless GO_ENV=test,
// so a developer cannot accidentally point them at a real database.
func TestMain(m *testing.M) {
	env := os.Getenv("GO_ENV")
	if env != "test" {
		fmt.Fprintf(os.Stderr,
			"refusing to run tests: GO_ENV is %q, expected \"test\"\n"+
				"run them as: GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
