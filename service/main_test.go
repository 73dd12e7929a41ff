package service

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// The config singleton refuses to load without a database URL outside
	// the test environment
	os.Setenv("ENVIRONMENT", "test")
	os.Exit(m.Run())
}
