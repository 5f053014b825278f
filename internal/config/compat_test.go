package config

import (
	"os"
	"testing"
)

// testChdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test ends.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
