package testflags

import (
	"os"
	"testing"
)

// LongTest skips t unless ZIPROTO_ENABLE_LONG_TESTS is set.
func LongTest(t *testing.T) {
	_, ok := os.LookupEnv("ZIPROTO_ENABLE_LONG_TESTS")
	if !ok {
		t.SkipNow()
	}
	t.Parallel()
}
