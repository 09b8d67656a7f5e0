package services

import (
	"sync"
	"testing"

	"github.com/podsweep/podsweep-backend/internal/logger"
)

var (
	testLogOnce sync.Once
	testLog     *logger.Logger
	testLogErr  error
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	testLogOnce.Do(func() {
		testLog, testLogErr = logger.New("test")
	})
	if testLogErr != nil {
		tb.Fatalf("failed to init logger: %v", testLogErr)
	}
	return testLog
}
