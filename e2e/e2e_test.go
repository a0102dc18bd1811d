package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against a live server. It needs
// E2E_ADMIN_ADDRESS to match the server's genesis admin and E2E_ADMIN_TOKEN
// to match its ADMIN_TOKEN.
func TestFeatures(t *testing.T) {
	if os.Getenv("E2E_ADMIN_ADDRESS") == "" || os.Getenv("E2E_ADMIN_TOKEN") == "" {
		t.Skip("E2E_ADMIN_ADDRESS and E2E_ADMIN_TOKEN must be set")
	}
	tc := NewTestContext()

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("feature tests failed")
	}
}
