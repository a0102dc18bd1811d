package e2e

import (
	"github.com/cucumber/godog"

	"assetgov/e2e/steps/asset"
	"assetgov/e2e/steps/common"
	"assetgov/e2e/steps/deployment"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, acting principal, status assertions)
	common.RegisterSteps(ctx, tc)

	// Register suite deployment and ownership steps
	deployment.RegisterSteps(ctx, tc)

	// Register holder and balance steps
	asset.RegisterSteps(ctx, tc)
}
