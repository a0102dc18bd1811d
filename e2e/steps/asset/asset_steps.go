package asset

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	Address(name string) string
	Saved(name string) (string, error)
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers holder registration and balance step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &assetSteps{tc: tc}

	ctx.Step(`^I register "([^"]*)" in "([^"]*)" with country (\d+)$`, steps.registerHolder)
	ctx.Step(`^I mint (\d+) of "([^"]*)" to "([^"]*)"$`, steps.mint)
	ctx.Step(`^I transfer (\d+) of "([^"]*)" to "([^"]*)"$`, steps.transfer)
	ctx.Step(`^"([^"]*)" should hold (\d+) of "([^"]*)"$`, steps.shouldHold)
}

type assetSteps struct {
	tc TestContext
}

func (s *assetSteps) registerHolder(ctx context.Context, holder, suite string, country int) error {
	registry, err := s.tc.Saved(suite + ".eligibility_registry")
	if err != nil {
		return err
	}
	return s.tc.POST("/eligibility/"+registry+"/holders", map[string]any{
		"holder":  s.tc.Address(holder),
		"country": fmt.Sprint(country),
	})
}

func (s *assetSteps) mint(ctx context.Context, amount int, suite, to string) error {
	addr, err := s.tc.Saved(suite + ".asset")
	if err != nil {
		return err
	}
	return s.tc.POST("/assets/"+addr+"/mints", map[string]any{"to": s.tc.Address(to), "amount": amount})
}

func (s *assetSteps) transfer(ctx context.Context, amount int, suite, to string) error {
	addr, err := s.tc.Saved(suite + ".asset")
	if err != nil {
		return err
	}
	return s.tc.POST("/assets/"+addr+"/transfers", map[string]any{"to": s.tc.Address(to), "amount": amount})
}

func (s *assetSteps) shouldHold(ctx context.Context, holder string, amount int, suite string) error {
	addr, err := s.tc.Saved(suite + ".asset")
	if err != nil {
		return err
	}
	if err := s.tc.GET("/assets/" + addr + "/balances/" + s.tc.Address(holder)); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("balance lookup failed: %s", s.tc.GetLastResponseBody())
	}
	got, err := s.tc.GetResponseField("balance")
	if err != nil {
		return err
	}
	if got != float64(amount) {
		return fmt.Errorf("%s holds %v of %s, want %d", holder, got, suite, amount)
	}
	return nil
}
