package deployment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	Address(name string) string
	Key(name string) string
	Save(name, value string)
	Saved(name string) (string, error)
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
}

// RegisterSteps registers suite deployment and ownership step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &deploymentSteps{tc: tc}

	// Deployment
	ctx.Step(`^I deploy suite "([^"]*)" owned by "([^"]*)"$`, steps.deploySuite)
	ctx.Step(`^I deploy suite "([^"]*)" owned by "([^"]*)" with agent "([^"]*)"$`, steps.deploySuiteWithAgent)
	ctx.Step(`^suite "([^"]*)" should be recorded$`, steps.suiteShouldBeRecorded)

	// Ownership handover
	ctx.Step(`^I propose "([^"]*)" as owner of the (\w+) of "([^"]*)"$`, steps.proposeOwner)
	ctx.Step(`^I accept ownership of the (\w+) of "([^"]*)"$`, steps.acceptOwner)
	ctx.Step(`^the (\w+) of "([^"]*)" should be owned by "([^"]*)"$`, steps.shouldBeOwnedBy)
}

type deploymentSteps struct {
	tc TestContext
}

// suiteComponents are the fields of a deployment response saved per suite.
var suiteComponents = []string{"asset", "topic_list", "issuer_list", "eligibility_storage", "eligibility_registry", "compliance"}

func (s *deploymentSteps) deploySuite(ctx context.Context, name, owner string) error {
	return s.deploy(name, owner, nil)
}

func (s *deploymentSteps) deploySuiteWithAgent(ctx context.Context, name, owner, agent string) error {
	return s.deploy(name, owner, []string{s.tc.Address(agent)})
}

func (s *deploymentSteps) deploy(name, owner string, agents []string) error {
	body := map[string]any{
		"key": s.tc.Key(name),
		"asset": map[string]any{
			"owner":           s.tc.Address(owner),
			"name":            name,
			"symbol":          "E2E",
			"registry_agents": agents,
			"asset_agents":    agents,
		},
	}
	if err := s.tc.POST("/deployments", body); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 201 {
		return nil
	}
	for _, c := range suiteComponents {
		v, err := s.tc.GetResponseField("suite." + c)
		if err != nil {
			return err
		}
		s.tc.Save(name+"."+c, v.(string))
	}
	return nil
}

func (s *deploymentSteps) suiteShouldBeRecorded(ctx context.Context, name string) error {
	want, err := s.tc.Saved(name + ".asset")
	if err != nil {
		return err
	}
	if err := s.tc.GET("/deployments/" + url.PathEscape(s.tc.Key(name))); err != nil {
		return err
	}
	got, err := s.tc.GetResponseField("suite.asset")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("deployment %s records asset %v, want %s", name, got, want)
	}
	return nil
}

func (s *deploymentSteps) component(kind, suite string) (string, error) {
	return s.tc.Saved(suite + "." + kind)
}

func (s *deploymentSteps) proposeOwner(ctx context.Context, owner, kind, suite string) error {
	addr, err := s.component(kind, suite)
	if err != nil {
		return err
	}
	return s.tc.POST("/components/"+addr+"/ownership/proposal", map[string]any{"owner": s.tc.Address(owner)})
}

func (s *deploymentSteps) acceptOwner(ctx context.Context, kind, suite string) error {
	addr, err := s.component(kind, suite)
	if err != nil {
		return err
	}
	return s.tc.POST("/components/"+addr+"/ownership/accept", nil)
}

func (s *deploymentSteps) shouldBeOwnedBy(ctx context.Context, kind, suite, owner string) error {
	addr, err := s.component(kind, suite)
	if err != nil {
		return err
	}
	if err := s.tc.GET("/components/" + addr); err != nil {
		return err
	}
	owners, err := s.tc.GetResponseField("owners")
	if err != nil {
		return err
	}
	list, _ := owners.([]any)
	if len(list) != 1 || list[0] != s.tc.Address(owner) {
		return fmt.Errorf("%s of %s is owned by %v, want only %s", kind, suite, owners, owner)
	}
	return nil
}
