// Package genesis bootstraps an empty substrate into a working platform: it
// deploys the implementation code of one version, the reference registry
// and its auxiliary factory, the deployment coordinator and the built-in
// rule modules, and hands admin on all of them to the configured principal.
package genesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"assetgov/internal/asset"
	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/deployment"
	"assetgov/internal/eligibility"
	"assetgov/internal/versions"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

// ErrSeedMismatch means the bundle store already holds the seed version with
// different code.
var ErrSeedMismatch = dErrors.New(dErrors.CodeConflict, "seed version is recorded with a different bundle")

// Well-known addresses of the platform singletons.
var (
	ReferenceAddress   = domain.NamedAddress("registry/reference")
	FactoryAddress     = domain.NamedAddress("registry/factory")
	CoordinatorAddress = domain.NamedAddress("deployment/coordinator")
)

// ModuleAddress is where the module named name is deployed.
func ModuleAddress(name string) domain.Address {
	return domain.NamedAddress("module/" + name)
}

// CodeBundle names the implementation addresses of version v.
func CodeBundle(v domain.Version) domain.Bundle {
	code := func(kind domain.ComponentKind) domain.Address {
		return domain.NamedAddress("code/" + string(kind) + "/" + v.String())
	}
	return domain.Bundle{
		Asset:               code(domain.KindAsset),
		TopicList:           code(domain.KindTopicList),
		IssuerList:          code(domain.KindIssuerList),
		EligibilityStorage:  code(domain.KindEligibilityStorage),
		EligibilityRegistry: code(domain.KindEligibilityRegistry),
		Compliance:          code(domain.KindCompliance),
	}
}

// Network lists what Apply deployed.
type Network struct {
	Admin       domain.Address
	Version     domain.Version
	Bundle      domain.Bundle
	Reference   domain.Address
	Factory     domain.Address
	Coordinator domain.Address
	Modules     map[string]domain.Address
}

type options struct {
	logger       *slog.Logger
	bundles      versions.BundleStore
	stores       versions.StoreProvider
	keys         deployment.KeyStore
	rulesOptions []compliance.RulesOption
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBundleStore sets the reference registry's store.
func WithBundleStore(store versions.BundleStore) Option {
	return func(o *options) { o.bundles = store }
}

// WithStoreProvider sets how auxiliary registries get their stores.
func WithStoreProvider(p versions.StoreProvider) Option {
	return func(o *options) { o.stores = p }
}

func WithKeyStore(keys deployment.KeyStore) Option {
	return func(o *options) { o.keys = keys }
}

func WithRulesOptions(opts ...compliance.RulesOption) Option {
	return func(o *options) { o.rulesOptions = append(o.rulesOptions, opts...) }
}

// Apply runs the bootstrap as one substrate operation.
func Apply(ctx context.Context, c *chain.Chain, auth *capability.Table, cfg *Config, opts ...Option) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	net := &Network{
		Admin:       cfg.Admin,
		Version:     cfg.Version,
		Bundle:      CodeBundle(cfg.Version),
		Reference:   ReferenceAddress,
		Factory:     FactoryAddress,
		Coordinator: CoordinatorAddress,
		Modules:     make(map[string]domain.Address, len(cfg.Modules)),
	}
	err := c.Execute(ctx, func(ctx context.Context) error {
		if err := deployCode(ctx, c, auth, net.Bundle, o); err != nil {
			return err
		}

		ref := versions.NewRegistry(c, auth, net.Reference, true, o.bundles)
		if err := c.Deploy(ctx, net.Reference, ref); err != nil {
			return err
		}
		auth.Grant(ctx, cfg.Admin, capability.Admin(net.Reference))
		if err := seedVersion(ctx, ref, cfg.Admin, cfg.Version, net.Bundle); err != nil {
			return fmt.Errorf("seed version %s: %w", cfg.Version, err)
		}

		if err := c.Deploy(ctx, net.Factory, versions.NewFactory(c, auth, net.Factory, o.stores)); err != nil {
			return err
		}
		if err := ref.SetFactory(ctx, cfg.Admin, net.Factory); err != nil {
			return fmt.Errorf("set factory: %w", err)
		}

		coord := deployment.NewCoordinator(c, auth, net.Coordinator, net.Reference, o.keys)
		if err := c.Deploy(ctx, net.Coordinator, coord); err != nil {
			return err
		}
		auth.Grant(ctx, cfg.Admin, capability.Admin(net.Coordinator))
		if err := ref.SetCoordinator(ctx, cfg.Admin, net.Coordinator); err != nil {
			return fmt.Errorf("set coordinator: %w", err)
		}

		for _, m := range cfg.Modules {
			addr := ModuleAddress(m.Name)
			if err := c.Deploy(ctx, addr, newModule(m.Type, auth)); err != nil {
				return fmt.Errorf("module %s: %w", m.Name, err)
			}
			net.Modules[m.Name] = addr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "genesis applied",
		"admin", net.Admin.Hex(),
		"version", net.Version.String(),
		"reference", net.Reference.Hex(),
		"coordinator", net.Coordinator.Hex(),
		"modules", len(net.Modules),
	)
	return net, nil
}

// seedVersion records and activates the seed version. A durable bundle store
// may already hold it from an earlier boot; a matching bundle is only
// promoted, a different one is refused.
func seedVersion(ctx context.Context, ref *versions.Registry, admin domain.Address, v domain.Version, b domain.Bundle) error {
	recorded, err := ref.Bundle(ctx, v)
	switch {
	case errors.Is(err, versions.ErrUnknownVersion):
		return ref.AddAndPromote(ctx, admin, v, b)
	case err != nil:
		return err
	case recorded != b:
		return ErrSeedMismatch
	default:
		return ref.Promote(ctx, admin, v)
	}
}

func deployCode(ctx context.Context, c *chain.Chain, auth capability.Checker, b domain.Bundle, o *options) error {
	logic := eligibility.NewLogic(auth)
	code := map[domain.Address]any{
		b.Asset:               asset.NewLedger(auth),
		b.TopicList:           logic,
		b.IssuerList:          logic,
		b.EligibilityStorage:  logic,
		b.EligibilityRegistry: logic,
		b.Compliance:          compliance.NewRules(auth, append([]compliance.RulesOption{compliance.WithLogger(o.logger)}, o.rulesOptions...)...),
	}
	for _, kind := range domain.ComponentKinds {
		addr := b.Slot(kind)
		if err := c.Deploy(ctx, addr, code[addr]); err != nil {
			return fmt.Errorf("%s code: %w", kind, err)
		}
	}
	return nil
}

func newModule(kind string, auth capability.Checker) compliance.Module {
	switch kind {
	case ModuleSupplyLimit:
		return modules.NewSupplyLimit()
	case ModuleMaxBalance:
		return modules.NewMaxBalance(auth)
	case ModuleCountryAllow:
		return modules.NewCountryAllow()
	default:
		return modules.NewCountryRestrict()
	}
}
