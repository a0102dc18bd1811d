// Package deployment creates complete suites. One DeploySuite call deploys
// and cross-wires an asset, its eligibility components and its compliance
// engine behind fronts pointing at the reference registry, then hands
// ownership to the configured owner. The call either lands whole or leaves
// nothing behind, and the same key always derives the same addresses.
package deployment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetgov/internal/asset"
	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/deployment/store"
	"assetgov/internal/eligibility"
	"assetgov/internal/indirection"
	"assetgov/internal/versions"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/sentinel"
	"assetgov/pkg/platform/tx"
)

// KeyStore holds the append-only key -> record map.
type KeyStore interface {
	Insert(ctx context.Context, rec store.Record) error
	Get(ctx context.Context, key string) (store.Record, error)
}

// Coordinator is the deployment entry point. It is itself deployed in the
// address space so registries can find the reference through it.
type Coordinator struct {
	chain     *chain.Chain
	auth      capability.Authority
	address   domain.Address
	keys      KeyStore
	reference domain.Address
	deployed  map[domain.Address]struct{}
	pending   map[domain.Address]domain.Address
	now       func() time.Time
}

// NewCoordinator builds a coordinator deploying against reference. A nil
// store falls back to memory.
func NewCoordinator(c *chain.Chain, auth capability.Authority, address, reference domain.Address, keys KeyStore) *Coordinator {
	if keys == nil {
		keys = store.NewInMemory()
	}
	return &Coordinator{
		chain:     c,
		auth:      auth,
		address:   address,
		keys:      keys,
		reference: reference,
		deployed:  make(map[domain.Address]struct{}),
		pending:   make(map[domain.Address]domain.Address),
		now:       time.Now,
	}
}

func (c *Coordinator) Address() domain.Address { return c.address }

// ReferenceRegistry names the registry new suites resolve through.
func (c *Coordinator) ReferenceRegistry() domain.Address { return c.reference }

// DeployedByCoordinator reports whether addr is a component this coordinator
// created. Reused storages are not included.
func (c *Coordinator) DeployedByCoordinator(addr domain.Address) bool {
	_, ok := c.deployed[addr]
	return ok
}

// SuiteAddresses derives the component addresses for key. The result depends
// only on the coordinator address, the key and the component kind.
func (c *Coordinator) SuiteAddresses(key string) domain.Suite {
	var s domain.Suite
	for _, kind := range domain.ComponentKinds {
		s.SetComponent(kind, domain.DeriveAddress([]byte("suite"), c.address[:], []byte(key), []byte(kind)))
	}
	return s
}

// Asset returns the asset deployed under key, or the zero address.
func (c *Coordinator) Asset(ctx context.Context, key string) (domain.Address, error) {
	rec, err := c.lookup(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return domain.ZeroAddress, nil
	}
	if err != nil {
		return domain.ZeroAddress, err
	}
	return rec.Suite.Asset, nil
}

// Deployment returns the record stored under key.
func (c *Coordinator) Deployment(ctx context.Context, key string) (store.Record, error) {
	return c.lookup(ctx, key)
}

func (c *Coordinator) lookup(ctx context.Context, key string) (store.Record, error) {
	rec, err := c.keys.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return store.Record{}, fmt.Errorf("%q: %w", key, ErrKeyNotFound)
	}
	if err != nil {
		return store.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load deployment key")
	}
	return rec, nil
}

// deployedSuite holds the live components of one deployment while it is wired.
type deployedSuite struct {
	addrs    domain.Suite
	asset    *asset.Asset
	topics   *eligibility.TopicList
	issuers  *eligibility.IssuerList
	storage  *eligibility.Storage
	registry *eligibility.Registry
	engine   *compliance.Engine
}

// DeploySuite deploys and wires a suite for key. Every check runs before the
// first write; the key record is written last, so a failed attempt leaves the
// key and the derived addresses free for a retry.
func (c *Coordinator) DeploySuite(ctx context.Context, caller domain.Address, key string, ac AssetConfig, ec EligibilityConfig) (domain.Suite, error) {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return domain.Suite{}, err
	}
	if err := c.validate(ctx, key, ac, ec); err != nil {
		return domain.Suite{}, err
	}

	s, err := c.instantiate(ctx, key, ac)
	if err != nil {
		return domain.Suite{}, err
	}

	tmp := &temporaryGrants{auth: c.auth}
	for _, addr := range s.addrs.Components() {
		tmp.grant(ctx, c.address, capability.Owner(addr))
	}
	if err := c.wire(ctx, s, ac, ec); err != nil {
		return domain.Suite{}, err
	}
	c.handOver(ctx, s, ac)
	tmp.revoke(ctx)

	rec := store.Record{Key: key, Suite: s.addrs, DeployedAt: c.now().UTC()}
	if err := c.keys.Insert(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return domain.Suite{}, fmt.Errorf("%q: %w", key, ErrKeyAlreadyUsed)
		}
		return domain.Suite{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record deployment key")
	}
	return s.addrs, nil
}

// instantiate places a fresh front-backed instance at each derived address.
func (c *Coordinator) instantiate(ctx context.Context, key string, ac AssetConfig) (*deployedSuite, error) {
	s := &deployedSuite{addrs: c.SuiteAddresses(key)}
	if ac.reusesStorage() {
		s.addrs.EligibilityStorage = ac.EligibilityStorage
		st, err := chain.Resolve[*eligibility.Storage](c.chain, ac.EligibilityStorage)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ac.EligibilityStorage, ErrStorageNotFound)
		}
		s.storage = st
	}

	for _, kind := range domain.ComponentKinds {
		if kind == domain.KindEligibilityStorage && s.storage != nil {
			continue
		}
		addr := s.addrs.Component(kind)
		front, err := indirection.NewFront(c.chain, addr, kind, c.reference)
		if err != nil {
			return nil, fmt.Errorf("%s front: %w", kind, err)
		}
		var obj any
		switch kind {
		case domain.KindAsset:
			s.asset = asset.New(c.chain, front, asset.Config{Name: ac.Name, Symbol: ac.Symbol, Decimals: ac.Decimals})
			obj = s.asset
		case domain.KindTopicList:
			s.topics = eligibility.NewTopicList(front)
			obj = s.topics
		case domain.KindIssuerList:
			s.issuers = eligibility.NewIssuerList(front)
			obj = s.issuers
		case domain.KindEligibilityStorage:
			s.storage = eligibility.NewStorage(front)
			obj = s.storage
		case domain.KindEligibilityRegistry:
			s.registry = eligibility.NewRegistry(c.chain, front)
			obj = s.registry
		case domain.KindCompliance:
			s.engine = compliance.NewEngine(c.chain, front)
			obj = s.engine
		}
		if err := c.chain.Deploy(ctx, addr, obj); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		tx.Put(ctx, c.deployed, addr, struct{}{})
	}
	return s, nil
}

// wire cross-links the suite while the coordinator holds temporary owner
// capabilities on every component.
func (c *Coordinator) wire(ctx context.Context, s *deployedSuite, ac AssetConfig, ec EligibilityConfig) error {
	self := c.address
	for _, topic := range ec.Topics {
		if err := s.topics.AddTopic(ctx, self, topic); err != nil {
			return fmt.Errorf("topic %d: %w", topic, err)
		}
	}
	for i, issuer := range ec.Issuers {
		if err := s.issuers.AddIssuer(ctx, self, issuer, ec.IssuerTopics[i]); err != nil {
			return fmt.Errorf("issuer %s: %w", issuer, err)
		}
	}
	if err := s.storage.LinkRegistry(ctx, self, s.addrs.EligibilityRegistry); err != nil {
		return fmt.Errorf("link registry: %w", err)
	}
	if err := s.registry.Wire(ctx, self, eligibility.Links{
		Storage:    s.addrs.EligibilityStorage,
		TopicList:  s.addrs.TopicList,
		IssuerList: s.addrs.IssuerList,
	}); err != nil {
		return fmt.Errorf("wire registry: %w", err)
	}

	c.auth.Grant(ctx, s.addrs.Asset, capability.Agent(s.addrs.EligibilityRegistry))
	for _, agent := range ac.RegistryAgents {
		c.auth.Grant(ctx, agent, capability.Agent(s.addrs.EligibilityRegistry))
	}
	for _, agent := range ac.AssetAgents {
		c.auth.Grant(ctx, agent, capability.Agent(s.addrs.Asset))
	}

	if err := s.asset.SetEligibilityRegistry(ctx, self, s.addrs.EligibilityRegistry); err != nil {
		return fmt.Errorf("asset eligibility: %w", err)
	}
	if err := s.asset.SetCompliance(ctx, self, s.addrs.Compliance); err != nil {
		return fmt.Errorf("asset compliance: %w", err)
	}

	for _, module := range ac.ComplianceModules {
		if s.engine.IsModuleBound(module) {
			continue
		}
		if err := s.engine.BindModule(ctx, self, module); err != nil {
			return fmt.Errorf("module %s: %w", module, err)
		}
	}
	for i, call := range ac.ComplianceSettings {
		module := ac.ComplianceModules[i]
		if err := s.engine.Forward(ctx, self, module, call); err != nil {
			return fmt.Errorf("setting %d for %s: %w", i, module, err)
		}
	}
	return nil
}

// handOver grants owner on every component the coordinator created. A reused
// storage keeps its existing owners.
func (c *Coordinator) handOver(ctx context.Context, s *deployedSuite, ac AssetConfig) {
	for _, kind := range domain.ComponentKinds {
		if kind == domain.KindEligibilityStorage && ac.reusesStorage() {
			continue
		}
		c.auth.Grant(ctx, ac.Owner, capability.Owner(s.addrs.Component(kind)))
	}
}

// SetReference points future deployments at registry.
func (c *Coordinator) SetReference(ctx context.Context, caller, registry domain.Address) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := c.checkReference(registry); err != nil {
		return err
	}
	tx.Set(ctx, &c.reference, registry)
	return nil
}

func (c *Coordinator) referenceRegistry() (*versions.Registry, error) {
	if c.reference.IsZero() {
		return nil, ErrNoReference
	}
	if err := c.checkReference(c.reference); err != nil {
		return nil, fmt.Errorf("%s: %w", c.reference, ErrNoReference)
	}
	return chain.Resolve[*versions.Registry](c.chain, c.reference)
}

func (c *Coordinator) checkReference(registry domain.Address) error {
	reg, err := chain.Resolve[*versions.Registry](c.chain, registry)
	if err != nil || !reg.IsReference() {
		return fmt.Errorf("%s: %w", registry, ErrInvalidReference)
	}
	if b, ok := reg.ActiveBundle(); !ok || !b.Valid() {
		return fmt.Errorf("%s: %w", registry, ErrInvalidReference)
	}
	return nil
}

func (c *Coordinator) requireAdmin(ctx context.Context, caller domain.Address) error {
	if capability.Require(ctx, c.auth, caller, capability.Admin(c.address)) != nil {
		return ErrUnauthorized
	}
	return nil
}

// temporaryGrants remembers the capabilities it added so they can be taken
// back without touching ones the principal already held.
type temporaryGrants struct {
	auth  capability.Authority
	added []grant
}

type grant struct {
	principal domain.Address
	cap       capability.Capability
}

func (t *temporaryGrants) grant(ctx context.Context, principal domain.Address, c capability.Capability) {
	if t.auth.HasCapability(ctx, principal, c) {
		return
	}
	t.auth.Grant(ctx, principal, c)
	t.added = append(t.added, grant{principal: principal, cap: c})
}

func (t *temporaryGrants) revoke(ctx context.Context) {
	for _, g := range t.added {
		t.auth.Revoke(ctx, g.principal, g.cap)
	}
	t.added = nil
}
