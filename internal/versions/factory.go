package versions

import (
	"context"
	"encoding/binary"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/versions/store"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

// StoreProvider supplies the bundle store for a newly derived registry.
type StoreProvider func(registry domain.Address) BundleStore

// MemoryStores is the default StoreProvider.
func MemoryStores(domain.Address) BundleStore {
	return store.NewInMemory()
}

// Factory derives auxiliary registries on request of the reference registry
// and remembers what it produced, so migrations can tell its registries apart
// from arbitrary look-alikes.
type Factory struct {
	chain    *chain.Chain
	auth     capability.Authority
	address  domain.Address
	stores   StoreProvider
	nonce    uint64
	deployed map[domain.Address]struct{}
}

// NewFactory builds a factory.
func NewFactory(c *chain.Chain, auth capability.Authority, address domain.Address, stores StoreProvider) *Factory {
	if stores == nil {
		stores = MemoryStores
	}
	return &Factory{
		chain:    c,
		auth:     auth,
		address:  address,
		stores:   stores,
		deployed: make(map[domain.Address]struct{}),
	}
}

func (f *Factory) Address() domain.Address { return f.address }

// DeployedByFactory reports whether addr was derived by this factory.
func (f *Factory) DeployedByFactory(addr domain.Address) bool {
	_, ok := f.deployed[addr]
	return ok
}

// Deploy derives an auxiliary registry running the requester's active version
// and grants admin on it to admin. Only a reference registry may request one.
func (f *Factory) Deploy(ctx context.Context, requester, admin domain.Address) (domain.Address, error) {
	ref, err := chain.Resolve[*Registry](f.chain, requester)
	if err != nil || !ref.IsReference() {
		return domain.ZeroAddress, ErrNotRequester
	}
	if admin.IsZero() {
		return domain.ZeroAddress, ErrZeroAddress
	}
	v, ok := ref.ActiveVersion()
	if !ok {
		return domain.ZeroAddress, ErrNoActiveVersion
	}
	b, _ := ref.ActiveBundle()

	addr, bundles, err := f.nextFree(ctx)
	if err != nil {
		return domain.ZeroAddress, err
	}

	aux := NewRegistry(f.chain, f.auth, addr, false, bundles)
	aux.coordinator = ref.coordinator
	aux.factory = f.address
	if err := f.chain.Deploy(ctx, addr, aux); err != nil {
		return domain.ZeroAddress, err
	}
	if err := aux.insert(ctx, v, b); err != nil {
		return domain.ZeroAddress, err
	}
	aux.activate(ctx, v, b)

	f.auth.Grant(ctx, admin, capability.Admin(addr))
	tx.Put(ctx, f.deployed, addr, struct{}{})
	return addr, nil
}

// nextFree derives addresses from the nonce until one is neither occupied nor
// backed by stored versions. The nonce starts at zero on every boot while
// bundle stores may outlive the process, so earlier derivations can already
// hold rows.
func (f *Factory) nextFree(ctx context.Context) (domain.Address, BundleStore, error) {
	nonce := f.nonce
	for {
		var raw [8]byte
		binary.BigEndian.PutUint64(raw[:], nonce)
		addr := domain.DeriveAddress([]byte("auxiliary"), f.address[:], raw[:])
		nonce++
		if f.chain.Exists(addr) {
			continue
		}
		bundles := f.stores(addr)
		entries, err := bundles.List(ctx)
		if err != nil {
			return domain.ZeroAddress, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bundles")
		}
		if len(entries) > 0 {
			continue
		}
		tx.Set(ctx, &f.nonce, nonce)
		return addr, bundles, nil
	}
}
