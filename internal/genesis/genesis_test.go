package genesis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/deployment"
	"assetgov/internal/versions"
	"assetgov/internal/versions/store"
	"assetgov/pkg/domain"
)

var admin = domain.NamedAddress("admin")

func TestApply(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := chain.New(chain.WithLogger(logger))
	auth := capability.NewTable()

	net, err := Apply(context.Background(), c, auth, Default(admin), WithLogger(logger))
	require.NoError(t, err)

	ref, err := chain.Resolve[*versions.Registry](c, net.Reference)
	require.NoError(t, err)
	active, ok := ref.ActiveVersion()
	require.True(t, ok)
	assert.Equal(t, domain.Version{Major: 1}, active)
	bundle, _ := ref.ActiveBundle()
	assert.Equal(t, CodeBundle(active), bundle)
	assert.Equal(t, net.Coordinator, ref.Coordinator())
	assert.Equal(t, net.Factory, ref.Factory())

	coord, err := chain.Resolve[*deployment.Coordinator](c, net.Coordinator)
	require.NoError(t, err)
	assert.Equal(t, net.Reference, coord.ReferenceRegistry())

	assert.True(t, auth.HasCapability(context.Background(), admin, capability.Admin(net.Reference)))
	assert.True(t, auth.HasCapability(context.Background(), admin, capability.Admin(net.Coordinator)))

	require.Len(t, net.Modules, 4)
	for name, addr := range net.Modules {
		assert.Equal(t, ModuleAddress(name), addr)
		_, err := chain.Resolve[compliance.Module](c, addr)
		assert.NoError(t, err, name)
	}
}

func TestApplyTwiceFails(t *testing.T) {
	c := chain.New()
	auth := capability.NewTable()
	_, err := Apply(context.Background(), c, auth, Default(admin))
	require.NoError(t, err)

	_, err = Apply(context.Background(), c, auth, Default(admin))
	require.ErrorIs(t, err, chain.ErrAddressInUse)
}

func TestApplyReusesRecordedSeed(t *testing.T) {
	bundles := store.NewInMemory()
	_, err := Apply(context.Background(), chain.New(), capability.NewTable(), Default(admin), WithBundleStore(bundles))
	require.NoError(t, err)

	c := chain.New()
	net, err := Apply(context.Background(), c, capability.NewTable(), Default(admin), WithBundleStore(bundles))
	require.NoError(t, err)

	ref, err := chain.Resolve[*versions.Registry](c, net.Reference)
	require.NoError(t, err)
	active, ok := ref.ActiveVersion()
	require.True(t, ok)
	assert.Equal(t, net.Version, active)

	entries, err := bundles.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoad(t *testing.T) {
	write := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "genesis.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		cfg, err := Load(write(t, `
admin: "`+admin.Hex()+`"
version: "2.1.0"
modules:
  - name: cap
    type: max_balance
`))
		require.NoError(t, err)
		assert.Equal(t, admin, cfg.Admin)
		assert.Equal(t, domain.Version{Major: 2, Minor: 1}, cfg.Version)
		assert.Equal(t, []ModuleConfig{{Name: "cap", Type: ModuleMaxBalance}}, cfg.Modules)
	})

	t.Run("unknown module type", func(t *testing.T) {
		_, err := Load(write(t, `
admin: "`+admin.Hex()+`"
version: "1.0.0"
modules:
  - name: odd
    type: whitelist
`))
		assert.ErrorContains(t, err, "unknown type")
	})

	t.Run("missing admin", func(t *testing.T) {
		_, err := Load(write(t, `version: "1.0.0"`))
		assert.ErrorContains(t, err, "admin is required")
	})

	t.Run("duplicate module", func(t *testing.T) {
		_, err := Load(write(t, `
admin: "`+admin.Hex()+`"
version: "1.0.0"
modules:
  - name: a
    type: supply_limit
  - name: a
    type: country_allow
`))
		assert.ErrorContains(t, err, "declared twice")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
