package cli

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluviusStan/vcsup"
	"github.com/fluviusStan/vcsup/gitprovider"
)

func TestRepoLocator(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/work/app/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/lib/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/elsewhere", 0o755))

	provider := gitprovider.New(gitprovider.WithFilesystem(fsys))
	locator := newRepoLocator(provider, []string{"/work"})

	t.Run("repository roots are discovered beneath the requested paths", func(t *testing.T) {
		assert.Equal(t, []string{"/work/app", "/work/lib"}, locator.Roots())
	})

	t.Run("path inside a repository is tracked", func(t *testing.T) {
		assert.NotNil(t, locator.ProviderFor("/work/app/pkg"))
		assert.True(t, locator.Tracked("/work/app/pkg"))
	})

	t.Run("containing directory resolves but is not tracked", func(t *testing.T) {
		assert.NotNil(t, locator.ProviderFor("/work"))
		assert.False(t, locator.Tracked("/work"))
	})

	t.Run("unrelated path resolves to nothing", func(t *testing.T) {
		assert.Nil(t, locator.ProviderFor("/elsewhere"))
	})

	t.Run("root membership keeps the containing directory", func(t *testing.T) {
		roots := vcsup.Resolve([]string{"/work"}, vcsup.ScopeRootMembership, locator)
		require.Len(t, roots, 1)
		assert.Equal(t, "/work", roots[0].Path)

		plans := vcsup.BuildPlans(roots)
		require.Len(t, plans, 1)
		assert.Equal(t, []string{"/work/app", "/work/lib"}, plans[0].Roots)
	})

	t.Run("strict scope drops the containing directory", func(t *testing.T) {
		assert.Empty(t, vcsup.Resolve([]string{"/work"}, vcsup.ScopeStrict, locator))
	})
}

func TestUpdateFlagsBoundThroughConfig(t *testing.T) {
	// Flag defaults must be visible through viper so the config file can
	// override every knob, not just some of them.
	assert.Equal(t, gitprovider.DefaultRemoteName, viper.GetString("remote"))
	assert.Equal(t, 0, viper.GetInt("depth"))
	assert.Equal(t, "strict", viper.GetString("scope"))
}
