package gitprovider

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluviusStan/vcsup"
)

// initRepo creates a non-bare repository on disk.
func initRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo
}

// commitFile writes name under dir, stages it, and commits.
func commitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(name)
	require.NoError(t, err)
	_, err = worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

// TestRepoRoot tests enclosing repository discovery
func TestRepoRoot(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/work/repo/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/repo/internal/cli", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/plain", 0o755))

	p := New(WithFilesystem(fsys))

	tests := []struct {
		name     string
		path     string
		expected string
		found    bool
	}{
		{"repository root itself", "/work/repo", "/work/repo", true},
		{"nested path", "/work/repo/internal/cli", "/work/repo", true},
		{"unclean nested path", "/work/repo/internal/../internal", "/work/repo", true},
		{"outside any repository", "/work/plain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, ok := p.RepoRoot(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, root)
			assert.Equal(t, tt.found, p.Owns(tt.path))
		})
	}
}

// TestDiscoverRoots tests repository discovery below a directory
func TestDiscoverRoots(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/work/app/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/app/pkg", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/group/lib/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/plain", 0o755))

	p := New(WithFilesystem(fsys))

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{
			name:     "directory holding repositories yields each root",
			path:     "/work",
			expected: []string{"/work/app", "/work/group/lib"},
		},
		{
			name:     "path inside a repository yields its root only",
			path:     "/work/app/pkg",
			expected: []string{"/work/app"},
		},
		{
			name:     "repository root yields itself",
			path:     "/work/group/lib",
			expected: []string{"/work/group/lib"},
		},
		{
			name:     "directory without repositories yields nothing",
			path:     "/work/plain",
			expected: nil,
		},
		{
			name:     "missing directory yields nothing",
			path:     "/nowhere",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.DiscoverRoots(tt.path))
		})
	}
}

// TestMinimalRoots tests repository-boundary canonicalization
func TestMinimalRoots(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/work/app/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/app/pkg", 0o755))
	require.NoError(t, fsys.MkdirAll("/work/lib/.git", 0o755))

	p := New(WithFilesystem(fsys))

	tests := []struct {
		name     string
		paths    []string
		expected []string
	}{
		{
			name:     "paths inside one repository collapse to its root",
			paths:    []string{"/work/app/pkg", "/work/app"},
			expected: []string{"/work/app"},
		},
		{
			name:     "distinct repositories stay distinct",
			paths:    []string{"/work/app/pkg", "/work/lib"},
			expected: []string{"/work/app", "/work/lib"},
		},
		{
			name:     "path covering no repository passes through",
			paths:    []string{"/work/other"},
			expected: []string{"/work/other"},
		},
		{
			name:     "containing directory expands to the roots below it",
			paths:    []string{"/work"},
			expected: []string{"/work/app", "/work/lib"},
		},
		{
			name:     "expansion deduplicates against direct roots",
			paths:    []string{"/work/lib", "/work"},
			expected: []string{"/work/lib", "/work/app"},
		},
		{
			name:     "first-appearance order is preserved",
			paths:    []string{"/work/lib", "/work/app/pkg", "/work/lib"},
			expected: []string{"/work/lib", "/work/app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.MinimalRoots(tt.paths))
		})
	}
}

// TestName tests the provider identity used for continuation keying
func TestName(t *testing.T) {
	assert.Equal(t, "git", New().Name())
}

// TestValidateOptions tests pre-flight repository validation
func TestValidateOptions(t *testing.T) {
	t.Run("root without a repository is rejected", func(t *testing.T) {
		dir := t.TempDir()
		p := New()

		err := p.ValidateOptions([]string{dir})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRepository))
	})

	t.Run("repository without the configured remote is rejected", func(t *testing.T) {
		dir := t.TempDir()
		initRepo(t, dir)
		p := New()

		err := p.ValidateOptions([]string{dir})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no remote "origin"`)
	})

	t.Run("repository with remote passes", func(t *testing.T) {
		dir := t.TempDir()
		repo := initRepo(t, dir)
		_, err := repo.CreateRemote(&config.RemoteConfig{
			Name: DefaultRemoteName,
			URLs: []string{"https://example.com/repo.git"},
		})
		require.NoError(t, err)

		assert.NoError(t, New().ValidateOptions([]string{dir}))
	})

	t.Run("first bad root fails the whole set", func(t *testing.T) {
		good := t.TempDir()
		repo := initRepo(t, good)
		_, err := repo.CreateRemote(&config.RemoteConfig{
			Name: DefaultRemoteName,
			URLs: []string{"https://example.com/repo.git"},
		})
		require.NoError(t, err)
		bad := t.TempDir()

		err = New().ValidateOptions([]string{bad, good})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRepository))
	})
}

// TestProviderImplementsInterface pins the vcsup.Provider contract.
func TestProviderImplementsInterface(t *testing.T) {
	var _ vcsup.Provider = New()
}
