// Package gitprovider implements vcsup.Provider for git working copies on
// top of go-git. A single provider instance serves every git repository
// reachable through its filesystem; each repository root is updated with a
// fast-forward pull from its configured remote.
package gitprovider

import (
	"errors"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/rs/zerolog"

	"github.com/fluviusStan/vcsup"
)

const (
	// DefaultRemoteName is the remote updates are pulled from.
	DefaultRemoteName = "origin"

	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// providerName keys this provider in chain continuation state.
	providerName = "git"
)

// ErrNotRepository is returned from option validation when a root does not
// hold a git repository.
var ErrNotRepository = errors.New("not a git repository")

// AuthProvider resolves authentication methods for git operations.
// Implementations should handle different URL schemes and credential sources.
type AuthProvider interface {
	// Method returns the appropriate transport.AuthMethod for the given
	// remote URL. Returns nil if no authentication is needed for this URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Provider updates git working copies. It is stateless between rounds: git
// replays all remote history in a single pass, so it never hands back a
// pending continuation.
type Provider struct {
	fs        billy.Filesystem
	remote    string
	depth     int
	auth      AuthProvider
	cacheSize int
	log       zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithFilesystem sets the filesystem repositories are discovered in.
// Defaults to the OS filesystem rooted at /.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(p *Provider) { p.fs = fsys }
}

// WithRemote sets the remote name pulled from. Defaults to origin.
func WithRemote(remote string) Option {
	return func(p *Provider) { p.remote = remote }
}

// WithDepth makes fetches shallow with the given depth when > 0.
func WithDepth(depth int) Option {
	return func(p *Provider) { p.depth = depth }
}

// WithAuth sets the per-URL authentication resolver.
func WithAuth(auth AuthProvider) Option {
	return func(p *Provider) { p.auth = auth }
}

// WithStorerCacheSize sets the LRU object cache entries per opened
// repository.
func WithStorerCacheSize(size int) Option {
	return func(p *Provider) { p.cacheSize = size }
}

// WithLogger sets the provider logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// New creates a git provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		remote:    DefaultRemoteName,
		cacheSize: DefaultStorerCacheSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = osfs.New("/")
	}
	return p
}

// Name implements vcsup.Provider.
func (p *Provider) Name() string { return providerName }

// RepoRoot walks up from path looking for the enclosing repository root
// (the nearest directory holding a .git entry).
func (p *Provider) RepoRoot(path string) (string, bool) {
	dir := filepath.Clean(path)
	for {
		if _, err := p.fs.Stat(filepath.Join(dir, git.GitDirName)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Owns reports whether path lives inside a git repository.
func (p *Provider) Owns(path string) bool {
	_, ok := p.RepoRoot(path)
	return ok
}

// DiscoverRoots returns every repository root at or below path, in
// filesystem walk order. A path inside a repository resolves to that
// repository's root; the walk never descends into a repository it found.
// Returns nil when nothing below path is a repository.
func (p *Provider) DiscoverRoots(path string) []string {
	if root, ok := p.RepoRoot(path); ok {
		return []string{root}
	}
	var roots []string
	p.walkRepos(filepath.Clean(path), &roots)
	return roots
}

func (p *Provider) walkRepos(dir string, roots *[]string) {
	if _, err := p.fs.Stat(filepath.Join(dir, git.GitDirName)); err == nil {
		*roots = append(*roots, dir)
		return
	}
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p.walkRepos(filepath.Join(dir, entry.Name()), roots)
	}
}

// MinimalRoots collapses paths into the set of repository roots they cover,
// deduplicated in first-appearance order. A repository boundary is atomic
// for git: several paths inside one repository become that repository's
// root. A directory holding repositories deeper down expands to those
// roots. Paths covering no repository at all pass through unchanged so
// validation can reject them visibly.
func (p *Provider) MinimalRoots(paths []string) []string {
	var roots []string
	seen := make(map[string]bool, len(paths))
	add := func(root string) {
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	for _, path := range paths {
		discovered := p.DiscoverRoots(path)
		if len(discovered) == 0 {
			add(filepath.Clean(path))
			continue
		}
		for _, root := range discovered {
			add(root)
		}
	}
	return roots
}

// ValidateOptions implements the pre-flight check: every root must open as
// a non-bare repository with the configured remote.
func (p *Provider) ValidateOptions(roots []string) error {
	for _, root := range roots {
		repo, err := p.open(root)
		if err != nil {
			return vcsup.WrapErrorf(ErrNotRepository, "root %q: %s", root, err)
		}
		if _, err := repo.Remote(p.remote); err != nil {
			return vcsup.WrapErrorf(err, "root %q has no remote %q", root, p.remote)
		}
	}
	return nil
}

// open opens the repository at root through the provider filesystem, using
// .git storage with an LRU object cache and the root itself as worktree.
func (p *Provider) open(root string) (*git.Repository, error) {
	scoped, err := p.fs.Chroot(root)
	if err != nil {
		return nil, vcsup.WrapErrorf(err, "failed to chroot to %q", root)
	}
	dotGit, err := scoped.Chroot(git.GitDirName)
	if err != nil {
		return nil, vcsup.WrapError(err, "failed to access .git directory")
	}
	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRU(cache.FileSize(p.cacheSize)))
	return git.Open(storage, scoped)
}

// authMethod resolves the auth method for the configured remote of repo.
func (p *Provider) authMethod(repo *git.Repository) (transport.AuthMethod, error) {
	if p.auth == nil {
		return nil, nil
	}
	remote, err := repo.Remote(p.remote)
	if err != nil {
		return nil, vcsup.WrapError(err, "failed to get remote configuration")
	}
	return p.auth.Method(remote.Config().URLs[0])
}
