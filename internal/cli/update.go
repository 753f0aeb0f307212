package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fluviusStan/vcsup"
	"github.com/fluviusStan/vcsup/gitprovider"
)

var updateCmd = &cobra.Command{
	Use:   "update [paths...]",
	Short: "Update working copies under the given paths",
	Long: `Update brings every repository under the given paths (default: the
current directory) up to date. Overlapping paths are deduplicated and
collapsed to repository roots before anything runs.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().String("remote", gitprovider.DefaultRemoteName, "remote to pull from")
	updateCmd.Flags().Int("depth", 0, "shallow fetch depth (0 for full history)")
	updateCmd.Flags().String("scope", "strict",
		"root filtering scope (strict, root-membership)")

	_ = viper.BindPFlag("remote", updateCmd.Flags().Lookup("remote"))
	_ = viper.BindPFlag("depth", updateCmd.Flags().Lookup("depth"))
	_ = viper.BindPFlag("scope", updateCmd.Flags().Lookup("scope"))

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	log := newLogger()

	scope, err := parseScope(viper.GetString("scope"))
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("cannot resolve path %q: %w", path, err)
		}
		paths[i] = abs
	}

	provider := gitprovider.New(
		gitprovider.WithRemote(viper.GetString("remote")),
		gitprovider.WithDepth(viper.GetInt("depth")),
		gitprovider.WithLogger(log),
	)

	engine := vcsup.New(newRepoLocator(provider, paths),
		vcsup.WithLogger(log),
		vcsup.WithNotifier(&consoleNotifier{log: log}),
		vcsup.WithProgress(vcsup.LogProgress(log)),
	)

	report, err := engine.Run(cmd.Context(), vcsup.Request{
		Paths:             paths,
		Scope:             scope,
		ChangesFileStatus: true,
	})
	if err != nil {
		return err
	}
	if report == nil {
		log.Info().Msg("nothing to update under the given paths")
		return nil
	}
	if hard := report.HardErrors(); len(hard) > 0 {
		return fmt.Errorf("update finished with %d error(s)", len(hard))
	}
	return nil
}

// parseScope maps the --scope flag to a ScopeMode.
func parseScope(s string) (vcsup.ScopeMode, error) {
	switch s {
	case "strict":
		return vcsup.ScopeStrict, nil
	case "root-membership":
		return vcsup.ScopeRootMembership, nil
	default:
		return 0, fmt.Errorf("unknown scope %q (want strict or root-membership)", s)
	}
}

// repoLocator assigns paths to the git provider. Paths inside a repository
// are tracked; a directory holding repositories deeper down still resolves
// to the provider and exposes those repositories through Roots, so
// root-membership scope can keep the containing directory.
type repoLocator struct {
	provider *gitprovider.Provider
	roots    []string
}

// newRepoLocator discovers the repository roots reachable beneath the
// requested paths up front; resolution then only answers from that set.
func newRepoLocator(provider *gitprovider.Provider, paths []string) repoLocator {
	var roots []string
	seen := make(map[string]bool)
	for _, path := range paths {
		for _, root := range provider.DiscoverRoots(path) {
			if !seen[root] {
				seen[root] = true
				roots = append(roots, root)
			}
		}
	}
	return repoLocator{provider: provider, roots: roots}
}

func (l repoLocator) ProviderFor(path string) vcsup.Provider {
	if l.provider.Owns(path) {
		return l.provider
	}
	for _, root := range l.roots {
		if covers(path, root) {
			return l.provider
		}
	}
	return nil
}

func (l repoLocator) Tracked(path string) bool { return l.provider.Owns(path) }

func (l repoLocator) Roots() []string { return l.roots }

// covers reports whether target equals path or lives below it.
func covers(path, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(path), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." ||
		(rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
