// Package vcsup maps resolved roots onto the providers that will update them.
// This file contains the dispatch table: provider grouping, per-provider root
// canonicalization, and pre-flight option validation.
package vcsup

// Plan assigns one provider its minimal covering set of roots for one chain.
type Plan struct {
	Provider Provider
	Roots    []string
}

// BuildPlans groups resolved roots by owning provider and asks each provider
// for its minimal covering set of its assigned paths. The provider's own
// canonicalization is authoritative: it may collapse several paths into one
// containing root.
//
// Plan order is the first-appearance order of each provider in roots, so a
// chain executes providers in a stable, deterministic order.
func BuildPlans(roots []Root) []Plan {
	var plans []Plan
	index := make(map[string]int)
	for _, root := range roots {
		name := root.Provider.Name()
		i, ok := index[name]
		if !ok {
			i = len(plans)
			index[name] = i
			plans = append(plans, Plan{Provider: root.Provider})
		}
		plans[i].Roots = append(plans[i].Roots, root.Path)
	}

	for i := range plans {
		plans[i].Roots = plans[i].Provider.MinimalRoots(plans[i].Roots)
	}
	return plans
}

// ValidatePlans runs every provider's option validation with its assigned
// roots. Validation is atomic: the first rejection fails the whole dispatch
// and no provider's update runs. The returned error wraps
// ErrValidationFailed.
func ValidatePlans(plans []Plan) error {
	for _, plan := range plans {
		if err := plan.Provider.ValidateOptions(plan.Roots); err != nil {
			return WrapErrorf(ErrValidationFailed, "provider %q: %s", plan.Provider.Name(), err)
		}
	}
	return nil
}
