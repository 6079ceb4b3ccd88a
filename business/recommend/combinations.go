package recommend

import "strings"

// InterventionCombination is a set of options kept in catalog order.
type InterventionCombination []InterventionOption

// Key is a stable identifier such as "employment_assistance+life_stabilization".
// The empty combination is "none".
func (c InterventionCombination) Key() string {
	if len(c) == 0 {
		return "none"
	}
	parts := make([]string, len(c))
	for i, opt := range c {
		parts[i] = string(opt)
	}
	return strings.Join(parts, "+")
}

func (c InterventionCombination) Size() int {
	return len(c)
}

// Generator enumerates every feasible combination of the catalog.
type Generator struct {
	catalog *Catalog
}

func NewGenerator(catalog *Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Generate returns the empty combination first, then combinations by
// increasing size, each size in lexicographic catalog-index order. Any
// combination containing an excluded pair is skipped.
//
// The profile is not consulted yet; it is the hook for per-client eligibility.
func (g *Generator) Generate(_ ClientProfile) ([]InterventionCombination, error) {
	if g.catalog == nil || g.catalog.Len() == 0 {
		return nil, &ConfigurationError{Reason: "catalog has no options"}
	}

	out := []InterventionCombination{{}}
	n := g.catalog.Len()
	idx := make([]int, 0, g.catalog.MaxSize())

	for size := 1; size <= g.catalog.MaxSize(); size++ {
		var walk func(start int)
		walk = func(start int) {
			if len(idx) == size {
				combo := make(InterventionCombination, size)
				for i, j := range idx {
					combo[i] = g.catalog.options[j]
				}
				out = append(out, combo)
				return
			}
			for j := start; j <= n-(size-len(idx)); j++ {
				if g.conflicts(idx, j) {
					continue
				}
				idx = append(idx, j)
				walk(j + 1)
				idx = idx[:len(idx)-1]
			}
		}
		walk(0)
	}

	return out, nil
}

func (g *Generator) conflicts(chosen []int, next int) bool {
	for _, i := range chosen {
		if g.catalog.excludes(i, next) {
			return true
		}
	}
	return false
}
