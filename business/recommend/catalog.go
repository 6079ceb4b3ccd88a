package recommend

import (
	"fmt"
	"strings"
)

type InterventionOption string

const (
	EmploymentAssistance               InterventionOption = "employment_assistance"
	LifeStabilization                  InterventionOption = "life_stabilization"
	RetentionServices                  InterventionOption = "retention_services"
	SpecializedServices                InterventionOption = "specialized_services"
	EmploymentRelatedFinancialSupports InterventionOption = "employment_related_financial_supports"
	EmployerFinancialSupports          InterventionOption = "employer_financial_supports"
	EnhancedReferrals                  InterventionOption = "enhanced_referrals"
)

// DefaultOptions is the service catalog in its canonical order.
func DefaultOptions() []InterventionOption {
	return []InterventionOption{
		EmploymentAssistance,
		LifeStabilization,
		RetentionServices,
		SpecializedServices,
		EmploymentRelatedFinancialSupports,
		EmployerFinancialSupports,
		EnhancedReferrals,
	}
}

// Exclusion is a pair of options that may not be delivered together.
type Exclusion [2]InterventionOption

// Catalog is the read-only set of interventions and the rules constraining
// how they combine. Build it once at startup and share it.
type Catalog struct {
	options  []InterventionOption
	index    map[InterventionOption]int
	maxSize  int
	excluded map[[2]int]struct{}
}

// NewCatalog validates options and rules. maxSize 0, or a value above the
// option count, allows combinations of every size.
func NewCatalog(options []InterventionOption, maxSize int, exclusions []Exclusion) (*Catalog, error) {
	if len(options) == 0 {
		return nil, &ConfigurationError{Reason: "catalog has no options"}
	}
	if maxSize < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("max combination size %d is negative", maxSize)}
	}

	c := &Catalog{
		options:  make([]InterventionOption, len(options)),
		index:    make(map[InterventionOption]int, len(options)),
		maxSize:  maxSize,
		excluded: make(map[[2]int]struct{}, len(exclusions)),
	}
	copy(c.options, options)

	for i, opt := range options {
		if strings.TrimSpace(string(opt)) == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("catalog option %d is blank", i)}
		}
		if _, dup := c.index[opt]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate catalog option %q", opt)}
		}
		c.index[opt] = i
	}

	if c.maxSize == 0 || c.maxSize > len(options) {
		c.maxSize = len(options)
	}

	for _, ex := range exclusions {
		a, okA := c.index[ex[0]]
		b, okB := c.index[ex[1]]
		if !okA || !okB {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("exclusion %s:%s names an unknown option", ex[0], ex[1])}
		}
		if a == b {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("exclusion %s:%s pairs an option with itself", ex[0], ex[1])}
		}
		c.excluded[pairKey(a, b)] = struct{}{}
	}

	return c, nil
}

// Options returns a copy of the options in catalog order.
func (c *Catalog) Options() []InterventionOption {
	out := make([]InterventionOption, len(c.options))
	copy(out, c.options)
	return out
}

func (c *Catalog) Len() int {
	return len(c.options)
}

// MaxSize is the effective maximum combination size.
func (c *Catalog) MaxSize() int {
	return c.maxSize
}

func (c *Catalog) Index(opt InterventionOption) (int, bool) {
	i, ok := c.index[opt]
	return i, ok
}

func (c *Catalog) excludes(a, b int) bool {
	_, ok := c.excluded[pairKey(a, b)]
	return ok
}

// Combination builds a catalog-ordered combination from names in any order.
func (c *Catalog) Combination(names ...string) (InterventionCombination, error) {
	seen := make([]bool, len(c.options))
	for _, name := range names {
		i, ok := c.index[InterventionOption(name)]
		if !ok {
			return nil, &EncodingError{Field: "interventions", Reason: fmt.Sprintf("%q is not in the catalog", name)}
		}
		if seen[i] {
			return nil, &EncodingError{Field: "interventions", Reason: fmt.Sprintf("%q listed more than once", name)}
		}
		seen[i] = true
	}

	combo := InterventionCombination{}
	for i, on := range seen {
		if on {
			combo = append(combo, c.options[i])
		}
	}
	return combo, nil
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// ParseExclusions reads "a:b,c:d".
func ParseExclusions(raw string) ([]Exclusion, error) {
	var out []Exclusion
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		left, right, ok := strings.Cut(part, ":")
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if !ok || left == "" || right == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("malformed exclusion %q, want a:b", part)}
		}
		out = append(out, Exclusion{InterventionOption(left), InterventionOption(right)})
	}
	return out, nil
}
