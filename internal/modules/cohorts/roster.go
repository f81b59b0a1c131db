// Package cohorts maps groups onto named cohorts and builds per-cohort views.
package cohorts

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/salesrace/pitwall/internal/modules/schema"
)

const (
	Monaco  = "Monaco"
	Kyalami = "Kyalami"
)

// Roster is the static group -> cohort membership table.
// Group lookups ignore surrounding and repeated whitespace.
type Roster struct {
	names   []string
	members map[string][]string
	byGroup map[string]string
}

// NewRoster builds a roster from cohort name -> group names. order fixes the
// cohort order; cohorts missing from order are appended alphabetically.
// A group listed under two cohorts is an error.
func NewRoster(order []string, cohorts map[string][]string) (*Roster, error) {
	r := &Roster{
		members: make(map[string][]string, len(cohorts)),
		byGroup: make(map[string]string),
	}

	seen := make(map[string]bool, len(cohorts))
	for _, name := range order {
		if _, ok := cohorts[name]; ok && !seen[name] {
			r.names = append(r.names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range cohorts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	r.names = append(r.names, rest...)

	for _, name := range r.names {
		for _, g := range cohorts[name] {
			g = schema.NormalizeText(g)
			if g == "" {
				continue
			}
			if prev, dup := r.byGroup[g]; dup {
				if prev == name {
					continue
				}
				return nil, fmt.Errorf("group %q is listed in both %q and %q", g, prev, name)
			}
			r.byGroup[g] = name
			r.members[name] = append(r.members[name], g)
		}
	}

	return r, nil
}

// Names returns the cohort names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether the roster defines the cohort.
func (r *Roster) Has(cohort string) bool {
	for _, n := range r.names {
		if n == cohort {
			return true
		}
	}
	return false
}

// CohortOf returns the cohort a group belongs to.
func (r *Roster) CohortOf(group string) (string, bool) {
	c, ok := r.byGroup[schema.NormalizeText(group)]
	return c, ok
}

// Groups returns the configured groups of a cohort, sorted.
func (r *Roster) Groups(cohort string) []string {
	out := make([]string, len(r.members[cohort]))
	copy(out, r.members[cohort])
	sort.Strings(out)
	return out
}

type rosterFile struct {
	Cohorts yaml.Node `yaml:"cohorts"`
}

// ParseRoster reads a YAML roster of the form
//
//	cohorts:
//	  Monaco: [Ashley Moyo, ...]
//	  Kyalami: [Cindy Visser, ...]
//
// Cohort order follows the document.
func ParseRoster(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid roster YAML: %w", err)
	}
	if f.Cohorts.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("roster must contain a \"cohorts\" mapping")
	}

	var order []string
	cohorts := make(map[string][]string)
	content := f.Cohorts.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		var groups []string
		if err := content[i+1].Decode(&groups); err != nil {
			return nil, fmt.Errorf("cohort %q: %w", name, err)
		}
		if _, dup := cohorts[name]; dup {
			return nil, fmt.Errorf("cohort %q is defined twice", name)
		}
		order = append(order, name)
		cohorts[name] = groups
	}

	return NewRoster(order, cohorts)
}

// LoadRoster reads and parses a roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	r, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
