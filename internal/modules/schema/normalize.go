package schema

import "strings"

// Normalized is a table whose columns are canonical field names, together
// with the source header each field was resolved from.
type Normalized struct {
	Table   Table
	Mapping map[Field]string
}

// Has reports whether the field was resolved.
func (n Normalized) Has(f Field) bool {
	_, ok := n.Mapping[f]
	return ok
}

// Normalizer resolves input headers against an alias dictionary first and
// an ordered list of substring rules second.
type Normalizer struct {
	aliases map[string]Field
	rules   []Rule
}

// NewNormalizer builds a normalizer from alias and rule data.
func NewNormalizer(aliases []HeaderAlias, rules []Rule) *Normalizer {
	idx := make(map[string]Field, len(aliases))
	for _, a := range aliases {
		key := FoldHeader(a.Header)
		if _, dup := idx[key]; !dup {
			idx[key] = a.Field
		}
	}
	return &Normalizer{aliases: idx, rules: rules}
}

// DefaultNormalizer uses DefaultAliases and DefaultRules.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultAliases, DefaultRules)
}

// Resolve returns the column index chosen for each resolvable field.
// Each column is claimed at most once; the first candidate in input order wins.
func (n *Normalizer) Resolve(columns []string) map[Field]int {
	folded := make([]string, len(columns))
	for i, c := range columns {
		folded[i] = FoldHeader(c)
	}

	resolved := make(map[Field]int)
	claimed := make([]bool, len(columns))

	for i, key := range folded {
		f, ok := n.aliases[key]
		if !ok {
			continue
		}
		if _, done := resolved[f]; done {
			continue
		}
		resolved[f] = i
		claimed[i] = true
	}

	for _, rule := range n.rules {
		if _, done := resolved[rule.Field]; done {
			continue
		}
		for i, key := range folded {
			if claimed[i] || key == "" || strings.HasPrefix(key, PlaceholderPrefix) {
				continue
			}
			if rule.Matches(key) {
				resolved[rule.Field] = i
				claimed[i] = true
				break
			}
		}
	}

	return resolved
}

// Normalize projects t onto the canonical fields. It fails with a
// *SchemaError when a required field cannot be resolved.
func (n *Normalizer) Normalize(t Table) (Normalized, error) {
	resolved := n.Resolve(t.Columns)

	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := resolved[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		available := make([]string, len(t.Columns))
		copy(available, t.Columns)
		return Normalized{}, &SchemaError{
			Source:    t.Source,
			Missing:   missing,
			Available: available,
		}
	}

	var (
		fields  []Field
		sources []int
	)
	mapping := make(map[Field]string, len(resolved))
	for _, f := range CanonicalFields {
		idx, ok := resolved[f]
		if !ok {
			continue
		}
		fields = append(fields, f)
		sources = append(sources, idx)
		mapping[f] = t.Columns[idx]
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f)
	}

	rows := make([][]any, len(t.Rows))
	for r := range t.Rows {
		row := make([]any, len(sources))
		for c, src := range sources {
			row[c] = t.Cell(r, src)
		}
		rows[r] = row
	}

	return Normalized{
		Table:   Table{Source: t.Source, Columns: columns, Rows: rows},
		Mapping: mapping,
	}, nil
}
