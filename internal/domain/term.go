package domain

// TermKind distinguishes surname searches from category enumerations.
type TermKind string

const (
	TermName     TermKind = "name"
	TermCategory TermKind = "category"
)

// SearchTerm is a surname or category title tagged with its originating
// group. The tag is the sole source of a record's Group label.
type SearchTerm struct {
	Value string
	Kind  TermKind
	Group Group
}

// NameTerms wraps surnames into search terms for a group.
func NameTerms(group Group, names []string) []SearchTerm {
	terms := make([]SearchTerm, 0, len(names))
	for _, n := range names {
		terms = append(terms, SearchTerm{Value: n, Kind: TermName, Group: group})
	}
	return terms
}

// CategoryTerms wraps category titles into search terms for a group.
func CategoryTerms(group Group, categories []string) []SearchTerm {
	terms := make([]SearchTerm, 0, len(categories))
	for _, c := range categories {
		terms = append(terms, SearchTerm{Value: c, Kind: TermCategory, Group: group})
	}
	return terms
}
