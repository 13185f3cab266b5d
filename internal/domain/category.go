package domain

// CategoryRef is a reference to a product category: a stable identifier plus
// a display label. It has no lifecycle of its own; it is always embedded in
// time-slot rules and product records.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryIDSet builds a membership set from a list of category references.
func CategoryIDSet(refs []CategoryRef) map[string]struct{} {
	set := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		set[ref.ID] = struct{}{}
	}
	return set
}
