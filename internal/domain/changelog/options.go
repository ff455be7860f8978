package changelog

// ListOptions provides filtering options for listing entries.
type ListOptions struct {
	EventID *string
	Type    *Type
	Limit   int
	Offset  int
}
