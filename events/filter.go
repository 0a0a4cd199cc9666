package events

// FilterTypes returns a filter passing only the given event types.
// A nil or empty list yields a nil filter, meaning pass-all.
func FilterTypes(types []string) func(Event) bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	}
}

// ResolveBackends expands backend names into their event types through
// BackendTypes. Unknown names are ignored.
func ResolveBackends(names []string) []string {
	var types []string
	for _, name := range names {
		types = append(types, BackendTypes[name]...)
	}
	return types
}

// NewFilter combines an include list and an exclude list. Exclusion wins.
func NewFilter(include, exclude []string) func(Event) bool {
	inc := FilterTypes(include)
	exc := FilterTypes(exclude)
	switch {
	case inc == nil && exc == nil:
		return nil
	case exc == nil:
		return inc
	}
	return func(e Event) bool {
		if exc(e) {
			return false
		}
		return inc == nil || inc(e)
	}
}
