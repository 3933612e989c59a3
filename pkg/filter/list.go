package filter

// BuildList compiles raw (keyword, value, isRegex) tuples in order. Entries
// that are not exactly three elements, or whose elements have the wrong
// types, are dropped. The value element may be a string, a *string or nil.
func BuildList(raw [][]any) ([]*Filter, error) {
	specs := make([]Spec, 0, len(raw))
	for _, entry := range raw {
		spec, ok := specFromTuple(entry)
		if !ok {
			continue
		}
		specs = append(specs, spec)
	}
	return Compile(specs)
}

func specFromTuple(entry []any) (Spec, bool) {
	if len(entry) != 3 {
		return Spec{}, false
	}

	keyword, ok := entry[0].(string)
	if !ok {
		return Spec{}, false
	}

	isRegex, ok := entry[2].(bool)
	if !ok {
		return Spec{}, false
	}

	var value *string
	switch v := entry[1].(type) {
	case nil:
	case string:
		value = &v
	case *string:
		if v != nil {
			s := *v
			value = &s
		}
	default:
		return Spec{}, false
	}

	return Spec{Keyword: keyword, Value: value, IsRegex: isRegex}, true
}

// Compile builds one Filter per Spec, preserving order. The first compile
// error aborts the whole list.
func Compile(specs []Spec) ([]*Filter, error) {
	filters := make([]*Filter, 0, len(specs))
	for _, spec := range specs {
		f, err := New(spec)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
