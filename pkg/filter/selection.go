package filter

import (
	"strings"

	"reaper/pkg/instance"
)

// Select keeps the instances that match at least one include filter (all of
// them when there are no includes) and then drops every instance matching
// any exclude filter. Input order is preserved.
func Select(instances []*instance.Instance, includes, excludes []*Filter) []*instance.Instance {
	selected := make([]*instance.Instance, 0, len(instances))
	for _, inst := range instances {
		if len(includes) > 0 && !anyMatch(includes, inst) {
			continue
		}
		if anyMatch(excludes, inst) {
			continue
		}
		selected = append(selected, inst)
	}
	return selected
}

func anyMatch(filters []*Filter, inst *instance.Instance) bool {
	for _, f := range filters {
		if f.Matches(inst) {
			return true
		}
	}
	return false
}

// Criteria holds the ordered include and exclude lists for one run.
type Criteria struct {
	Includes []*Filter
	Excludes []*Filter
}

// CompileCriteria compiles include and exclude specs into Criteria.
func CompileCriteria(includes, excludes []Spec) (Criteria, error) {
	inc, err := Compile(includes)
	if err != nil {
		return Criteria{}, err
	}
	exc, err := Compile(excludes)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Includes: inc, Excludes: exc}, nil
}

// Select applies the criteria to instances.
func (c Criteria) Select(instances []*instance.Instance) []*instance.Instance {
	return Select(instances, c.Includes, c.Excludes)
}

// Describe lists the filters in the order they were given, one line per list.
func (c Criteria) Describe() string {
	var b strings.Builder
	b.WriteString("Includes: ")
	b.WriteString(joinFilters(c.Includes))
	b.WriteString("\nExcludes: ")
	b.WriteString(joinFilters(c.Excludes))
	return b.String()
}

func joinFilters(filters []*Filter) string {
	if len(filters) == 0 {
		return "[]"
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
