package filter

import (
	"fmt"
	"regexp"
	"strings"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
)

// Keyword prefixes that route a filter to the tag map.
const (
	tagsPrefix = "tags."
	tagPrefix  = "tag."
)

// Spec is a raw filter as produced by argument parsing, before compilation.
type Spec struct {
	Keyword string
	Value   *string
	IsRegex bool
}

// Value returns a pointer to v, for building Specs by hand.
func Value(v string) *string {
	return &v
}

type matchKind int

const (
	matchPresence matchKind = iota
	matchExact
	matchRegex
)

// Filter is a compiled predicate over a single instance. It is immutable
// once built by New.
type Filter struct {
	keyword string
	tagName string
	isTag   bool
	value   *string
	isRegex bool
	kind    matchKind
	pattern *regexp.Regexp
}

// New compiles a Spec. A regex Spec with no value is compiled as a presence
// check; a regex Spec with an invalid pattern fails with a compile error.
func New(spec Spec) (*Filter, error) {
	keyword := strings.ToLower(strings.TrimSpace(spec.Keyword))
	f := &Filter{
		keyword: keyword,
		isRegex: spec.IsRegex,
	}

	if name, ok := tagName(keyword); ok {
		f.isTag = true
		f.tagName = name
	}

	switch {
	case spec.Value == nil:
		f.kind = matchPresence
	case spec.IsRegex:
		value := *spec.Value
		re, err := regexp.Compile("^(?:" + value + ")")
		if err != nil {
			return nil, errors.NewCompileError(
				fmt.Sprintf("invalid regular expression %q for %s", value, keyword), err).
				WithContext("keyword", keyword)
		}
		f.value = &value
		f.kind = matchRegex
		f.pattern = re
	default:
		value := *spec.Value
		f.value = &value
		f.kind = matchExact
	}

	return f, nil
}

func tagName(keyword string) (string, bool) {
	for _, prefix := range []string{tagsPrefix, tagPrefix} {
		if strings.HasPrefix(keyword, prefix) {
			return keyword[len(prefix):], true
		}
	}
	return "", false
}

// Keyword returns the lowercased keyword the filter was built from.
func (f *Filter) Keyword() string { return f.keyword }

// IsTag reports whether the filter looks up a tag rather than an attribute.
func (f *Filter) IsTag() bool { return f.isTag }

// TagName returns the tag the filter looks up, or "" for attribute filters.
func (f *Filter) TagName() string { return f.tagName }

// IsRegex reports whether the filter was requested as a regex filter.
func (f *Filter) IsRegex() bool { return f.isRegex }

// IsPresenceOnly reports whether the filter only checks for a non-empty value.
func (f *Filter) IsPresenceOnly() bool { return f.kind == matchPresence }

// Value returns the raw comparison value and whether one was given.
func (f *Filter) Value() (string, bool) {
	if f.value == nil {
		return "", false
	}
	return *f.value, true
}

// Matches evaluates the filter against inst. An attribute or tag that the
// instance does not have never matches.
func (f *Filter) Matches(inst *instance.Instance) bool {
	if inst == nil {
		return false
	}

	var (
		actual string
		found  bool
	)
	if f.isTag {
		actual, found = inst.Tag(f.tagName)
	} else {
		actual, found = inst.Attribute(f.keyword)
	}
	if !found {
		return false
	}

	switch f.kind {
	case matchPresence:
		return strings.TrimSpace(actual) != ""
	case matchRegex:
		return f.pattern.MatchString(actual)
	default:
		return actual == *f.value
	}
}

// String renders the filter as (keyword,value,isRegex).
func (f *Filter) String() string {
	value := "<none>"
	if f.value != nil {
		value = *f.value
	}
	return fmt.Sprintf("(%s,%s,%t)", f.keyword, value, f.isRegex)
}
