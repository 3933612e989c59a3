package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
)

func newInstance(t *testing.T, attrs map[string]any) *instance.Instance {
	t.Helper()
	inst, err := instance.New(instance.FixtureRecord{Attributes: attrs})
	require.NoError(t, err)
	return inst
}

func mustFilter(t *testing.T, keyword string, value *string, isRegex bool) *Filter {
	t.Helper()
	f, err := New(Spec{Keyword: keyword, Value: value, IsRegex: isRegex})
	require.NoError(t, err)
	return f
}

func TestFilterPresenceOnly(t *testing.T) {
	f := mustFilter(t, "eric", nil, false)
	assert.True(t, f.IsPresenceOnly())

	assert.False(t, f.Matches(newInstance(t, map[string]any{"eric": ""})))
	assert.False(t, f.Matches(newInstance(t, map[string]any{"eric": "   "})))
	assert.True(t, f.Matches(newInstance(t, map[string]any{"eric": "pig"})))
	assert.False(t, f.Matches(newInstance(t, map[string]any{"alpha": "beta"})), "missing attribute never matches")
}

func TestFilterExact(t *testing.T) {
	inst := newInstance(t, map[string]any{"alpha": "beta"})

	assert.True(t, mustFilter(t, "alpha", Value("beta"), false).Matches(inst))
	assert.False(t, mustFilter(t, "alpha", Value("Beta"), false).Matches(inst), "exact match is case-sensitive")
	assert.False(t, mustFilter(t, "alpha", Value("bet"), false).Matches(inst), "exact match is not a prefix match")
	assert.False(t, mustFilter(t, "gamma", Value("beta"), false).Matches(inst))
}

func TestFilterExactEmptyValue(t *testing.T) {
	f := mustFilter(t, "eric", Value(""), false)
	assert.False(t, f.IsPresenceOnly())
	assert.True(t, f.Matches(newInstance(t, map[string]any{"eric": ""})))
	assert.False(t, f.Matches(newInstance(t, map[string]any{"eric": "pig"})))
}

func TestFilterRegex(t *testing.T) {
	f := mustFilter(t, "id", Value("i-e48f12d[9a]"), true)

	assert.True(t, f.Matches(newInstance(t, map[string]any{"id": "i-e48f12d9"})))
	assert.True(t, f.Matches(newInstance(t, map[string]any{"id": "i-e48f12da"})))
	assert.False(t, f.Matches(newInstance(t, map[string]any{"id": "i-e48f12db"})))
}

func TestFilterRegexAnchoredAtStart(t *testing.T) {
	inst := newInstance(t, map[string]any{"name": "web-server-01"})

	assert.True(t, mustFilter(t, "name", Value("web"), true).Matches(inst), "prefix match is enough")
	assert.False(t, mustFilter(t, "name", Value("server"), true).Matches(inst), "match must start at position 0")
	assert.True(t, mustFilter(t, "name", Value(".*server"), true).Matches(inst))
	assert.True(t, mustFilter(t, "name", Value("db|web"), true).Matches(inst), "alternation stays anchored as a whole")
	assert.False(t, mustFilter(t, "name", Value("db|server"), true).Matches(inst))
}

func TestFilterRegexWithoutValueIsPresenceOnly(t *testing.T) {
	f := mustFilter(t, "eric", nil, true)
	assert.True(t, f.IsPresenceOnly())
	assert.True(t, f.IsRegex())
	assert.True(t, f.Matches(newInstance(t, map[string]any{"eric": "pig"})))
	assert.False(t, f.Matches(newInstance(t, map[string]any{"eric": " "})))
}

func TestFilterInvalidRegex(t *testing.T) {
	_, err := New(Spec{Keyword: "id", Value: Value("i-[unclosed"), IsRegex: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeCompile))

	_, err = New(Spec{Keyword: "id", Value: Value("i-[unclosed"), IsRegex: false})
	assert.NoError(t, err, "exact filters never compile their value")
}

func TestFilterTag(t *testing.T) {
	inst := newInstance(t, map[string]any{
		"id":   "i-e48f12da",
		"tags": map[string]any{"Name": "Sample2", "Tag2": "victoria"},
	})

	tests := []struct {
		name    string
		keyword string
		value   *string
		isRegex bool
		want    bool
	}{
		{"tags prefix", "tags.name", Value("Sample2"), false, true},
		{"tag prefix", "tag.name", Value("Sample2"), false, true},
		{"mixed case keyword", "Tags.Name", Value("Sample2"), false, true},
		{"value is case-sensitive", "tags.name", Value("sample2"), false, false},
		{"regex on tag", "tag.tag2", Value("vic"), true, true},
		{"presence on tag", "tags.tag2", nil, false, true},
		{"missing tag", "tags.owner", nil, false, false},
		{"plain name is an attribute", "name", Value("Sample2"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustFilter(t, tt.keyword, tt.value, tt.isRegex)
			assert.Equal(t, tt.keyword != "name", f.IsTag())
			assert.Equal(t, tt.want, f.Matches(inst))
		})
	}
}

func TestFilterTagName(t *testing.T) {
	f := mustFilter(t, "tags.aws:cloudformation:stack-name", nil, false)
	assert.True(t, f.IsTag())
	assert.Equal(t, "aws:cloudformation:stack-name", f.TagName())

	f = mustFilter(t, "tagged", nil, false)
	assert.False(t, f.IsTag())
	assert.Equal(t, "", f.TagName())
}

func TestFilterNilInstance(t *testing.T) {
	assert.False(t, mustFilter(t, "id", nil, false).Matches(nil))
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "(alpha,beta,false)", mustFilter(t, "alpha", Value("beta"), false).String())
	assert.Equal(t, "(batman,robin,true)", mustFilter(t, "batman", Value("robin"), true).String())
	assert.Equal(t, "(eric,<none>,false)", mustFilter(t, "eric", nil, false).String())
}

func TestFilterValue(t *testing.T) {
	v, ok := mustFilter(t, "alpha", Value("beta"), false).Value()
	assert.True(t, ok)
	assert.Equal(t, "beta", v)

	_, ok = mustFilter(t, "alpha", nil, false).Value()
	assert.False(t, ok)
}
