package fixture

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSample(t *testing.T) {
	records := Sample()
	require.Len(t, records, 3)

	instances, err := Instances(records)
	require.NoError(t, err)

	want := []struct{ id, state, name string }{
		{"i-e48f12d9", "running", "Sample1"},
		{"i-e48f12da", "stopped", "Sample2"},
		{"i-e48f12db", "terminated", "Sample3"},
	}
	for i, w := range want {
		assert.Equal(t, w.id, instances[i].ID())
		state, _ := instances[i].State()
		assert.Equal(t, w.state, state)
		name, _ := instances[i].Name()
		assert.Equal(t, w.name, name)
	}

	tag1, ok := instances[0].Tag("tag1")
	assert.True(t, ok)
	assert.Equal(t, "Hello Dolly", tag1)

	ip, ok := instances[1].Attribute("private_ip_address")
	assert.True(t, ok)
	assert.Equal(t, "172.31.22.98", ip)

	_, ok = instances[0].Attribute("ip_address")
	assert.False(t, ok, "null values are absent")
	_, ok = instances[0].Attribute("groups")
	assert.False(t, ok, "lists are absent")

	code, _ := instances[1].Attribute("state_code")
	assert.Equal(t, "80", code)
	monitored, _ := instances[0].Attribute("monitored")
	assert.Equal(t, "false", monitored)
}

func TestSampleYAMLIsACopy(t *testing.T) {
	data := SampleYAML()
	data[0] = 'X'
	assert.NotEqual(t, data[0], SampleYAML()[0])
}

func TestParseBareList(t *testing.T) {
	records, err := Parse([]byte(`
- id: i-1
  state: running
- id: i-2
`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "i-2", records[1].Attributes["id"])
}

func TestParseJSON(t *testing.T) {
	records, err := Parse([]byte(`{"instances": [{"id": "i-1", "state": "stopped", "tags": {"Name": "web"}}]}`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	inst, err := instance.New(records[0])
	require.NoError(t, err)
	name, _ := inst.Name()
	assert.Equal(t, "web", name)
}

func TestParseEmpty(t *testing.T) {
	records, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = Parse([]byte("instances: []\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"scalar document", "just a string"},
		{"invalid yaml", "instances: [unclosed"},
		{"instances not a list", "instances: nope"},
		{"empty record", "- id: i-1\n- \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "fleet.yaml", string(SampleYAML()))

	records, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"wrong extension", writeFile(t, "fleet.txt", "instances: []")},
		{"directory", func() string {
			p := filepath.Join(dir, "dir.yaml")
			require.NoError(t, os.Mkdir(p, 0755))
			return p
		}()},
		{"bad content", writeFile(t, "bad.yaml", "instances: nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrTypeConfig))
		})
	}
}

func TestProviderListInstances(t *testing.T) {
	p := NewProvider(Sample(), nil)

	first, err := p.ListInstances(context.Background(), "ap-southeast-2")
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Mutating a listed instance does not leak into the next listing.
	require.NoError(t, first[1].RequestStart(context.Background(), p))
	second, err := p.ListInstances(context.Background(), "ap-southeast-2")
	require.NoError(t, err)
	state, _ := second[1].State()
	assert.Equal(t, "stopped", state)
}

func TestProviderBadRecord(t *testing.T) {
	p := NewProvider([]instance.FixtureRecord{{Attributes: map[string]any{"id": "i-1", "tags": []any{"x"}}}}, nil)
	_, err := p.ListInstances(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeProvider))
}

func TestProviderRecordsRequests(t *testing.T) {
	p := NewProvider(Sample(), nil)
	ctx := context.Background()

	require.NoError(t, p.StartInstance(ctx, "i-e48f12da"))
	require.NoError(t, p.StopInstance(ctx, "i-e48f12d9"))
	require.NoError(t, p.TerminateInstance(ctx, "i-e48f12db"))

	assert.Equal(t, []Request{
		{Action: "start", InstanceID: "i-e48f12da"},
		{Action: "stop", InstanceID: "i-e48f12d9"},
		{Action: "terminate", InstanceID: "i-e48f12db"},
	}, p.Requests())
}

type failingController struct{ instance.NoopController }

func (failingController) StopInstance(context.Context, string) error {
	return stderrors.New("IncorrectInstanceState")
}

func TestProviderWithController(t *testing.T) {
	p := NewProvider(Sample(), nil).WithController(failingController{})
	ctx := context.Background()

	assert.NoError(t, p.StartInstance(ctx, "i-e48f12da"))
	assert.Error(t, p.StopInstance(ctx, "i-e48f12d9"))
	assert.Len(t, p.Requests(), 2, "failed requests are still recorded")
}

func TestLoadProvider(t *testing.T) {
	path := writeFile(t, "fleet.json", `[{"id": "i-0123456789abcdef0", "state": "running"}]`)

	p, err := LoadProvider(path, nil)
	require.NoError(t, err)

	instances, err := p.ListInstances(context.Background(), "us-east-1")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "i-0123456789abcdef0", instances[0].ID())

	_, err = LoadProvider(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}
