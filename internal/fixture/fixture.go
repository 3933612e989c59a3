// Package fixture reads instance records from YAML or JSON files so the
// selection pipeline can run without an AWS account.
package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
	"reaper/pkg/security"
)

//go:embed sample.yaml
var sampleYAML []byte

// document is the file layout: a top-level "instances" list. A bare list of
// records is accepted as well.
type document struct {
	Instances []map[string]any `yaml:"instances"`
}

// SampleYAML returns the built-in sample fixture.
func SampleYAML() []byte {
	return bytes.Clone(sampleYAML)
}

// Sample returns the built-in records: three instances, running, stopped
// and terminated, tagged Sample1 to Sample3.
func Sample() []instance.FixtureRecord {
	records, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample fixture is invalid: %v", err))
	}
	return records
}

// Load validates path and parses the records it contains.
func Load(path string) ([]instance.FixtureRecord, error) {
	if err := security.ValidateFixturePath(path); err != nil {
		return nil, errors.NewConfigError("invalid fixture file", err).WithContext("path", path)
	}

	// #nosec G304 - path validated above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read fixture file", err).WithContext("path", path)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse fixture file %s", path), err).
			WithContext("path", path)
	}
	return records, nil
}

// Parse decodes fixture data. JSON input is accepted since it is valid YAML.
func Parse(data []byte) ([]instance.FixtureRecord, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	var raw []map[string]any
	switch top := root.Content[0]; top.Kind {
	case yaml.SequenceNode:
		if err := top.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var doc document
		if err := top.Decode(&doc); err != nil {
			return nil, err
		}
		raw = doc.Instances
	default:
		return nil, fmt.Errorf("fixture must be a list of instances or a mapping with an 'instances' key")
	}

	records := make([]instance.FixtureRecord, 0, len(raw))
	for i, attrs := range raw {
		if attrs == nil {
			return nil, fmt.Errorf("instance %d is empty", i)
		}
		records = append(records, instance.FixtureRecord{Attributes: attrs})
	}
	return records, nil
}

// Instances adapts records to the uniform instance view.
func Instances(records []instance.FixtureRecord) ([]*instance.Instance, error) {
	instances := make([]*instance.Instance, 0, len(records))
	for i, rec := range records {
		inst, err := instance.New(rec)
		if err != nil {
			return nil, fmt.Errorf("fixture instance %d: %w", i, err)
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
