package fixture

import (
	"context"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
	"reaper/pkg/logging"
)

// Request is one lifecycle call received by a Provider.
type Request struct {
	Action     string
	InstanceID string
}

// Provider serves fixture instances in place of EC2. Lifecycle requests are
// recorded and then passed to the wrapped controller, a no-op by default.
type Provider struct {
	records    []instance.FixtureRecord
	controller instance.Controller
	logger     *logging.Logger

	requests []Request
}

// NewProvider creates a provider over records.
func NewProvider(records []instance.FixtureRecord, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Provider{
		records:    records,
		controller: instance.NoopController{},
		logger:     logger,
	}
}

// LoadProvider creates a provider from a fixture file.
func LoadProvider(path string, logger *logging.Logger) (*Provider, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewProvider(records, logger), nil
}

// WithController replaces the controller requests are passed to.
func (p *Provider) WithController(c instance.Controller) *Provider {
	p.controller = c
	return p
}

// ListInstances returns a fresh instance for every record. The region is
// not used to narrow the records.
func (p *Provider) ListInstances(_ context.Context, region string) ([]*instance.Instance, error) {
	p.logger.Debug("Listing fixture instances", "region", region, "count", len(p.records))

	instances, err := Instances(p.records)
	if err != nil {
		return nil, errors.NewProviderError("failed to read fixture instances", err)
	}
	return instances, nil
}

func (p *Provider) StartInstance(ctx context.Context, instanceID string) error {
	p.requests = append(p.requests, Request{Action: "start", InstanceID: instanceID})
	return p.controller.StartInstance(ctx, instanceID)
}

func (p *Provider) StopInstance(ctx context.Context, instanceID string) error {
	p.requests = append(p.requests, Request{Action: "stop", InstanceID: instanceID})
	return p.controller.StopInstance(ctx, instanceID)
}

func (p *Provider) TerminateInstance(ctx context.Context, instanceID string) error {
	p.requests = append(p.requests, Request{Action: "terminate", InstanceID: instanceID})
	return p.controller.TerminateInstance(ctx, instanceID)
}

// Requests returns the lifecycle calls received so far, in order.
func (p *Provider) Requests() []Request {
	return append([]Request(nil), p.requests...)
}

var _ instance.Controller = (*Provider)(nil)
