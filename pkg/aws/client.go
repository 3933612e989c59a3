package aws

import (
	"context"

	"reaper/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Client wraps the EC2 client with its resolved configuration
type Client struct {
	Config aws.Config
	EC2    *ec2.Client
}

// ClientOptions configures the AWS client
type ClientOptions struct {
	Region  string
	Profile string
}

// NewClient creates a new AWS client using the default credential chain
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewProviderError("failed to load AWS configuration", err)
	}

	return &Client{
		Config: cfg,
		EC2:    ec2.NewFromConfig(cfg),
	}, nil
}

// Region returns the region the client was configured for
func (c *Client) Region() string {
	return c.Config.Region
}
