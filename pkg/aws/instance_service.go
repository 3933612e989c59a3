package aws

import (
	"context"
	"fmt"
	"strings"

	"reaper/pkg/errors"
	"reaper/pkg/instance"
	"reaper/pkg/logging"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// EC2API is the subset of the EC2 client used by InstanceService.
// *ec2.Client satisfies it.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

var _ EC2API = (*ec2.Client)(nil)

// InstanceService lists EC2 instances and issues lifecycle requests for them
type InstanceService struct {
	api    EC2API
	region string
	logger *logging.Logger
}

var _ instance.Controller = (*InstanceService)(nil)

// NewInstanceService creates a new instance service
func NewInstanceService(api EC2API, region string, logger *logging.Logger) *InstanceService {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &InstanceService{
		api:    api,
		region: region,
		logger: logger,
	}
}

// NewInstanceServiceFromClient creates a service backed by client's EC2 client
func NewInstanceServiceFromClient(client *Client, logger *logging.Logger) *InstanceService {
	return NewInstanceService(client.EC2, client.Region(), logger)
}

// ListInstances retrieves every instance in the region, following
// DescribeInstances pagination, and adapts each to the uniform view.
func (s *InstanceService) ListInstances(ctx context.Context, region string) ([]*instance.Instance, error) {
	if region == "" {
		region = s.region
	}
	s.logger.Debug("Listing EC2 instances", "region", region)

	var instances []*instance.Instance
	paginator := ec2.NewDescribeInstancesPaginator(s.api, &ec2.DescribeInstancesInput{})

	page := 0
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewProviderError(
				fmt.Sprintf("failed to describe instances in %s", region), err).
				WithContext("region", region)
		}
		page++

		for _, reservation := range output.Reservations {
			for _, ec2Instance := range reservation.Instances {
				inst, err := instance.New(instance.LiveRecord{Instance: ec2Instance, Region: region})
				if err != nil {
					return nil, errors.NewProviderError("failed to read instance record", err)
				}
				instances = append(instances, inst)
			}
		}
	}

	s.logger.Debug("Listed EC2 instances", "region", region, "count", len(instances), "pages", page)
	return instances, nil
}

// StartInstance requests that a stopped instance be started
func (s *InstanceService) StartInstance(ctx context.Context, instanceID string) error {
	if err := validateInstanceID(instanceID); err != nil {
		return err
	}
	s.logger.Debug("Starting instance", "instance_id", instanceID)

	_, err := s.api.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return providerError("start", instanceID, err)
	}
	return nil
}

// StopInstance requests that a running instance be stopped
func (s *InstanceService) StopInstance(ctx context.Context, instanceID string) error {
	if err := validateInstanceID(instanceID); err != nil {
		return err
	}
	s.logger.Debug("Stopping instance", "instance_id", instanceID)

	_, err := s.api.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return providerError("stop", instanceID, err)
	}
	return nil
}

// TerminateInstance requests that an instance be terminated
func (s *InstanceService) TerminateInstance(ctx context.Context, instanceID string) error {
	if err := validateInstanceID(instanceID); err != nil {
		return err
	}
	s.logger.Debug("Terminating instance", "instance_id", instanceID)

	_, err := s.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return providerError("terminate", instanceID, err)
	}
	return nil
}

func providerError(action, instanceID string, err error) error {
	return errors.NewProviderError(fmt.Sprintf("failed to %s instance %s", action, instanceID), err).
		WithContext("instance_id", instanceID)
}

// validateInstanceID rejects handles that cannot be EC2 instance IDs before
// any request is sent.
func validateInstanceID(instanceID string) error {
	if !isInstanceID(instanceID) {
		return errors.NewValidationError(fmt.Sprintf("invalid instance ID: %q", instanceID))
	}
	return nil
}

// isInstanceID checks if a string matches the AWS instance ID pattern
func isInstanceID(identifier string) bool {
	// AWS instance IDs follow the pattern: i-[0-9a-f]{8,17}
	if len(identifier) < 10 || len(identifier) > 19 {
		return false
	}

	if !strings.HasPrefix(identifier, "i-") {
		return false
	}

	for _, char := range identifier[2:] {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f')) {
			return false
		}
	}

	return true
}
