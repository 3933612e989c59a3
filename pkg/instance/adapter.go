package instance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Record is the input to New: either a LiveRecord or a FixtureRecord.
type Record interface {
	isRecord()
}

// LiveRecord wraps an instance returned by EC2 DescribeInstances.
type LiveRecord struct {
	Instance types.Instance
	Region   string
}

// FixtureRecord is a flat attribute bag, typically decoded from YAML or JSON.
// A "tags" entry holding a map becomes the instance's tag map.
type FixtureRecord struct {
	Attributes map[string]any
}

func (LiveRecord) isRecord()    {}
func (FixtureRecord) isRecord() {}

// New normalizes a record into the uniform Instance view.
func New(rec Record) (*Instance, error) {
	switch r := rec.(type) {
	case LiveRecord:
		return fromEC2(r.Instance, r.Region), nil
	case *LiveRecord:
		if r == nil {
			return nil, fmt.Errorf("nil live record")
		}
		return fromEC2(r.Instance, r.Region), nil
	case FixtureRecord:
		return fromFixture(r.Attributes)
	case *FixtureRecord:
		if r == nil {
			return nil, fmt.Errorf("nil fixture record")
		}
		return fromFixture(r.Attributes)
	default:
		return nil, fmt.Errorf("unsupported instance record type %T", rec)
	}
}

// fromEC2 maps SDK fields onto the attribute names filters are written against.
// Nil or empty SDK fields are left out so that they never match.
func fromEC2(in types.Instance, region string) *Instance {
	attrs := make(map[string]string)
	set := func(name string, value *string) {
		if value != nil {
			attrs[name] = *value
		}
	}
	setString := func(name, value string) {
		if value != "" {
			attrs[name] = value
		}
	}

	set(AttrID, in.InstanceId)
	if in.State != nil {
		setString(AttrState, string(in.State.Name))
		if in.State.Code != nil {
			attrs["state_code"] = strconv.Itoa(int(*in.State.Code))
		}
	}
	setString("instance_type", string(in.InstanceType))
	set("image_id", in.ImageId)
	set("key_name", in.KeyName)
	set("private_ip_address", in.PrivateIpAddress)
	set("ip_address", in.PublicIpAddress)
	set("private_dns_name", in.PrivateDnsName)
	set("public_dns_name", in.PublicDnsName)
	set("dns_name", in.PublicDnsName)
	set("vpc_id", in.VpcId)
	set("subnet_id", in.SubnetId)
	setString("architecture", string(in.Architecture))
	setString("root_device_type", string(in.RootDeviceType))
	set("root_device_name", in.RootDeviceName)
	if in.LaunchTime != nil {
		attrs["launch_time"] = in.LaunchTime.UTC().Format(time.RFC3339)
	}
	setString("platform", string(in.Platform))
	set("platform_details", in.PlatformDetails)
	setString("hypervisor", string(in.Hypervisor))
	setString("virtualization_type", string(in.VirtualizationType))
	set("kernel", in.KernelId)
	set("ramdisk", in.RamdiskId)
	set("spot_instance_request_id", in.SpotInstanceRequestId)
	set("reason", in.StateTransitionReason)
	if in.AmiLaunchIndex != nil {
		attrs["ami_launch_index"] = strconv.Itoa(int(*in.AmiLaunchIndex))
	}
	if in.Placement != nil {
		set("placement", in.Placement.AvailabilityZone)
		setString("tenancy", string(in.Placement.Tenancy))
	}
	if in.Monitoring != nil {
		setString("monitoring_state", string(in.Monitoring.State))
	}
	setString("region", region)

	tags := make(map[string]string, len(in.Tags))
	for _, tag := range in.Tags {
		if tag.Key != nil && tag.Value != nil {
			tags[*tag.Key] = *tag.Value
		}
	}

	return newInstance(attrs, tags)
}

func fromFixture(data map[string]any) (*Instance, error) {
	attrs := make(map[string]string, len(data))
	tags := make(map[string]string)

	for key, value := range data {
		if key == "tags" {
			if value == nil {
				continue
			}
			tagMap, err := toTagMap(value)
			if err != nil {
				return nil, err
			}
			tags = tagMap
			continue
		}
		if s, ok := scalarString(value); ok {
			attrs[key] = s
		}
	}

	return newInstance(attrs, tags), nil
}

func toTagMap(value any) (map[string]string, error) {
	out := make(map[string]string)
	switch m := value.(type) {
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if s, ok := scalarString(v); ok {
				out[k] = s
			}
		}
	default:
		return nil, fmt.Errorf("fixture tags must be a mapping, got %T", value)
	}
	return out, nil
}

// scalarString renders scalar fixture values. nil and composite values
// (lists, nested maps) are not addressable as attributes.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(v), true
	case time.Time:
		return v.UTC().Format(time.RFC3339), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
