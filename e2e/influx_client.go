package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient wraps the InfluxDB v2 client for the end-to-end suite. It
// reads back what the influx sink wrote and hides the org/bucket plumbing.
type InfluxClient struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for an already running server.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		org:    org,
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// LoggedEvent is one log_event point as read back from InfluxDB.
type LoggedEvent struct {
	Kind        string
	Severity    string
	Source      string
	ReferenceID string
	Message     string
}

// Events returns the message field of every log_event point written in the
// last window.
func (c *InfluxClient) Events(ctx context.Context, window string) ([]LoggedEvent, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -%s)
  |> filter(fn: (r) => r._measurement == "log_event" and r._field == "message")`, c.bucket, window)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer res.Close()
	var out []LoggedEvent
	for res.Next() {
		rec := res.Record()
		ev := LoggedEvent{
			Kind:     tag(rec.ValueByKey("kind")),
			Severity: tag(rec.ValueByKey("severity")),
			Source:   tag(rec.ValueByKey("source")),
		}
		ev.ReferenceID = tag(rec.ValueByKey("reference_id"))
		if s, ok := rec.Value().(string); ok {
			ev.Message = s
		}
		out = append(out, ev)
	}
	return out, res.Err()
}

func tag(v any) string {
	s, _ := v.(string)
	return s
}

// SetupBucket ensures the organisation and bucket exist, creating them
// through the management API when missing.
func (c *InfluxClient) SetupBucket(ctx context.Context) error {
	orgAPI := c.client.OrganizationsAPI()
	org, err := orgAPI.FindOrganizationByName(ctx, c.org)
	if err != nil || org == nil {
		org, err = orgAPI.CreateOrganizationWithName(ctx, c.org)
		if err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}

	bucketAPI := c.client.BucketsAPI()
	buckets, err := bucketAPI.FindBucketsByOrgName(ctx, c.org)
	if err != nil {
		return err
	}
	if buckets != nil {
		for _, b := range *buckets {
			if b.Name == c.bucket {
				return nil
			}
		}
	}
	_, err = bucketAPI.CreateBucketWithName(ctx, org, c.bucket)
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
