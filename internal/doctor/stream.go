package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/stream"
)

// EndpointProbeCheck verifies the configured stream source answers. For
// Socket.IO it performs the polling handshake; for MQTT it connects and
// subscribes, then disconnects.
type EndpointProbeCheck struct {
	Config   *config.Config
	BuildEnv string
	Timeout  time.Duration
}

func (c *EndpointProbeCheck) Name() string     { return "stream_endpoint" }
func (c *EndpointProbeCheck) Category() string { return "STREAM" }

func (c *EndpointProbeCheck) Run(ctx context.Context) CheckResult {
	if c.Config == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot probe stream: config load error",
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.Config.Stream.Transport == config.TransportMQTT {
		return c.probeMQTT(ctx)
	}

	url, ok := c.Config.EndpointURL(c.BuildEnv)
	if !ok {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "No endpoint to probe",
		}
	}

	open, err := stream.Probe(ctx, url, timeout)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %v", url, err),
			Suggestion: "Check the server is running and the endpoint URL is correct",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s answered (sid %s, ping %dms)", url, open.SID, open.PingInterval),
	}
}

func (c *EndpointProbeCheck) probeMQTT(ctx context.Context) CheckResult {
	transport := stream.NewMQTT(c.Config.Stream.MQTT, c.Config.Stream.Event)

	conn, err := transport.Dial(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %v", transport, err),
			Suggestion: "Check the broker address and credentials",
		}
	}
	_ = conn.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s subscribed", transport),
	}
}

func (c *EndpointProbeCheck) Fix() error {
	return nil
}

// NewStreamChecks creates the stream checks.
func NewStreamChecks(cfg *config.Config, buildEnv string) []Check {
	return []Check{
		&EndpointProbeCheck{Config: cfg, BuildEnv: buildEnv},
	}
}
