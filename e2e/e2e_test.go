package e2e

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/logfwd/app"
	"github.com/kilianp07/logfwd/config"
	"github.com/kilianp07/logfwd/core/factory"
	infratelemetry "github.com/kilianp07/logfwd/infra/telemetry"
	"github.com/kilianp07/logfwd/test/util"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// junitReport is a minimal JUnit XML report so CI can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

// startInflux starts an InfluxDB 2.7 container already set up with the
// suite's org, bucket and admin token.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// Test_E2E_ExceptionPipeline drives an exception submission through the
// service into InfluxDB, a JSON-lines file and the Prometheus endpoint, and
// checks that both halves share one correlation token everywhere.
func Test_E2E_ExceptionPipeline(t *testing.T) {
	if !util.DockerAvailable() {
		t.Skip("docker not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	influxCont, influxURL := startInflux(ctx, t)
	defer influxCont.Terminate(ctx) //nolint:errcheck
	t.Logf("InfluxDB started at %s", influxURL)

	cli := NewInfluxClient(influxURL, influxOrg, influxBucket, influxToken)
	defer cli.Close()
	require.NoError(t, cli.SetupBucket(ctx))

	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "events.jsonl")
	port := freePort(t)
	cfg := &config.Config{
		Sinks: []factory.ModuleConfig{
			{Type: "influx", Conf: map[string]any{
				"url": influxURL, "token": influxToken, "org": influxOrg, "bucket": influxBucket,
			}},
			{Type: "jsonl", Conf: map[string]any{"path": jsonlPath}},
		},
		Metrics: config.MetricsConfig{PrometheusEnabled: true, PrometheusPort: port},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := app.New(cfg)
	require.NoError(t, err)
	runCtx, stop := context.WithCancel(ctx)
	go func() { _ = svc.Run(runCtx) }()

	l, err := svc.Logger("e2e")
	require.NoError(t, err)
	start := time.Now()
	require.NoError(t, l.ErrorException("payment failed", errors.New("card declined")))
	require.NoError(t, l.Info("after"))

	mctx, mcancel := context.WithTimeout(ctx, util.MetricTimeout)
	err = util.WaitForMetric(mctx, fmt.Sprintf("http://127.0.0.1:%d/metrics", port),
		`logfwd_events_total{kind="exception",severity="error",source="e2e"} 1`)
	mcancel()
	require.NoError(t, err)

	stop()
	require.NoError(t, svc.Close())

	events, err := cli.Events(ctx, "5m")
	require.NoError(t, err)
	require.Len(t, events, 3)
	byKind := map[string][]LoggedEvent{}
	for _, ev := range events {
		byKind[ev.Kind] = append(byKind[ev.Kind], ev)
	}
	require.Len(t, byKind["exception"], 1)
	exc := byKind["exception"][0]
	assert.Equal(t, "error", exc.Severity)
	assert.Equal(t, "card declined", exc.Message)
	assert.NotEmpty(t, exc.ReferenceID)

	var linked *LoggedEvent
	for i, ev := range byKind["log"] {
		if ev.Message == "payment failed" {
			linked = &byKind["log"][i]
		}
	}
	require.NotNil(t, linked)
	assert.Equal(t, exc.ReferenceID, linked.ReferenceID)
	assert.Equal(t, "debug", linked.Severity)

	recs, err := infratelemetry.QueryJSONL(jsonlPath, infratelemetry.Query{ReferenceID: exc.ReferenceID})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{
		Name: "Test_E2E_ExceptionPipeline",
		Time: time.Since(start).Seconds(),
	}}}
	if err := writeJUnit(filepath.Join(dir, "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}
