package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/probe"
	"github.com/thirukguru/aws-wastesweep/service/probe/probetest"
	"github.com/thirukguru/aws-wastesweep/service/regions"
	"github.com/thirukguru/aws-wastesweep/service/report"
	"github.com/thirukguru/aws-wastesweep/service/scanner"
	"github.com/thirukguru/aws-wastesweep/service/storage"
	awssts "github.com/thirukguru/aws-wastesweep/service/sts"
	"github.com/thirukguru/aws-wastesweep/shared/metrics"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClients struct {
	ec2 map[string]*probetest.EC2
}

func (f fakeClients) ForRegion(region string) (probe.EC2ClientAPI, probe.ELBClientAPI) {
	client, ok := f.ec2[region]
	if !ok {
		client = &probetest.EC2{}
	}
	return client, &probetest.ELB{}
}

type fakeSTS struct{}

func (fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	subjects []string
	docs     []string
	err      error
}

func (n *fakeNotifier) Send(_ context.Context, subject, document string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	n.docs = append(n.docs, document)
	return n.err
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subjects)
}

type stubScanner struct {
	scan func(region string) model.RegionResult
}

func (s stubScanner) Scan(_ context.Context, region string) model.RegionResult {
	return s.scan(region)
}

func (s stubScanner) AccountID(context.Context) (string, error) {
	return "123456789012", nil
}

func twoRegionClients() fakeClients {
	return fakeClients{ec2: map[string]*probetest.EC2{
		"region-a": {
			Volumes:   []ec2types.Volume{probetest.AvailableVolume("vol-a", 100)},
			Snapshots: []ec2types.Snapshot{probetest.Snapshot("snap-a", 50, fixedNow.AddDate(0, 0, -45))},
		},
		"region-b": {Err: errors.New("AuthFailure")},
	}}
}

func newPipeline(clients scanner.ClientFactory, n *fakeNotifier, extra func(*Dependencies)) Service {
	probes := probe.All(probe.Options{
		Pricing: model.DefaultPriceTable(),
		Now:     func() time.Time { return fixedNow },
	})
	deps := Dependencies{
		Regions:  regions.NewStatic([]string{"region-a", "region-b"}),
		Scanner:  scanner.NewService(clients, awssts.NewServiceWithClient(fakeSTS{}), probes, nil),
		Report:   report.NewService(func() time.Time { return fixedNow }),
		Notifier: n,
	}
	if extra != nil {
		extra(&deps)
	}
	return NewService(deps)
}

func TestRunReportsSurvivingRegions(t *testing.T) {
	n := &fakeNotifier{}
	svc := newPipeline(twoRegionClients(), n, nil)

	status, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusReportSent, status.Status)
	require.NotNil(t, status.Savings)
	assert.InDelta(t, 10.50, *status.Savings, 0.0001)

	require.Equal(t, 1, n.calls())
	assert.Equal(t, "💸 AWS Waste Report: $10.50 Potential Savings", n.subjects[0])
	doc := n.docs[0]
	require.Contains(t, doc, "vol-a")
	require.Contains(t, doc, "snap-a")
	assert.Less(t, strings.Index(doc, "vol-a"), strings.Index(doc, "snap-a"), "costlier finding first")
	assert.Contains(t, doc, "$8.00")
	assert.Contains(t, doc, "$2.50")
	assert.Contains(t, doc, "region-b")
}

func TestRunCleanSkipsNotification(t *testing.T) {
	n := &fakeNotifier{}
	svc := newPipeline(fakeClients{}, n, nil)

	status, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CleanStatus(), status)
	assert.Zero(t, n.calls())
}

func TestRunNotifierFailureIsFatal(t *testing.T) {
	cause := errors.New("MessageRejected")
	n := &fakeNotifier{err: cause}
	svc := newPipeline(twoRegionClients(), n, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to deliver waste report")
	assert.Equal(t, 1, n.calls())
}

func TestRunRecordsMetricsAndHistory(t *testing.T) {
	store, err := storage.NewService(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	svc := newPipeline(twoRegionClients(), &fakeNotifier{}, func(d *Dependencies) {
		d.Storage = store
		d.Metrics = recorder
		d.Version = "test"
	})

	_, err = svc.Run(context.Background())
	require.NoError(t, err)

	runs, err := store.GetRecentRuns(context.Background(), "123456789012", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.StatusReportSent, runs[0].Status)
	assert.Equal(t, 2, runs[0].TotalFindings)
	assert.Equal(t, 1, runs[0].RegionsFailed)
	assert.Equal(t, "10.50", runs[0].Total.StringFixed(2))

	count, err := testutil.GatherAndCount(reg, "wastesweep_findings_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestScanAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	regionList := []string{"r0", "r1", "r2", "r3", "r4", "r5"}
	svc := NewService(Dependencies{
		Scanner: stubScanner{scan: func(region string) model.RegionResult {
			if region == "r3" {
				return model.RegionResult{Region: region, Err: errors.New("throttled")}
			}
			return model.RegionResult{Region: region, Findings: []model.Finding{{Region: region, ResourceID: "x-" + region}}}
		}},
	})

	results := svc.ScanAll(context.Background(), regionList)
	require.Len(t, results, len(regionList))
	for i, r := range results {
		assert.Equal(t, regionList[i], r.Region)
	}
	assert.Len(t, model.CollectFindings(results), len(regionList)-1)
	assert.Equal(t, []string{"r3"}, model.FailedRegions(results))
}

func TestScanAllRecoversPanics(t *testing.T) {
	svc := NewService(Dependencies{
		Scanner: stubScanner{scan: func(region string) model.RegionResult {
			if region == "bad" {
				panic("nil map")
			}
			return model.RegionResult{Region: region}
		}},
	})

	results := svc.ScanAll(context.Background(), []string{"good", "bad"})
	require.Len(t, results, 2)
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.Equal(t, "bad", results[1].Region)
	assert.Contains(t, results[1].Err.Error(), "nil map")
}

func TestScanAllRespectsParallelLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	svc := NewService(Dependencies{
		Scanner: stubScanner{scan: func(region string) model.RegionResult {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return model.RegionResult{Region: region}
		}},
	})

	regionList := make([]string, 25)
	for i := range regionList {
		regionList[i] = "region"
	}

	results := svc.ScanAll(context.Background(), regionList)
	assert.Len(t, results, 25)
	assert.LessOrEqual(t, peak.Load(), int32(DefaultMaxParallel))
	assert.Positive(t, peak.Load())
}

func TestScanAllCustomLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	svc := NewService(Dependencies{
		MaxParallel: 2,
		Scanner: stubScanner{scan: func(region string) model.RegionResult {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return model.RegionResult{Region: region}
		}},
	})

	svc.ScanAll(context.Background(), []string{"a", "b", "c", "d", "e"})
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
