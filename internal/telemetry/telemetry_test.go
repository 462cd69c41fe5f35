package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global registry
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestRecordAnalysis(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordAnalysisStart(telemetry.KindCrossPlatform)
	provider.RecordAnalysisComplete(telemetry.KindCrossPlatform, 250*time.Millisecond)
	provider.RecordAnalysisFailure(telemetry.KindListing, "no_content")
}

func TestRecordAdapterSearch(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordAdapterSearch("amazon", false, 80*time.Millisecond)
	provider.RecordAdapterSearch("temu", true, 5*time.Second)
}

func TestRecordRunOutcome(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordRunOutcome(72.5, 9)
	provider.RecordFlags(domain.AuthenticityFlagSet{
		IdenticalImages: []string{"https://a.example/1", "https://b.example/2"},
	})
	provider.RecordPODDetection()
	provider.RecordQuotaRejection()
	provider.RecordHistoryWrite(false)
	provider.RecordHistoryWrite(true)
}
