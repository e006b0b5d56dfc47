package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "session_cleanup"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "job_success", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "job_failure", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestImportMetricsTracksRowsAndRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewImportMetrics(reg)
	metrics.ObserveRun("csv", 100*time.Millisecond)
	metrics.AddRows("imported", 8)
	metrics.AddRows("failed", 2)
	metrics.AddRows("failed", -1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "import_rows_total", "outcome", "imported"); err != nil {
		t.Fatalf("fetch imported: %v", err)
	} else if got != 8 {
		t.Fatalf("expected imported=8, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "import_rows_total", "outcome", "failed"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 2 {
		t.Fatalf("expected failed=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "import_runs_total", "file_type", "csv"); err != nil {
		t.Fatalf("fetch runs: %v", err)
	} else if got != 1 {
		t.Fatalf("expected runs=1, got %f", got)
	}
}

func TestAuthMetricsNilSafe(t *testing.T) {
	var metrics *AuthMetrics
	metrics.IncLogin("success")
	metrics.IncLogout()

	reg := prometheus.NewRegistry()
	metrics = NewAuthMetrics(reg)
	metrics.IncLogin("invalid_credentials")
	metrics.IncLogin("invalid_credentials")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "auth_login_attempts_total", "outcome", "invalid_credentials"); err != nil {
		t.Fatalf("fetch logins: %v", err)
	} else if got != 2 {
		t.Fatalf("expected logins=2, got %f", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
