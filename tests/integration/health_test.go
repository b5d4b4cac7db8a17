package integration

import (
	"net/http"
	"testing"
	"time"
)

// TestServiceHealthy checks the liveness endpoint.
func TestServiceHealthy(t *testing.T) {
	skipIfNotRunning(t)

	status, body := httpGet(t, baseURL()+"/health")
	if status != http.StatusOK {
		t.Fatalf("health check returned %d, want 200", status)
	}
	if body["status"] != "up" {
		t.Errorf("health status = %v, want up", body["status"])
	}
}

// TestServiceReady checks that all registered dependencies report up.
func TestServiceReady(t *testing.T) {
	skipIfNotRunning(t)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL() + "/health/ready")
	if err != nil {
		t.Fatalf("readiness check: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("readiness check returned %d, want 200 (a dependency is down)", resp.StatusCode)
	}
}

// TestMetricsExposed checks that the Prometheus scrape endpoint responds.
func TestMetricsExposed(t *testing.T) {
	skipIfNotRunning(t)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL() + "/metrics")
	if err != nil {
		t.Fatalf("metrics endpoint: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics endpoint returned %d, want 200", resp.StatusCode)
	}
}
