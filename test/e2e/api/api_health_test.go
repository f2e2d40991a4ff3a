//go:build e2e

package api_test

import (
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
)

// TestHealthEndpoints verifies both probes answer before any account exists.
func TestHealthEndpoints(t *testing.T) {
	_, baseURL := setupAPIContainer(t)
	client := apisdk.NewClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	t.Logf("Health endpoints are healthy, version %s", health.Version)
}
