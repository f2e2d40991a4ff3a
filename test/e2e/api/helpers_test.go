//go:build e2e

package api_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for API end-to-end tests.
 * This includes container setup, account helpers and assertions.
 */

const (
	testImageName = "soapbox-api-test:latest"

	jwtSecret     = "e2e-secret-0123456789abcdef0123456789"
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Soapbox API Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Soapbox API Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/api/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupAPIContainer starts the API in a container and returns the running
// container and its base URL.
func setupAPIContainer(t *testing.T) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"3000/tcp"},
		Env: map[string]string{
			"JWT_SECRET": jwtSecret,
			"ENV":        "test",
			"LOG_LEVEL":  "info",
			"LOG_FORMAT": "json",
		},
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("3000/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "3000")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return container, fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// createAdmin runs the CLI inside the container to provision an admin.
func createAdmin(t *testing.T, container testcontainers.Container) {
	t.Helper()

	code, out, err := container.Exec(t.Context(), []string{
		"soapbox", "users", "create-admin",
		"--username", adminUsername,
		"--email", adminEmail,
		"--password", adminPassword,
	})
	require.NoError(t, err)
	if code != 0 {
		b, _ := io.ReadAll(out)
		t.Fatalf("create-admin exited %d: %s", code, b)
	}
}

// registerAndLogin creates a regular account and returns an authenticated session.
func registerAndLogin(t *testing.T, client *apisdk.Client, username string) (*apisdk.UserResponse, *apisdk.Session) {
	t.Helper()

	password := "password-" + username
	resp, err := client.Register(t.Context(), apisdk.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err, "Register should succeed")
	require.Equal(t, "user", resp.User.Role)

	session, err := client.Authenticate(t.Context(), username, password)
	require.NoError(t, err, "Login should succeed")

	return &resp.User, session
}

// assertStatus checks that err is an API error with the given status.
func assertStatus(t *testing.T, err error, status int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.Equal(t, status, apisdk.StatusCode(err), "%s: %v", context, err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *apisdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertLinks checks that every named link is present.
func assertLinks(t *testing.T, links apisdk.Links, names ...string) {
	t.Helper()
	for _, name := range names {
		l, ok := links[name]
		require.True(t, ok, "missing link %q", name)
		require.True(t, strings.HasPrefix(l.Href, "/"), "link %q should be a path, got %q", name, l.Href)
	}
}
