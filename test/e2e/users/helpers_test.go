package users_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/usersdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for user directory end-to-end tests.
 * This includes container setup, account creation, and assertions.
 */

const testImageName = "userdir-test:latest"

// relaxedLimits lifts the production rate limits; the suite makes many
// rapid requests from one address.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
	"RATELIMIT_LENIENT_REQUESTS":  "1000",
	"RATELIMIT_LENIENT_BURST":     "1000",
}

// TestMain builds the Docker image once before all tests and removes it
// afterwards. With -short the suite is skipped entirely.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping end-to-end tests in -short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building user directory Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up user directory Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/usersd/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupContainer starts the service with relaxed rate limits and returns its
// base URL. The container is terminated when the test ends.
func setupContainer(t *testing.T) string {
	t.Helper()
	return startContainer(t, relaxedLimits)
}

// setupContainerWithDefaultRateLimits keeps the production limits, for tests
// that check rate limiting itself.
func setupContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"DATABASE_FILE": "/data/users.db",
		"PEPPER_FILE":   "/data/pepper",
		"ENV":           "test",
		"LOG_LEVEL":     "info",
		"LOG_FORMAT":    "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// createAndLogin registers username and returns the created user and a
// logged-in session.
func createAndLogin(t *testing.T, client *usersdk.SDKClient, username string) (*usersdk.UserResponse, *usersdk.Session) {
	t.Helper()

	user, err := client.CreateUser(t.Context(), usersdk.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Passw0rd-" + username,
	})
	require.NoError(t, err)

	session, tok, err := client.Login(t.Context(), username, "Passw0rd-"+username)
	require.NoError(t, err)
	assertTokenResponse(t, tok)

	return user, session
}

func assertTokenResponse(t *testing.T, resp *usersdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Token, "token should not be empty")
	require.Equal(t, "Bearer", resp.TokenType)
	require.True(t, resp.ExpiresAt.After(time.Now()), "token should not be expired")
}

func assertHealthy(t *testing.T, health *usersdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

func assertAPIError(t *testing.T, err error, want *usersdk.APIError) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want, "got %v", err)
}
