package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	compose "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/pkg/jwt"
)

// jwtSecret must match the secret in resources/docker-compose.yaml.
const jwtSecret = "change-me"

func TestClientLedgerLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skip e2e in short mode")
	}

	configureDockerDesktop(t)

	composeFile := filepath.Join("resources", "docker-compose.yaml")

	stack, err := compose.NewDockerCompose(composeFile)
	require.NoError(t, err)

	stack.
		WaitForService("mongo", wait.ForListeningPort("27017/tcp")).
		WaitForService("rabbitmq", wait.ForListeningPort("5672/tcp")).
		WaitForService("redis", wait.ForListeningPort("6379/tcp")).
		WaitForService("server", wait.ForListeningPort("8080/tcp"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, stack.Up(ctx, compose.Wait(true)))
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer shutdownCancel()
		_ = stack.Down(shutdownCtx, compose.RemoveOrphans(true), compose.RemoveVolumes(true))
	}()

	serverContainer, err := stack.ServiceContainer(ctx, "server")
	require.NoError(t, err)

	host, err := serverContainer.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := serverContainer.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	baseURL := "http://" + host + ":" + mappedPort.Port()

	manager, err := jwt.NewSymmetric([]byte(jwtSecret), "washline_ledger")
	require.NoError(t, err)
	token, err := manager.Generate(map[string]interface{}{
		"user_id": primitive.NewObjectID().Hex(),
		"name":    "e2e-operator",
		"email":   "operator@example.com",
	}, jwt.WithExpiresAt(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	c := &apiClient{baseURL: baseURL, token: token, client: &http.Client{Timeout: 10 * time.Second}}

	// Create a client.
	createBody := c.do(t, ctx, http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"name":    "E2E Laundry Client",
		"phone":   fmt.Sprintf("09%08d", time.Now().UnixNano()%100000000),
		"address": "12 Wash St",
	}, http.StatusCreated)
	clientID, _ := createBody["data"].(map[string]interface{})["id"].(string)
	require.NotEmpty(t, clientID)

	// Duplicate phone is refused.
	phone := createBody["data"].(map[string]interface{})["phone"].(string)
	c.do(t, ctx, http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"name":  "Duplicate",
		"phone": phone,
	}, http.StatusConflict)

	// Add prepaid credit.
	c.do(t, ctx, http.MethodPost, "/api/v1/clients/"+clientID+"/deposits", map[string]interface{}{
		"amount": "100.00",
		"notes":  "opening credit",
	}, http.StatusCreated)

	// The statement derives the credit from the transaction stream.
	statement := c.do(t, ctx, http.MethodGet, "/api/v1/clients/"+clientID+"/statement", nil, http.StatusOK)
	data := statement["data"].(map[string]interface{})
	require.Equal(t, "100.00", data["credit_available"])
	require.Equal(t, "0.00", data["unpaid_due"])

	// The credit view replays the same stream.
	ledger := c.do(t, ctx, http.MethodGet, "/api/v1/clients/"+clientID+"/ledger?view=credit", nil, http.StatusOK)
	entries := ledger["data"].(map[string]interface{})["entries"].([]interface{})
	require.Len(t, entries, 1)
	require.Equal(t, "100.00", entries[0].(map[string]interface{})["balance"])

	// Paging the history returns the deposit entry.
	transactions := c.do(t, ctx, http.MethodGet, "/api/v1/clients/"+clientID+"/transactions", nil, http.StatusOK)
	txs := transactions["data"].(map[string]interface{})["transactions"].([]interface{})
	require.Len(t, txs, 1)

	// Deletion is refused while prepaid credit remains.
	c.do(t, ctx, http.MethodDelete, "/api/v1/clients/"+clientID, nil, http.StatusConflict)

	// Revenue report responds even with no bills in range.
	today := time.Now().Format(time.DateOnly)
	revenue := c.do(t, ctx, http.MethodGet, "/api/v1/reports/revenue?from="+today, nil, http.StatusOK)
	require.Equal(t, "success", revenue["status"])
}

type apiClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func (c *apiClient) do(t *testing.T, ctx context.Context, method, path string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status for %s %s: %v", method, path, decoded)

	return decoded
}

func configureDockerDesktop(t *testing.T) {
	t.Helper()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	socket := filepath.Join(home, ".docker", "run", "docker.sock")
	if info, err := os.Stat(socket); err == nil && !info.IsDir() {
		t.Setenv("DOCKER_HOST", "unix://"+socket)
		t.Setenv("TESTCONTAINERS_DOCKER_SOCKET_OVERRIDE", socket)
	}
}
