//go:build e2e_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2beens/fitdash/internal/auth"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// postLogin sends a login attempt, realIP sets X-Real-Ip so tests can use separate rate limit buckets.
func postLogin(ctx context.Context, t *testing.T, password, realIP string) *http.Response {
	t.Helper()

	loginReqJson, err := json.Marshal(auth.LoginRequest{Password: password})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/auth/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if realIP != "" {
		req.Header.Set("X-Real-Ip", realIP)
	}

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func doLogin(ctx context.Context, t *testing.T) string {
	t.Helper()

	resp := postLogin(ctx, t, testPassword, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, respBytes)

	var loginResp auth.LoginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

// getJSON performs an authorized GET and decodes the body into out, returning the status code.
func getJSON(ctx context.Context, t *testing.T, token, path string, out any) int {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func decodeBody(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
