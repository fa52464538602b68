// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "spendtrack/internal"
)

// The integration suite needs a running PostgreSQL instance. It is skipped
// unless SPENDTRACK_TEST_DB=1 and the DB_* variables point at a throwaway
// test database.
var (
	testApp    *app.Application
	testServer *httptest.Server
)

func TestMain(m *testing.M) {
	if os.Getenv("SPENDTRACK_TEST_DB") != "1" {
		fmt.Fprintln(os.Stderr, "SPENDTRACK_TEST_DB not set; skipping API integration tests")
		os.Exit(0)
	}
	if os.Getenv("DB_NAME") == "" {
		os.Setenv("DB_NAME", "spendtrackdb_test")
	}

	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}

	testServer = httptest.NewServer(testApp.HTTPHandler)
	defer testServer.Close()

	code := m.Run()

	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// clearDatabase truncates all tables so each test starts from a clean state.
func clearDatabase(t *testing.T) {
	t.Helper()
	for _, table := range []string{"expenses", "balances", "users"} {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

func makeRequest(t *testing.T, token, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, testServer.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

// registerAndLogin creates a user through the API and returns a bearer token.
func registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	registerBody := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"correct-horse"}`, username, username)
	resp, body := makeRequest(t, "", "POST", "/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", body)

	loginBody := fmt.Sprintf(`{"username":%q,"password":"correct-horse"}`, username)
	resp, body = makeRequest(t, "", "POST", "/auth/login", loginBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %s", body)

	var tokenResp map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &tokenResp))
	require.NotEmpty(t, tokenResp["access_token"])
	return tokenResp["access_token"]
}

func deposit(t *testing.T, token, amount string) {
	t.Helper()
	resp, body := makeRequest(t, token, "POST", "/balance", fmt.Sprintf(`{"amount":%q}`, amount))
	require.Equal(t, http.StatusOK, resp.StatusCode, "deposit failed: %s", body)
}

func currentBalance(t *testing.T, token string) decimal.Decimal {
	t.Helper()
	resp, body := makeRequest(t, token, "GET", "/balance", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balanceResp struct {
		Balance decimal.Decimal `json:"balance"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &balanceResp))
	return balanceResp.Balance
}

func TestRegistrationIntegration(t *testing.T) {
	clearDatabase(t)

	t.Run("RegisterCreatesZeroBalance", func(t *testing.T) {
		token := registerAndLogin(t, "reg_user")
		assert.True(t, currentBalance(t, token).IsZero())
	})

	t.Run("DuplicateUsernameConflicts", func(t *testing.T) {
		body := `{"username":"reg_user","email":"other@example.com","password":"correct-horse"}`
		resp, _ := makeRequest(t, "", "POST", "/auth/register", body)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		body := `{"username":"someone_else","email":"reg_user@example.com","password":"correct-horse"}`
		resp, _ := makeRequest(t, "", "POST", "/auth/register", body)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("WrongPasswordUnauthorized", func(t *testing.T) {
		resp, _ := makeRequest(t, "", "POST", "/auth/login", `{"username":"reg_user","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// TestExpenseLifecycleIntegration walks the full reference scenario:
// 100.00 → create 30 → 70.00 → update to 50 → 50.00 → delete → 100.00.
func TestExpenseLifecycleIntegration(t *testing.T) {
	clearDatabase(t)
	token := registerAndLogin(t, "lifecycle_user")
	deposit(t, token, "100.00")

	resp, body := makeRequest(t, token, "POST", "/expenses",
		`{"title":"present","amount":"30.00","category":"gifts"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", body)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.True(t, decimal.RequireFromString("70.00").Equal(currentBalance(t, token)))

	resp, body = makeRequest(t, token, "PUT", fmt.Sprintf("/expenses/%d", created.ID),
		`{"title":"present","amount":"50.00","category":"gifts"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "update failed: %s", body)
	assert.True(t, decimal.RequireFromString("50.00").Equal(currentBalance(t, token)))

	resp, body = makeRequest(t, token, "DELETE", fmt.Sprintf("/expenses/%d", created.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "delete failed: %s", body)
	assert.Contains(t, body, "deleted successfully")
	assert.True(t, decimal.RequireFromString("100.00").Equal(currentBalance(t, token)))

	// The deleted expense is gone from listings.
	resp, body = makeRequest(t, token, "GET", "/expenses", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listResp struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &listResp))
	assert.Zero(t, listResp.Pagination.Total)
}

func TestInsufficientBalanceIntegration(t *testing.T) {
	clearDatabase(t)
	token := registerAndLogin(t, "poor_user")
	deposit(t, token, "10.00")

	resp, body := makeRequest(t, token, "POST", "/expenses",
		`{"title":"gadget","amount":"15.00","category":"tech"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Insufficient balance")
	// The rejected mutation left no trace in either store.
	assert.True(t, decimal.RequireFromString("10.00").Equal(currentBalance(t, token)))
	resp, body = makeRequest(t, token, "GET", "/expenses", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"total":0`)
}

func TestOwnershipIsolationIntegration(t *testing.T) {
	clearDatabase(t)
	tokenA := registerAndLogin(t, "user_a")
	tokenB := registerAndLogin(t, "user_b")
	deposit(t, tokenA, "100.00")

	resp, body := makeRequest(t, tokenA, "POST", "/expenses",
		`{"title":"secret","amount":"5.00","category":"private"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	// User B sees Not Found everywhere, never user A's data.
	resp, _ = makeRequest(t, tokenB, "GET", fmt.Sprintf("/expenses/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = makeRequest(t, tokenB, "PUT", fmt.Sprintf("/expenses/%d", created.ID),
		`{"title":"hijack","amount":"1.00","category":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = makeRequest(t, tokenB, "DELETE", fmt.Sprintf("/expenses/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// And user A's records are untouched.
	assert.True(t, decimal.RequireFromString("95.00").Equal(currentBalance(t, tokenA)))
}

func TestDateRangeFilterIntegration(t *testing.T) {
	clearDatabase(t)
	token := registerAndLogin(t, "filter_user")
	deposit(t, token, "100.00")

	// An expense late in the day on the end date must still match a filter
	// whose end_date is that day.
	endDate := time.Now().UTC().AddDate(0, 0, -1)
	spentAt := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 0, 0, time.UTC)
	createBody := fmt.Sprintf(`{"title":"late dinner","amount":"20.00","category":"Food","date":%q}`, spentAt.Format(time.RFC3339))
	resp, body := makeRequest(t, token, "POST", "/expenses", createBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", body)

	path := fmt.Sprintf("/expenses?end_date=%s", endDate.Format("2006-01-02"))
	resp, body = makeRequest(t, token, "GET", path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "late dinner")

	// Category matching is a case-insensitive substring.
	resp, body = makeRequest(t, token, "GET", "/expenses?category=foo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "late dinner")

	resp, body = makeRequest(t, token, "GET", "/expenses?category=travel", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"total":0`)
}
