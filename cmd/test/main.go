package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL    string
	customerID string
	client     *http.Client
}

func NewTestClient(baseURL, customerID string) *TestClient {
	jar, _ := cookiejar.New(nil)
	return &TestClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		customerID: customerID,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the dashboard")
	testType := flag.String("test", "all", "Test type: all, health, dashboard, wizard, customer, api-predict, not-found")
	customerID := flag.String("customer", "", "Customer ID to look up (for the customer test)")
	flag.Parse()

	client := NewTestClient(*baseURL, *customerID)

	printHeader("Churn Dashboard - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		exitOn(client.testHealthCheck())
	case "dashboard":
		exitOn(client.testDashboard())
	case "wizard":
		exitOn(client.testWizard())
	case "customer":
		if *customerID == "" {
			printError("Customer ID is required for the customer test. Use -customer flag")
			os.Exit(1)
		}
		exitOn(client.testCustomer())
	case "api-predict":
		exitOn(client.testAPIPredict())
	case "not-found":
		exitOn(client.testNotFound())
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, dashboard, wizard, customer, api-predict, not-found")
		os.Exit(1)
	}
}

func exitOn(ok bool) {
	if !ok {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Dashboard", tc.testDashboard},
		{"Prediction Wizard", tc.testWizard},
		{"Predict API", tc.testAPIPredict},
		{"Not Found", tc.testNotFound},
	}
	if tc.customerID != "" {
		tests = append(tests, struct {
			name string
			fn   func() bool
		}{"Customer Details", tc.testCustomer})
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// fetch performs one request and returns the status and body.
func (tc *TestClient) fetch(method, path, contentType string, body io.Reader) (int, []byte, bool) {
	target := tc.baseURL + path
	fmt.Printf("%s %s\n", method, target)

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		printError(fmt.Sprintf("Build request failed: %v", err))
		return 0, nil, false
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return 0, nil, false
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, true
}

func expectStatus(got, want int, body []byte) bool {
	if got != want {
		printError(fmt.Sprintf("Expected status %d, got %d", want, got))
		fmt.Printf("Response: %s\n", truncate(string(body), 400))
		return false
	}
	return true
}

func expectContains(body []byte, texts ...string) bool {
	for _, text := range texts {
		if !bytes.Contains(body, []byte(text)) {
			printError(fmt.Sprintf("Response does not contain %q", text))
			return false
		}
	}
	return true
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, ok := tc.fetch(http.MethodGet, "/health", "", nil)
	if !ok || !expectStatus(status, http.StatusOK, body) {
		return false
	}

	var health map[string]interface{}
	if err := json.Unmarshal(body, &health); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if health["status"] != "ok" {
		printError(fmt.Sprintf("Prediction service is not reachable: %v", health["upstream"]))
		printJSON(body)
		return false
	}

	printSuccess("Health check passed")
	printJSON(body)
	return true
}

func (tc *TestClient) testDashboard() bool {
	printTestHeader("Testing Dashboard Page")

	status, body, ok := tc.fetch(http.MethodGet, "/", "", nil)
	if !ok || !expectStatus(status, http.StatusOK, body) {
		return false
	}
	if !expectContains(body, "Customer Churn Dashboard", "Look Up a Customer") {
		return false
	}

	printSuccess("Dashboard rendered")
	return true
}

func (tc *TestClient) testWizard() bool {
	printTestHeader("Testing Prediction Wizard")

	status, body, ok := tc.fetch(http.MethodGet, "/predict", "", nil)
	if !ok || !expectStatus(status, http.StatusOK, body) || !expectContains(body, "Customer Information") {
		return false
	}

	steps := []struct {
		label  string
		expect string
		values url.Values
	}{
		{
			label:  "Customer Information",
			expect: "Service Details",
			values: url.Values{
				"step":        {"0"},
				"action":      {"next"},
				"customer_id": {fmt.Sprintf("SMOKE-%d", time.Now().Unix())},
				"gender":      {"Female"},
				"age":         {"42"},
			},
		},
		{
			label:  "Service Details",
			expect: "Billing Information",
			values: url.Values{
				"step":             {"1"},
				"action":           {"next"},
				"tenure_months":    {"18"},
				"internet_service": {"Fiber Optic"},
				"streaming_tv":     {"Yes"},
			},
		},
		{
			label:  "Billing Information",
			expect: "Prediction for",
			values: url.Values{
				"step":           {"2"},
				"action":         {"submit"},
				"contract":       {"Month-to-Month"},
				"payment_method": {"Credit Card"},
				"monthly_charge": {"89.95"},
			},
		},
	}

	for _, s := range steps {
		fmt.Printf("%sStep:%s %s\n", colorYellow, colorReset, s.label)
		status, body, ok := tc.fetch(http.MethodPost, "/predict", "application/x-www-form-urlencoded", strings.NewReader(s.values.Encode()))
		if !ok || !expectStatus(status, http.StatusOK, body) || !expectContains(body, s.expect) {
			return false
		}
	}

	printSuccess("Wizard reached the results step")
	return true
}

func (tc *TestClient) testCustomer() bool {
	printTestHeader("Testing Customer Details")

	path := "/customer/" + url.PathEscape(tc.customerID)
	status, body, ok := tc.fetch(http.MethodGet, path, "", nil)
	if !ok || !expectStatus(status, http.StatusOK, body) || !expectContains(body, "Customer Details: ") {
		return false
	}

	status, body, ok = tc.fetch(http.MethodGet, "/api/customers/"+url.PathEscape(tc.customerID), "", nil)
	if !ok || !expectStatus(status, http.StatusOK, body) {
		return false
	}

	printSuccess("Customer details loaded")
	printJSON(body)
	return true
}

func (tc *TestClient) testAPIPredict() bool {
	printTestHeader("Testing Predict API")

	request := map[string]string{
		"customer_id":      fmt.Sprintf("SMOKE-API-%d", time.Now().Unix()),
		"gender":           "Male",
		"age":              "67",
		"senior_citizen":   "Yes",
		"tenure_months":    "3",
		"internet_service": "DSL",
		"contract":         "Month-to-Month",
		"payment_method":   "Mailed Check",
		"monthly_charge":   "55.10",
	}
	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	status, body, ok := tc.fetch(http.MethodPost, "/api/predict", "application/json", bytes.NewBuffer(jsonData))
	if !ok || !expectStatus(status, http.StatusOK, body) {
		return false
	}

	var response struct {
		Result struct {
			Prediction struct {
				RiskSegment             string `json:"risk_segment"`
				ChurnProbabilityPercent string `json:"churn_probability_percent"`
			} `json:"prediction"`
		} `json:"result"`
		Severity string `json:"severity"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if response.Result.Prediction.RiskSegment == "" {
		printError("Response has no risk segment")
		return false
	}

	printSuccess(fmt.Sprintf("Prediction: %s (%s)", response.Result.Prediction.RiskSegment, response.Result.Prediction.ChurnProbabilityPercent))
	fmt.Printf("%sSeverity:%s %s\n", colorPurple, colorReset, response.Severity)
	return true
}

func (tc *TestClient) testNotFound() bool {
	printTestHeader("Testing Not Found Page")

	status, body, ok := tc.fetch(http.MethodGet, "/definitely/not/here", "", nil)
	if !ok || !expectStatus(status, http.StatusNotFound, body) || !expectContains(body, "Page not found") {
		return false
	}

	printSuccess("Unknown paths render the not found page")
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
