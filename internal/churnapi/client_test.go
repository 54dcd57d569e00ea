package churnapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/churn-dashboard/internal/models"
)

const customerBody = `{
  "customer_id": "C-1001",
  "customer_data": {
    "gender": "Female", "age": 42, "senior_citizen": false, "married": true,
    "dependents": true, "tenure_months": 18, "contract": "One Year",
    "monthly_charge": 79.5, "total_charges": 1431.0, "internet_service": "Fiber Optic"
  },
  "predictions": [
    {
      "churn_probability": 0.31, "risk_segment": "Medium-Low Risk",
      "prediction_time": "2024-03-02T10:15:00.123456", "model_version": "1.2.0",
      "strategies": [
        {"name": "Loyalty discount", "description": null, "priority": 1},
        {"name": "Service check-in", "description": "Call within a week", "priority": 2}
      ]
    }
  ]
}`

func TestCustomerDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/customer/C-1001", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, customerBody)
	}))
	defer srv.Close()

	got, err := New(srv.URL+"/", time.Second).Customer(context.Background(), "C-1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "C-1001", got.CustomerID)
	assert.Equal(t, 42, got.CustomerData.Age)
	assert.True(t, got.CustomerData.Married)
	require.NotNil(t, got.CustomerData.TotalCharges)
	assert.Equal(t, 1431.0, *got.CustomerData.TotalCharges)
	require.Len(t, got.Predictions, 1)
	p := got.Predictions[0]
	assert.Equal(t, "Medium-Low Risk", p.RiskSegment)
	require.Len(t, p.Strategies, 2)
	assert.Nil(t, p.Strategies[0].Description)
	require.NotNil(t, p.Strategies[1].Description)
	assert.Equal(t, "Call within a week", *p.Strategies[1].Description)
	_, ok := p.Time()
	assert.True(t, ok)
}

func TestCustomerEscapesID(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, customerBody)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Customer(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/customer/a%2Fb%20c", rawPath)
}

func TestCustomerNullBodyIsAbsence(t *testing.T) {
	for name, body := range map[string]string{"null": "null", "empty": ""} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer srv.Close()

			got, err := New(srv.URL, time.Second).Customer(context.Background(), "C-1")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestCustomerServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Customer not found","message":"No customer found with ID C-9"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Customer(context.Background(), "C-9")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No customer found with ID C-9", apiErr.Message)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "No customer found with ID C-9", UserMessage(err, "Failed to fetch customer data."))
}

func TestServerErrorWithoutMessageUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>proxy error</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Customer(context.Background(), "C-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "Failed to fetch customer data.", UserMessage(err, "Failed to fetch customer data."))
}

func TestTransportErrorUsesUnexpectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Predict(context.Background(), models.PredictRequest{})
	require.Error(t, err)
	assert.Equal(t, UnexpectedErrorMessage, UserMessage(err, "An error occurred during prediction."))
}

func TestPredictSendsTypedPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{
		  "customer_id": "C-7",
		  "prediction": {"churn_probability": 0.82, "churn_probability_percent": "82.0%",
		    "risk_segment": "High Risk", "prediction_time": "2024-03-02T10:15:00", "model_version": "1.2.0"},
		  "retention_strategies": [{"name": "Contract upgrade offer", "priority": 1}],
		  "customer_data": {"gender": "Male", "age": 30, "tenure_months": 0,
		    "contract": "Month-to-Month", "monthly_charge": 110.0, "internet_service": "Fiber Optic"}
		}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, time.Second).Predict(context.Background(), models.PredictRequest{
		CustomerID:    "C-7",
		Age:           30,
		Contract:      "Month-to-Month",
		MonthlyCharge: 110,
	})
	require.NoError(t, err)
	assert.Equal(t, "High Risk", resp.Prediction.RiskSegment)
	assert.Equal(t, "82.0%", resp.Prediction.ChurnProbabilityPercent)
	require.Len(t, resp.RetentionStrategies, 1)
	assert.Equal(t, 1, resp.RetentionStrategies[0].Priority)

	assert.Equal(t, float64(30), received["age"])
	assert.NotContains(t, received, "total_charges")
	assert.NotContains(t, received, "satisfaction_score")
}

func TestHealthAndStrategies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"healthy","message":"Churn prediction API is running"}`)
	})
	mux.HandleFunc("/strategies", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"High Risk":["Personal call","Retention offer"],"Low Risk":["Newsletter"]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, time.Second)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	catalog, err := c.Strategies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Personal call", "Retention offer"}, catalog["High Risk"])
	assert.Len(t, catalog, 2)
}

func TestContextCancellationAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, 0).Customer(ctx, "C-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
