package models

// PredictRequest is the typed body of POST /predict. Optional fields are
// pointers so a blank form value is omitted from the payload entirely.
type PredictRequest struct {
	CustomerID        string   `json:"customer_id"`
	Gender            string   `json:"gender"`
	Age               int      `json:"age"`
	SeniorCitizen     bool     `json:"senior_citizen"`
	Married           bool     `json:"married"`
	Dependents        bool     `json:"dependents"`
	TenureMonths      int      `json:"tenure_months"`
	PhoneService      bool     `json:"phone_service"`
	MultipleLines     bool     `json:"multiple_lines"`
	InternetService   string   `json:"internet_service"`
	OnlineSecurity    bool     `json:"online_security"`
	OnlineBackup      bool     `json:"online_backup"`
	DeviceProtection  bool     `json:"device_protection"`
	TechSupport       bool     `json:"tech_support"`
	StreamingTV       bool     `json:"streaming_tv"`
	StreamingMovies   bool     `json:"streaming_movies"`
	StreamingMusic    bool     `json:"streaming_music"`
	UnlimitedData     bool     `json:"unlimited_data"`
	Contract          string   `json:"contract"`
	PaperlessBilling  bool     `json:"paperless_billing"`
	PaymentMethod     string   `json:"payment_method"`
	MonthlyCharge     float64  `json:"monthly_charge"`
	TotalCharges      *float64 `json:"total_charges,omitempty"`
	SatisfactionScore *int     `json:"satisfaction_score,omitempty"`
}

type PredictionSummary struct {
	ChurnProbability        float64 `json:"churn_probability"`
	ChurnProbabilityPercent string  `json:"churn_probability_percent"`
	RiskSegment             string  `json:"risk_segment"`
	PredictionTime          string  `json:"prediction_time"`
	ModelVersion            string  `json:"model_version"`
}

type RankedStrategy struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// PredictedCustomer echoes the subset of the request the service returns.
type PredictedCustomer struct {
	Gender          string  `json:"gender"`
	Age             int     `json:"age"`
	TenureMonths    int     `json:"tenure_months"`
	Contract        string  `json:"contract"`
	MonthlyCharge   float64 `json:"monthly_charge"`
	InternetService string  `json:"internet_service"`
}

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	CustomerID          string            `json:"customer_id"`
	Prediction          PredictionSummary `json:"prediction"`
	RetentionStrategies []RankedStrategy  `json:"retention_strategies"`
	CustomerData        PredictedCustomer `json:"customer_data"`
}

// HealthStatus is the body of the upstream GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StrategyCatalog maps a risk segment label to its recommended strategies.
type StrategyCatalog map[string][]string
