package wizard

// FormData holds the wizard input exactly as typed or selected. Numbers stay
// text until ToRequest converts the whole record at submit time.
type FormData struct {
	CustomerID        string `json:"customer_id" form:"customer_id"`
	Gender            string `json:"gender" form:"gender"`
	Age               string `json:"age" form:"age"`
	SeniorCitizen     string `json:"senior_citizen" form:"senior_citizen"`
	Married           string `json:"married" form:"married"`
	Dependents        string `json:"dependents" form:"dependents"`
	TenureMonths      string `json:"tenure_months" form:"tenure_months"`
	PhoneService      string `json:"phone_service" form:"phone_service"`
	MultipleLines     string `json:"multiple_lines" form:"multiple_lines"`
	InternetService   string `json:"internet_service" form:"internet_service"`
	OnlineSecurity    string `json:"online_security" form:"online_security"`
	OnlineBackup      string `json:"online_backup" form:"online_backup"`
	DeviceProtection  string `json:"device_protection" form:"device_protection"`
	TechSupport       string `json:"tech_support" form:"tech_support"`
	StreamingTV       string `json:"streaming_tv" form:"streaming_tv"`
	StreamingMovies   string `json:"streaming_movies" form:"streaming_movies"`
	StreamingMusic    string `json:"streaming_music" form:"streaming_music"`
	UnlimitedData     string `json:"unlimited_data" form:"unlimited_data"`
	Contract          string `json:"contract" form:"contract"`
	PaperlessBilling  string `json:"paperless_billing" form:"paperless_billing"`
	PaymentMethod     string `json:"payment_method" form:"payment_method"`
	MonthlyCharge     string `json:"monthly_charge" form:"monthly_charge"`
	TotalCharges      string `json:"total_charges" form:"total_charges"`
	SatisfactionScore string `json:"satisfaction_score" form:"satisfaction_score"`
}

const (
	Yes = "Yes"
	No  = "No"
)

// DefaultForm is the state of a freshly opened wizard.
func DefaultForm() FormData {
	return FormData{
		SeniorCitizen:    No,
		Married:          No,
		Dependents:       No,
		PhoneService:     Yes,
		MultipleLines:    No,
		OnlineSecurity:   No,
		OnlineBackup:     No,
		DeviceProtection: No,
		TechSupport:      No,
		StreamingTV:      No,
		StreamingMovies:  No,
		StreamingMusic:   No,
		UnlimitedData:    No,
		PaperlessBilling: No,
	}
}

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindSelect FieldKind = "select"
)

// Field describes one input for rendering and for per-step updates.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Options  []string
	Required bool
	Step     Step
	Min      string
	Max      string
	StepAttr string
}

var yesNo = []string{Yes, No}

var (
	GenderOptions          = []string{"Male", "Female"}
	InternetServiceOptions = []string{"DSL", "Fiber Optic", "Cable", "No"}
	ContractOptions        = []string{"Month-to-Month", "One Year", "Two Year"}
	PaymentMethodOptions   = []string{"Bank Withdrawal", "Credit Card", "Mailed Check"}
)

// Fields is the static catalog of wizard inputs in display order.
var Fields = []Field{
	{Name: "customer_id", Label: "Customer ID", Kind: KindText, Required: true, Step: StepCustomerInfo},
	{Name: "gender", Label: "Gender", Kind: KindSelect, Options: GenderOptions, Required: true, Step: StepCustomerInfo},
	{Name: "age", Label: "Age", Kind: KindNumber, Required: true, Step: StepCustomerInfo, Min: "18", Max: "100"},
	{Name: "senior_citizen", Label: "Senior Citizen", Kind: KindSelect, Options: yesNo, Step: StepCustomerInfo},
	{Name: "married", Label: "Married", Kind: KindSelect, Options: yesNo, Step: StepCustomerInfo},
	{Name: "dependents", Label: "Dependents", Kind: KindSelect, Options: yesNo, Step: StepCustomerInfo},

	{Name: "tenure_months", Label: "Tenure (Months)", Kind: KindNumber, Required: true, Step: StepServiceDetails, Min: "0"},
	{Name: "phone_service", Label: "Phone Service", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "multiple_lines", Label: "Multiple Lines", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "internet_service", Label: "Internet Service", Kind: KindSelect, Options: InternetServiceOptions, Required: true, Step: StepServiceDetails},
	{Name: "online_security", Label: "Online Security", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "online_backup", Label: "Online Backup", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "device_protection", Label: "Device Protection", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "tech_support", Label: "Tech Support", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "streaming_tv", Label: "Streaming TV", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "streaming_movies", Label: "Streaming Movies", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "streaming_music", Label: "Streaming Music", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},
	{Name: "unlimited_data", Label: "Unlimited Data", Kind: KindSelect, Options: yesNo, Step: StepServiceDetails},

	{Name: "contract", Label: "Contract", Kind: KindSelect, Options: ContractOptions, Required: true, Step: StepBillingInfo},
	{Name: "paperless_billing", Label: "Paperless Billing", Kind: KindSelect, Options: yesNo, Step: StepBillingInfo},
	{Name: "payment_method", Label: "Payment Method", Kind: KindSelect, Options: PaymentMethodOptions, Required: true, Step: StepBillingInfo},
	{Name: "monthly_charge", Label: "Monthly Charge", Kind: KindNumber, Required: true, Step: StepBillingInfo, Min: "0", StepAttr: "0.01"},
	{Name: "total_charges", Label: "Total Charges", Kind: KindNumber, Step: StepBillingInfo, Min: "0", StepAttr: "0.01"},
	{Name: "satisfaction_score", Label: "Satisfaction Score (1-5)", Kind: KindNumber, Step: StepBillingInfo, Min: "1", Max: "5"},
}

// FieldsFor returns the catalog entries rendered on step s.
func FieldsFor(s Step) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Step == s {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the current text of the named field.
func (f *FormData) Value(name string) string {
	if p := f.ptr(name); p != nil {
		return *p
	}
	return ""
}

// Set assigns the named field. It reports false for unknown names.
func (f *FormData) Set(name, value string) bool {
	p := f.ptr(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (f *FormData) ptr(name string) *string {
	switch name {
	case "customer_id":
		return &f.CustomerID
	case "gender":
		return &f.Gender
	case "age":
		return &f.Age
	case "senior_citizen":
		return &f.SeniorCitizen
	case "married":
		return &f.Married
	case "dependents":
		return &f.Dependents
	case "tenure_months":
		return &f.TenureMonths
	case "phone_service":
		return &f.PhoneService
	case "multiple_lines":
		return &f.MultipleLines
	case "internet_service":
		return &f.InternetService
	case "online_security":
		return &f.OnlineSecurity
	case "online_backup":
		return &f.OnlineBackup
	case "device_protection":
		return &f.DeviceProtection
	case "tech_support":
		return &f.TechSupport
	case "streaming_tv":
		return &f.StreamingTV
	case "streaming_movies":
		return &f.StreamingMovies
	case "streaming_music":
		return &f.StreamingMusic
	case "unlimited_data":
		return &f.UnlimitedData
	case "contract":
		return &f.Contract
	case "paperless_billing":
		return &f.PaperlessBilling
	case "payment_method":
		return &f.PaymentMethod
	case "monthly_charge":
		return &f.MonthlyCharge
	case "total_charges":
		return &f.TotalCharges
	case "satisfaction_score":
		return &f.SatisfactionScore
	}
	return nil
}
