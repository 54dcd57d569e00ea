package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/BerylCAtieno/churn-dashboard/internal/details"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
)

var ErrNoContent = errors.New("briefing: model returned no content")

// Generator produces text for a prompt. The Gemini client is the production
// implementation; tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Brief is a short retention write-up for one customer.
type Brief struct {
	CustomerID string   `json:"customer_id"`
	Summary    string   `json:"summary"`
	Actions    []string `json:"actions"`
}

type Briefer struct {
	gen Generator
}

func New(gen Generator) *Briefer {
	return &Briefer{gen: gen}
}

// Brief asks the model to summarise the customer's churn position. The risk
// segment and strategies come from the prediction service; the model only
// rewords them.
func (b *Briefer) Brief(ctx context.Context, data *models.CustomerDetails) (*Brief, error) {
	if data == nil {
		return nil, errors.New("briefing: no customer data")
	}
	text, err := b.gen.Generate(ctx, buildPrompt(data))
	if err != nil {
		return nil, fmt.Errorf("failed to generate brief: %w", err)
	}
	brief := parseBrief(text)
	brief.CustomerID = data.CustomerID
	return brief, nil
}

func buildPrompt(data *models.CustomerDetails) string {
	var sb strings.Builder
	p := data.CustomerData
	fmt.Fprintf(&sb, `You are a customer retention analyst. Write a brief for an account manager about customer %s.

Customer: %s, age %d, senior citizen: %t, married: %t, dependents: %t.
Account: %d months tenure, %s contract, %s internet, $%.2f monthly, %s total.
`, data.CustomerID, p.Gender, p.Age, p.SeniorCitizen, p.Married, p.Dependents,
		p.TenureMonths, p.Contract, p.InternetService, p.MonthlyCharge, totalCharges(p.TotalCharges))

	if idx := details.LatestIndex(data.Predictions); idx >= 0 {
		latest := data.Predictions[idx]
		fmt.Fprintf(&sb, "Latest prediction: %.1f%% churn probability, segment %q (model %s).\n",
			latest.ChurnProbability*100, latest.RiskSegment, latest.ModelVersion)
		if len(latest.Strategies) > 0 {
			sb.WriteString("Recommended strategies:\n")
			for _, s := range latest.Strategies {
				fmt.Fprintf(&sb, "%d. %s\n", s.Priority, s.Name)
			}
		}
	} else {
		sb.WriteString("No churn prediction has been recorded yet.\n")
	}

	sb.WriteString(`
Do not change the risk segment or invent new strategies.
Respond in exactly this format, with no markdown:
summary: <two sentences>
actions: <action one>; <action two>; <action three>`)
	return sb.String()
}

func totalCharges(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func parseBrief(text string) *Brief {
	brief := &Brief{}
	var loose []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		switch {
		case ok && strings.EqualFold(strings.TrimSpace(key), "summary"):
			brief.Summary = strings.TrimSpace(value)
		case ok && strings.EqualFold(strings.TrimSpace(key), "actions"):
			for _, a := range strings.Split(value, ";") {
				if a = strings.TrimSpace(a); a != "" {
					brief.Actions = append(brief.Actions, a)
				}
			}
		default:
			loose = append(loose, line)
		}
	}
	// Models sometimes ignore the format; keep the text rather than lose it.
	if brief.Summary == "" {
		brief.Summary = strings.Join(loose, " ")
	}
	return brief
}

// GeminiClient implements Generator with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(512)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoContent
	}
	return sb.String(), nil
}
