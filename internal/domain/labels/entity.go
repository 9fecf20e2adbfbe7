package labels

import (
	"fmt"
	"strings"
)

// Impact is the qualitative health effect attached to an ingredient.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
	ImpactCaution  Impact = "caution"
)

// Engine enum
type Engine string

const (
	EngineLocal Engine = "local"
	EngineCloud Engine = "cloud"
)

// ParseEngine maps a user supplied engine name; empty returns fallback.
func ParseEngine(s string, fallback Engine) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case EngineLocal:
		return EngineLocal, nil
	case EngineCloud:
		return EngineCloud, nil
	}
	return "", fmt.Errorf("%w: unknown engine %q (allowed: local, cloud)", ErrInvalidInput, s)
}

type Insight struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Impact      Impact `json:"impact"`
}

type Tradeoff struct {
	Benefit string `json:"benefit"`
	Cost    string `json:"cost"`
}

type Uncertainty struct {
	Item       string `json:"item"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

type Translation struct {
	Original   string `json:"original"`
	SimpleName string `json:"simpleName"`
	Purpose    string `json:"purpose"`
}

// AnalysisResult is the structured assessment produced by either engine.
// Field names are the presentation contract and must not change.
type AnalysisResult struct {
	ProductName        string        `json:"productName"`
	Verdict            string        `json:"verdict"`
	Summary            string        `json:"summary"`
	HumanImpact        string        `json:"humanImpact"`
	Insights           []Insight     `json:"insights"`
	Tradeoffs          []Tradeoff    `json:"tradeoffs"`
	Uncertainties      []Uncertainty `json:"uncertainties"`
	Translations       []Translation `json:"translations"`
	SuggestedQuestions []string      `json:"suggestedQuestions,omitempty"`
}

// Normalize replaces nil collections with empty ones so the result
// always serializes as arrays.
func (r *AnalysisResult) Normalize() {
	if r.Insights == nil {
		r.Insights = []Insight{}
	}
	if r.Tradeoffs == nil {
		r.Tradeoffs = []Tradeoff{}
	}
	if r.Uncertainties == nil {
		r.Uncertainties = []Uncertainty{}
	}
	if r.Translations == nil {
		r.Translations = []Translation{}
	}
}

// ProductContext is the short description handed to the follow-up conversation.
func (r *AnalysisResult) ProductContext() string {
	if r == nil {
		return ""
	}
	originals := make([]string, 0, len(r.Translations))
	for _, t := range r.Translations {
		originals = append(originals, t.Original)
	}
	return fmt.Sprintf("Product: %s. Verdict: %s. Ingredients: %s",
		r.ProductName, r.Verdict, strings.Join(originals, ", "))
}

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the follow-up conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidateHistory checks the conversation log passed on every follow-up call.
func ValidateHistory(history []Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: history is empty", ErrInvalidInput)
	}
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w: message %d has invalid role %q", ErrInvalidInput, i, m.Role)
		}
	}
	last := history[len(history)-1]
	if last.Role != RoleUser || strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last message must be a non-empty user turn", ErrInvalidInput)
	}
	return nil
}
