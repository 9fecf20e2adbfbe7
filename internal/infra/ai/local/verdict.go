package local

import "github.com/bryanwahyu/purelabel/internal/domain/labels"

// Scoring policy.
const (
	// HighlyProcessedAbove: a negative score strictly above this is "Highly Processed".
	HighlyProcessedAbove = 3
	// CleanNegativeBelow: "Cleanish Choice" needs a negative score strictly below this.
	CleanNegativeBelow = 2
	// ProcessedAbove: any negative score above this is at least "Moderately Processed".
	ProcessedAbove = 0

	negativeWeight = 2
	cautionWeight  = 1
	positiveWeight = 1
)

const (
	VerdictHighlyProcessed     = "Highly Processed"
	VerdictCleanish            = "Cleanish Choice"
	VerdictModeratelyProcessed = "Moderately Processed"
	VerdictBalanced            = "Balanced Choice"
)

// Score accumulates the impact of every matched ingredient.
type Score struct {
	Positive int
	Negative int
}

func (s *Score) Add(impact labels.Impact) {
	switch impact {
	case labels.ImpactPositive:
		s.Positive += positiveWeight
	case labels.ImpactNegative:
		s.Negative += negativeWeight
	case labels.ImpactCaution:
		s.Negative += cautionWeight
	}
}

// Verdict is the label plus the two explanatory sentences shown with it.
type Verdict struct {
	Label       string
	Summary     string
	HumanImpact string
}

// Judge evaluates the decision list; the first satisfied branch wins.
func Judge(s Score) Verdict {
	switch {
	case s.Negative > HighlyProcessedAbove:
		return Verdict{
			Label:       VerdictHighlyProcessed,
			Summary:     "Detected multiple additives and industrial fats designed for shelf-life over nutrition.",
			HumanImpact: "Expect a rapid glucose response followed by potential energy dips. High sodium/sugar may drive thirst.",
		}
	case s.Positive > s.Negative && s.Negative < CleanNegativeBelow:
		return Verdict{
			Label:       VerdictCleanish,
			Summary:     "Features several whole-food components with minimal industrial additives.",
			HumanImpact: "A safer bet for regular consumption; contains recognizable nutrients.",
		}
	case s.Negative > ProcessedAbove:
		return Verdict{
			Label:       VerdictModeratelyProcessed,
			Summary:     "Contains some stabilizers or refined sugars common in modern snacks.",
			HumanImpact: "Generally fine for occasional use, though sensitive guts may react to stabilizers.",
		}
	default:
		return Verdict{
			Label:       VerdictBalanced,
			Summary:     "Standard commercial product with common ingredients.",
			HumanImpact: "Standard metabolic response expected.",
		}
	}
}
