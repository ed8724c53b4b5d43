// Package similarity scores how closely a citation's observation text follows
// what the rulebook expects and turns the score into a verdict.
package similarity

// Label is the verdict class.
type Label string

const (
	LabelConsistent Label = "CONSISTENT"
	LabelPartial    Label = "PARTIAL"
	LabelDivergent  Label = "DIVERGENT"
	LabelNotFound   Label = "NOT_FOUND"
)

// Score thresholds, inclusive at the lower end.
const (
	ConsistentThreshold = 0.72
	PartialThreshold    = 0.45
)

// Verdict is the outcome of comparing one observation with a rulebook.
type Verdict struct {
	Label Label   `json:"label" yaml:"label"`
	Score float64 `json:"score" yaml:"score"`
}

// Classify maps a score in [0,1] to a verdict label.
func Classify(score float64) Label {
	switch {
	case score >= ConsistentThreshold:
		return LabelConsistent
	case score >= PartialThreshold:
		return LabelPartial
	default:
		return LabelDivergent
	}
}

// Message returns the user-facing description of the label.
func (l Label) Message() string {
	switch l {
	case LabelConsistent:
		return "Condizente com a ficha MBFT"
	case LabelPartial:
		return "Parcialmente coerente (pode estar incompleto)"
	case LabelDivergent:
		return "Divergente do que a ficha MBFT exige"
	case LabelNotFound:
		return "Observações não encontradas no Auto"
	default:
		return string(l)
	}
}

// Severity returns "ok", "warn" or "err" for rendering.
func (l Label) Severity() string {
	switch l {
	case LabelConsistent:
		return "ok"
	case LabelPartial:
		return "warn"
	default:
		return "err"
	}
}
