package domain

// Decision classifies the cleaning-log outcome for one input row.
type Decision string

const (
	// DecisionAutoMatched means the top match cleared the auto-match
	// threshold unambiguously and can be accepted without review.
	DecisionAutoMatched Decision = "auto-matched"
	// DecisionAmbiguous means candidates survived the threshold but no
	// single one was confident enough to auto-accept.
	DecisionAmbiguous Decision = "ambiguous"
	// DecisionUnmatched means the catalog legitimately had nothing
	// above the threshold.
	DecisionUnmatched Decision = "unmatched"
	// DecisionError means the row could not be evaluated at all and is
	// a candidate for retry downstream.
	DecisionError Decision = "error"
)

// TypeTagProduct is the single entity type this service reconciles
// against, as advertised in the service manifest.
const TypeTagProduct = "product"
