package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IntegrityStatus is the severity of a single sub-check or of the whole run.
type IntegrityStatus string

const (
	IntegrityPassed  IntegrityStatus = "passed"
	IntegrityWarning IntegrityStatus = "warning"
	IntegrityFailed  IntegrityStatus = "failed"
	IntegrityError   IntegrityStatus = "error"
)

// severityRank orders statuses so the aggregate can take the worst one.
// error > failed > warning > passed.
func severityRank(s IntegrityStatus) int {
	switch s {
	case IntegrityError:
		return 3
	case IntegrityFailed:
		return 2
	case IntegrityWarning:
		return 1
	default:
		return 0
	}
}

// WorstIntegrityStatus folds sub-check statuses into an overall verdict.
// An empty input counts as passed.
func WorstIntegrityStatus(statuses ...IntegrityStatus) IntegrityStatus {
	worst := IntegrityPassed
	for _, s := range statuses {
		if severityRank(s) > severityRank(worst) {
			worst = s
		}
	}
	return worst
}

// CheckResult is the outcome of one integrity sub-check.
type CheckResult struct {
	Status   IntegrityStatus   `bson:"status" json:"status"`
	Issues   []string          `bson:"issues" json:"issues"`
	Warnings []string          `bson:"warnings" json:"warnings"`
	Metadata map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// IntegrityChecks groups the four named sub-checks of one verification run.
type IntegrityChecks struct {
	Basic       CheckResult `bson:"basic" json:"basic"`
	Storage     CheckResult `bson:"storage" json:"storage"`
	Readability CheckResult `bson:"readability" json:"readability"`
	Processing  CheckResult `bson:"processing" json:"processing"`
}

// IntegrityResult is the immutable snapshot produced by one verification
// run. A new run produces a new result; existing results are never mutated.
type IntegrityResult struct {
	DocumentID      primitive.ObjectID `bson:"documentId" json:"documentId"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
	OverallStatus   IntegrityStatus    `bson:"overallStatus" json:"overallStatus"`
	Checks          IntegrityChecks    `bson:"checks" json:"checks"`
	Recommendations []string           `bson:"recommendations" json:"recommendations"`
}
