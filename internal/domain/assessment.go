package domain

// Recommendation is the terminal outcome of a risk assessment.
type Recommendation string

// Assessment outcomes.
const (
	SafeToTrade         Recommendation = "SAFE_TO_TRADE"
	TooRisky            Recommendation = "TOO_RISKY"
	ErrorAnalysisFailed Recommendation = "ERROR_ANALYSIS_FAILED"
)

// CheckResult is the uniform outcome of one risk check: a non-negative
// score contribution, its reasons, and whether the check could not verify
// its inputs and fell back to a flat penalty.
type CheckResult struct {
	Score      float64
	Reasons    []string
	Unverified bool
}

// RiskAssessment aggregates the independent check results for one pool.
// Score is the direct sum of check contributions, unnormalized.
type RiskAssessment struct {
	PoolID         string
	Score          float64
	Reasons        []string // concatenated in fixed check order
	Checks         map[string]CheckResult
	Recommendation Recommendation
	AssessedAt     int64 // Unix timestamp in milliseconds
}
