package verdict

// Resolve computes a single page status from the verdict's enum fields.
// Any detected visual change is at least a warning; pass means the oracle
// reported zero changes at all.
func Resolve(v *Verdict) Status {
	switch {
	case v.CriticalIssuesEnum != CriticalNone:
		return StatusFail
	case v.VisualChangesEnum == VisualSignificant || v.RecommendationEnum == RecommendReviewRequired:
		return StatusWarning
	case v.VisualChangesEnum == VisualMinor:
		return StatusWarning
	default:
		return StatusPass
	}
}

// Aggregate folds per-page statuses into one overall status by taking the
// maximum severity present: fail > warning > pass > none.
func Aggregate(statuses []Status) Status {
	overall := StatusNone
	for _, s := range statuses {
		if StatusRank(s) > StatusRank(overall) {
			overall = s
		}
	}
	return overall
}

// RecommendationFor maps an aggregate status to the matching recommendation.
func RecommendationFor(s Status) RecommendationStatus {
	switch s {
	case StatusFail:
		return RecommendReject
	case StatusWarning:
		return RecommendReviewRequired
	default:
		return RecommendPass
	}
}
