package curation

// Tier buckets a quality score for presentation. The mapping is total:
// every possible score (including "no score yet") lands in exactly one tier.
type Tier string

const (
	TierGood     Tier = "good"    // score >= 85
	TierCaution  Tier = "caution" // 60 <= score < 85
	TierPoor     Tier = "poor"    // score < 60
	TierUnscored Tier = "unscored"
)

const (
	goodThreshold    = 85
	cautionThreshold = 60
)

// TierFor maps a score to its presentation tier.
func TierFor(score *float64) Tier {
	if score == nil {
		return TierUnscored
	}
	switch {
	case *score >= goodThreshold:
		return TierGood
	case *score >= cautionThreshold:
		return TierCaution
	default:
		return TierPoor
	}
}

// BadgeFor returns the label rendered next to an image's recommendation.
// Known verdicts get fixed labels, an unscored image reads "Not scored", and
// anything the backend invents later passes through verbatim.
func BadgeFor(rec *Recommendation) string {
	if rec == nil {
		return "Not scored"
	}
	switch *rec {
	case RecommendApprove:
		return "APPROVE"
	case RecommendReview:
		return "REVIEW"
	case RecommendReject:
		return "REJECT"
	}
	return string(*rec)
}
