package curation

import "testing"

func score(v float64) *float64 { return &v }

func TestTierForIsTotalAndMonotonic(t *testing.T) {
	cases := []struct {
		name  string
		score *float64
		want  Tier
	}{
		{"nil is unscored", nil, TierUnscored},
		{"85 is good", score(85), TierGood},
		{"84 is caution", score(84), TierCaution},
		{"60 is caution", score(60), TierCaution},
		{"59 is poor", score(59), TierPoor},
		{"0 is poor", score(0), TierPoor},
		{"100 is good", score(100), TierGood},
	}
	for _, tc := range cases {
		if got := TierFor(tc.score); got != tc.want {
			t.Fatalf("%s: TierFor = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBadgeForKnownAndUnknownVerdicts(t *testing.T) {
	if got := BadgeFor(nil); got != "Not scored" {
		t.Fatalf("nil badge = %q", got)
	}
	approve := RecommendApprove
	if got := BadgeFor(&approve); got != "APPROVE" {
		t.Fatalf("approve badge = %q", got)
	}
	review := RecommendReview
	if got := BadgeFor(&review); got != "REVIEW" {
		t.Fatalf("review badge = %q", got)
	}
	reject := RecommendReject
	if got := BadgeFor(&reject); got != "REJECT" {
		t.Fatalf("reject badge = %q", got)
	}
	odd := Recommendation("quarantine")
	if got := BadgeFor(&odd); got != "quarantine" {
		t.Fatalf("unknown verdict must pass through, got %q", got)
	}
}

func TestUnscoredPreservesOrder(t *testing.T) {
	images := []Image{
		{Path: "1.png", Score: score(90)},
		{Path: "2.png"},
		{Path: "3.png", Score: score(40)},
		{Path: "4.png"},
	}
	pending := Unscored(images)
	if len(pending) != 2 {
		t.Fatalf("len = %d, want 2", len(pending))
	}
	if pending[0].Path != "2.png" || pending[1].Path != "4.png" {
		t.Fatalf("order not preserved: %+v", pending)
	}
}

func TestReviewableTerminalOnApproved(t *testing.T) {
	approved := Image{Path: "a.png", Status: StatusApproved}
	if approved.Reviewable() {
		t.Fatalf("approved images are terminal for review actions")
	}
	for _, st := range []Status{StatusPending, StatusRejected, StatusReview, Status("triage")} {
		img := Image{Path: "b.png", Status: st}
		if !img.Reviewable() {
			t.Fatalf("status %q should remain reviewable", st)
		}
	}
}

func TestDisplayURLFallsBackToPlaceholder(t *testing.T) {
	img := Image{Path: "a.png"}
	if got := img.DisplayURL("/img/missing.png"); got != "/img/missing.png" {
		t.Fatalf("placeholder not applied, got %q", got)
	}
	img.URL = "http://cdn.local/a.png"
	if got := img.DisplayURL("/img/missing.png"); got != img.URL {
		t.Fatalf("URL ignored, got %q", got)
	}
}
