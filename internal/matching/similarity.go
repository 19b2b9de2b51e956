package matching

import (
	"strings"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
)

// Similarity computes a [0,1] job-to-job similarity used to rank "similar
// jobs". Weights: same company 0.2, same experience tier 0.3, location
// substring overlap 0.2, title token overlap 0.3. Pure and total.
func Similarity(a, b model.JobPosting) float64 {
	score := 0.0

	if a.Company != "" && strings.EqualFold(strings.TrimSpace(a.Company), strings.TrimSpace(b.Company)) {
		score += 0.2
	}

	if a.Tier == b.Tier {
		score += 0.3
	}

	locA := strings.ToLower(strings.TrimSpace(a.Location))
	locB := strings.ToLower(strings.TrimSpace(b.Location))
	if locA != "" && locB != "" && (strings.Contains(locA, locB) || strings.Contains(locB, locA)) {
		score += 0.2
	}

	score += 0.3 * titleOverlap(a.Title, b.Title)

	return score
}

// titleOverlap counts title tokens longer than two characters shared by both
// titles, divided by the longer title's token count.
func titleOverlap(a, b string) float64 {
	tokensA := titleTokens(a)
	tokensB := titleTokens(b)

	longer := len(tokensA)
	if len(tokensB) > longer {
		longer = len(tokensB)
	}
	if longer == 0 {
		return 0
	}

	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	common := 0
	for _, t := range tokensA {
		if setB[t] {
			common++
		}
	}
	return float64(common) / float64(longer)
}

func titleTokens(title string) []string {
	var tokens []string
	for _, t := range strings.Fields(strings.ToLower(title)) {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
