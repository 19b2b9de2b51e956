// Package matching computes job-to-seeker fit scores and ranks candidate
// postings. It is transport-agnostic and does no logging of its own: every
// entry point takes its data as arguments or reads it through the store
// interfaces injected at construction time.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
)

// Weights configures the composite score. Each sub-score is normalized to
// [0,1] before weighting; the weighted sum is scaled to 0–100.
type Weights struct {
	Experience float64
	Skills     float64
	Location   float64
	Keywords   float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{Experience: 0.30, Skills: 0.40, Location: 0.20, Keywords: 0.10}
}

// MatchResult is the derived outcome of scoring one (job, profile) pair.
// It is never persisted.
type MatchResult struct {
	Job             model.JobPosting `json:"job"`
	Score           float64          `json:"score"`
	Reasons         []string         `json:"reasons"`
	SkillMatches    []string         `json:"skillMatches"`
	LocationMatch   bool             `json:"locationMatch"`
	ExperienceMatch bool             `json:"experienceMatch"`
}

// Scorer computes composite fit scores. The zero value is not usable; build
// one with NewScorer.
type Scorer struct {
	weights Weights
}

// NewScorer returns a Scorer using the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score computes the 0–100 composite fit score and explanation for one
// (job, profile) pair. It never fails: sparse inputs degrade to neutral
// sub-scores instead of errors.
func (s *Scorer) Score(job model.JobPosting, profile model.SeekerProfile) MatchResult {
	res := MatchResult{Job: job}

	exp := experienceScore(job.Tier, profile.Tier)
	skills, matched := skillsScore(job.Requirements, profile.Skills)
	loc := locationScore(job.Location, profile.Preferences)
	kw := keywordScore(job, profile.Preferences.Keywords)

	res.ExperienceMatch = exp >= 0.7
	res.LocationMatch = loc > 0.5
	res.SkillMatches = matched

	switch {
	case exp == 1.0:
		res.Reasons = append(res.Reasons, "experience level matches the role")
	case exp >= 0.6 && profile.Tier.Rank() < job.Tier.Rank():
		res.Reasons = append(res.Reasons, "role is a modest stretch above your level")
	case profile.Tier.Rank() > job.Tier.Rank():
		res.Reasons = append(res.Reasons, "you exceed the required experience level")
	}
	if n := len(matched); n > 0 {
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d skill matches", n))
	}
	if res.LocationMatch {
		res.Reasons = append(res.Reasons, "location fits your preferences")
	}
	if len(profile.Preferences.Keywords) > 0 && kw > 0 {
		res.Reasons = append(res.Reasons, "posting mentions your keywords")
	}

	composite := s.weights.Experience*exp +
		s.weights.Skills*skills +
		s.weights.Location*loc +
		s.weights.Keywords*kw

	res.Score = round2(clamp(composite*100, 0, 100))
	return res
}

// experienceScore maps the tier gap onto [0,1]. Overqualification decays
// gently; applying more than two tiers up collapses to the 0.1 catch-all.
func experienceScore(job, seeker model.ExperienceTier) float64 {
	gap := seeker.Rank() - job.Rank()
	switch {
	case gap == 0:
		return 1.0
	case gap > 0:
		return math.Max(0, 1-0.2*float64(gap))
	case gap == -1:
		return 0.6
	case gap == -2:
		return 0.3
	default:
		return 0.1
	}
}

// skillsScore matches seeker skills against job requirements. A requirement
// counts as covered by its best match: case-insensitive equality weighs 1.0,
// a requirement containing the skill as a substring 0.7. Short skill tokens
// can still partial-match unrelated requirements ("R" inside "JavaScript");
// that looseness is intentional. Returns the sub-score and the
// original-cased seeker skills that matched anything.
func skillsScore(requirements, skills []string) (float64, []string) {
	if len(requirements) == 0 {
		return 0.5, nil
	}

	matchedSkills := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))

	matchedReqs := 0
	weightSum := 0.0
	for _, req := range requirements {
		reqLower := strings.ToLower(strings.TrimSpace(req))
		if reqLower == "" {
			continue
		}
		best := 0.0
		for _, skill := range skills {
			skillLower := strings.ToLower(strings.TrimSpace(skill))
			if skillLower == "" {
				continue
			}
			var w float64
			switch {
			case skillLower == reqLower:
				w = 1.0
			case strings.Contains(reqLower, skillLower):
				w = 0.7
			default:
				continue
			}
			if w > best {
				best = w
			}
			if !seen[skillLower] {
				seen[skillLower] = true
				matchedSkills = append(matchedSkills, skill)
			}
		}
		if best > 0 {
			matchedReqs++
			weightSum += best
		}
	}

	if matchedReqs == 0 {
		return 0, nil
	}

	coverage := float64(matchedReqs) / float64(len(requirements))
	quality := weightSum / float64(matchedReqs)
	return 0.7*coverage + 0.3*quality, matchedSkills
}

// locationScore ranks the job location against the seeker's preferences.
// With no location preferences at all the sub-score is a neutral 0.5.
func locationScore(jobLocation string, prefs model.Preferences) float64 {
	if len(prefs.Locations) == 0 && !prefs.RemoteOK {
		return 0.5
	}

	jobLower := strings.ToLower(strings.TrimSpace(jobLocation))

	for _, pref := range prefs.Locations {
		prefLower := strings.ToLower(strings.TrimSpace(pref))
		if prefLower == "" {
			continue
		}
		if strings.Contains(jobLower, prefLower) || strings.Contains(prefLower, jobLower) {
			return 1.0
		}
	}

	if prefs.RemoteOK && (strings.Contains(jobLower, "remote") || strings.Contains(jobLower, "anywhere")) {
		return 1.0
	}

	// Fall back to comparing comma-delimited region tokens (state, country).
	jobRegions := regionTokens(jobLower)
	for _, pref := range prefs.Locations {
		for region := range regionTokens(strings.ToLower(pref)) {
			if jobRegions[region] {
				return 0.7
			}
		}
	}

	return 0.1
}

// regionTokens splits a location on commas and keeps trimmed tokens longer
// than two characters, so "WA" and "CA" never collide across states.
func regionTokens(location string) map[string]bool {
	tokens := make(map[string]bool)
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 2 {
			tokens[part] = true
		}
	}
	return tokens
}

// keywordScore is the fraction of preference keywords found as substrings of
// the posting's title, description, and company. No keywords configured
// yields a neutral 0.5.
func keywordScore(job model.JobPosting, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.5
	}
	haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Company)
	hits := 0
	for _, kw := range keywords {
		kwLower := strings.ToLower(strings.TrimSpace(kw))
		if kwLower == "" {
			continue
		}
		if strings.Contains(haystack, kwLower) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
