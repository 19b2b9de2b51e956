package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

// Sentinel errors surfaced to callers. The engine never retries and never
// swallows them.
var (
	ErrProfileNotFound = fmt.Errorf("seeker profile not found")
	ErrJobNotFound     = fmt.Errorf("job not found")
)

const (
	defaultMaxResults  = 50
	defaultSimilarJobs = 10
)

// Filters is the closed filter configuration for GetMatches. Unknown filter
// shapes are a compile-time error by construction. The zero value keeps the
// defaults: applied jobs excluded, up to 50 results, no minimum score.
type Filters struct {
	MinScore   float64
	MaxResults int
	// IncludeApplied keeps jobs the seeker already applied to. The zero
	// value preserves the default of excluding them.
	IncludeApplied bool
	Tiers          []model.ExperienceTier
	Locations      []string
	Keywords       []string
}

// MatchList is the result of one ranking pass. Total counts matches before
// truncation to MaxResults.
type MatchList struct {
	Matches       []MatchResult `json:"matches"`
	Total         int           `json:"total"`
	AppliedJobIDs []string      `json:"appliedJobIds"`
}

// SimilarJob pairs a candidate posting with its blended score: 60% seeker
// fit, 40% similarity to the target posting.
type SimilarJob struct {
	Match      MatchResult `json:"match"`
	Similarity float64     `json:"similarity"`
	Combined   float64     `json:"combined"`
}

// SkillCount is one entry of the top-matched-skills aggregation.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Statistics summarizes one full matching pass for a seeker.
type Statistics struct {
	TotalMatches    int          `json:"totalMatches"`
	HighQuality     int          `json:"highQuality"`   // score >= 70
	MediumQuality   int          `json:"mediumQuality"` // 40 <= score < 70
	LowQuality      int          `json:"lowQuality"`    // score < 40
	AverageScore    float64      `json:"averageScore"`
	TopSkills       []SkillCount `json:"topSkills"`
	LocationMatches int          `json:"locationMatches"`
}

// Engine orchestrates candidate retrieval, filtering, scoring, sorting and
// pagination. It holds no mutable state between calls.
type Engine struct {
	jobs     store.JobStore
	profiles store.ProfileStore
	apps     store.ApplicationStore
	scorer   *Scorer
}

// NewEngine wires an Engine with its stores and scorer.
func NewEngine(jobs store.JobStore, profiles store.ProfileStore, apps store.ApplicationStore, scorer *Scorer) *Engine {
	return &Engine{jobs: jobs, profiles: profiles, apps: apps, scorer: scorer}
}

// GetMatches scores every candidate posting for the seeker and returns the
// ranked, truncated list plus the pre-truncation total and the seeker's
// applied-job IDs.
func (e *Engine) GetMatches(ctx context.Context, seekerID string, f Filters) (*MatchList, error) {
	scored, appliedIDs, err := e.matchAll(ctx, seekerID, f)
	if err != nil {
		return nil, err
	}

	total := len(scored)
	maxResults := f.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	return &MatchList{Matches: scored, Total: total, AppliedJobIDs: appliedIDs}, nil
}

// GetSimilarJobs ranks postings sharing the target's experience tier by a
// 60/40 blend of the seeker's fit score and job-to-job similarity.
func (e *Engine) GetSimilarJobs(ctx context.Context, jobID, seekerID string, limit int) ([]SimilarJob, error) {
	target, err := e.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job %s: %w", jobID, err)
	}
	if target == nil {
		return nil, ErrJobNotFound
	}

	profile, err := e.profiles.FindBySeekerID(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("find profile for seeker %s: %w", seekerID, err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	candidates, err := e.jobs.FindByExperienceTier(ctx, target.Tier)
	if err != nil {
		return nil, fmt.Errorf("find jobs by tier %s: %w", target.Tier, err)
	}

	similar := make([]SimilarJob, 0, len(candidates))
	for _, job := range candidates {
		if job.ID == target.ID {
			continue
		}
		match := e.scorer.Score(job, *profile)
		sim := Similarity(*target, job)
		similar = append(similar, SimilarJob{
			Match:      match,
			Similarity: sim,
			Combined:   round2(0.6*match.Score + 0.4*sim*100),
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Combined > similar[j].Combined
	})

	if limit <= 0 {
		limit = defaultSimilarJobs
	}
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// GetMatchStatistics re-runs matching with applied jobs excluded and buckets
// the results into quality bands, the mean score, the ten most frequent
// matched skills, and the count of location matches.
func (e *Engine) GetMatchStatistics(ctx context.Context, seekerID string) (*Statistics, error) {
	scored, _, err := e.matchAll(ctx, seekerID, Filters{})
	if err != nil {
		return nil, err
	}

	stats := &Statistics{TotalMatches: len(scored)}
	if len(scored) == 0 {
		return stats, nil
	}

	sum := 0.0
	skillCounts := make(map[string]int)
	for _, m := range scored {
		sum += m.Score
		switch {
		case m.Score >= 70:
			stats.HighQuality++
		case m.Score >= 40:
			stats.MediumQuality++
		default:
			stats.LowQuality++
		}
		if m.LocationMatch {
			stats.LocationMatches++
		}
		for _, skill := range m.SkillMatches {
			skillCounts[strings.ToLower(skill)]++
		}
	}
	stats.AverageScore = round2(sum / float64(len(scored)))
	stats.TopSkills = topSkills(skillCounts, 10)
	return stats, nil
}

// matchAll runs steps (1)–(8) of the ranking pass: load profile and applied
// set, fetch candidates, filter, score, drop below MinScore, stable sort
// descending. Truncation is left to the caller.
func (e *Engine) matchAll(ctx context.Context, seekerID string, f Filters) ([]MatchResult, []string, error) {
	profile, err := e.profiles.FindBySeekerID(ctx, seekerID)
	if err != nil {
		return nil, nil, fmt.Errorf("find profile for seeker %s: %w", seekerID, err)
	}
	if profile == nil {
		return nil, nil, ErrProfileNotFound
	}

	apps, err := e.apps.FindBySeekerID(ctx, seekerID)
	if err != nil {
		return nil, nil, fmt.Errorf("find applications for seeker %s: %w", seekerID, err)
	}
	appliedIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		appliedIDs = append(appliedIDs, app.JobID)
	}

	var excludeIDs []string
	if !f.IncludeApplied {
		excludeIDs = appliedIDs
	}

	jobs, err := e.jobs.FindAvailableExcluding(ctx, seekerID, excludeIDs, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("find available jobs: %w", err)
	}

	scored := make([]MatchResult, 0, len(jobs))
	for _, job := range jobs {
		if !jobPassesFilters(job, f) {
			continue
		}
		m := e.scorer.Score(job, *profile)
		if m.Score < f.MinScore {
			continue
		}
		scored = append(scored, m)
	}

	// Stable sort keeps the original candidate order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, appliedIDs, nil
}

// jobPassesFilters applies the tier, location, and keyword allow-lists. An
// empty list places no constraint.
func jobPassesFilters(job model.JobPosting, f Filters) bool {
	if len(f.Tiers) > 0 {
		found := false
		for _, t := range f.Tiers {
			if job.Tier == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Locations) > 0 {
		jobLoc := strings.ToLower(job.Location)
		found := false
		for _, loc := range f.Locations {
			if strings.Contains(jobLoc, strings.ToLower(strings.TrimSpace(loc))) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Keywords) > 0 {
		haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Company)
		found := false
		for _, kw := range f.Keywords {
			if strings.Contains(haystack, strings.ToLower(strings.TrimSpace(kw))) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// topSkills returns the n most frequent skills, count descending with
// alphabetical tie-breaking for determinism.
func topSkills(counts map[string]int, n int) []SkillCount {
	out := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		out = append(out, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
