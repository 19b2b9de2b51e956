package matching_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/matching"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store/memory"
)

// newEngine wires an engine over in-memory stores with a single seeded
// profile: a mid-level Go/React developer who prefers remote work.
func newEngine(jobs []model.JobPosting, apps ...model.Application) (*matching.Engine, *memory.ApplicationStore) {
	profile := model.SeekerProfile{
		ID:     "profile-1",
		UserID: "seeker-1",
		Skills: []string{"Go", "React", "PostgreSQL"},
		Tier:   model.TierMid,
		Preferences: model.Preferences{
			Locations: []string{"Remote"},
			RemoteOK:  true,
		},
	}

	appStore := memory.NewApplicationStore()
	for _, app := range apps {
		appStore.Seed(app)
	}

	engine := matching.NewEngine(
		memory.NewJobStore(jobs...),
		memory.NewProfileStore(profile),
		appStore,
		matching.NewScorer(matching.DefaultWeights()),
	)
	return engine, appStore
}

func remoteJob(id, title string, tier model.ExperienceTier, reqs ...string) model.JobPosting {
	return model.JobPosting{
		ID:           id,
		Title:        title,
		Company:      "Acme",
		Location:     "Remote",
		Requirements: reqs,
		Tier:         tier,
		Available:    true,
	}
}

// ── GetMatches ─────────────────────────────────────────────────────────────

func TestGetMatches_UnknownSeeker(t *testing.T) {
	engine, _ := newEngine(nil)
	_, err := engine.GetMatches(context.Background(), "nobody", matching.Filters{})
	if !errors.Is(err, matching.ErrProfileNotFound) {
		t.Errorf("GetMatches for unknown seeker: got %v, want ErrProfileNotFound", err)
	}
}

func TestGetMatches_SortedDescending(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("job-weak", "Embedded Engineer", model.TierLead, "C++", "RTOS"),
		remoteJob("job-strong", "Go Developer", model.TierMid, "Go", "PostgreSQL"),
		remoteJob("job-mid", "Frontend Developer", model.TierSenior, "React"),
	})

	list, err := engine.GetMatches(context.Background(), "seeker-1", matching.Filters{})
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if list.Total != 3 {
		t.Errorf("Total = %d, want 3", list.Total)
	}
	for i := 1; i < len(list.Matches); i++ {
		if list.Matches[i].Score > list.Matches[i-1].Score {
			t.Errorf("matches not sorted descending at %d: %v > %v", i, list.Matches[i].Score, list.Matches[i-1].Score)
		}
	}
	if list.Matches[0].Job.ID != "job-strong" {
		t.Errorf("best match = %s, want job-strong", list.Matches[0].Job.ID)
	}
}

func TestGetMatches_TiesKeepCandidateOrder(t *testing.T) {
	// Identical postings score identically; the stable sort must keep their
	// storage order.
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("job-a", "Go Developer", model.TierMid, "Go"),
		remoteJob("job-b", "Go Developer", model.TierMid, "Go"),
		remoteJob("job-c", "Go Developer", model.TierMid, "Go"),
	})

	list, err := engine.GetMatches(context.Background(), "seeker-1", matching.Filters{})
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	for i, want := range []string{"job-a", "job-b", "job-c"} {
		if list.Matches[i].Job.ID != want {
			t.Errorf("matches[%d] = %s, want %s", i, list.Matches[i].Job.ID, want)
		}
	}
}

func TestGetMatches_TruncationKeepsTotal(t *testing.T) {
	jobs := make([]model.JobPosting, 0, 8)
	for i := 0; i < 8; i++ {
		jobs = append(jobs, remoteJob(fmt.Sprintf("job-%d", i), "Go Developer", model.TierMid, "Go"))
	}
	engine, _ := newEngine(jobs)

	list, err := engine.GetMatches(context.Background(), "seeker-1", matching.Filters{MaxResults: 3})
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(list.Matches) != 3 {
		t.Errorf("len(Matches) = %d, want 3", len(list.Matches))
	}
	if list.Total != 8 {
		t.Errorf("Total = %d, want 8 (pre-truncation)", list.Total)
	}
}

func TestGetMatches_MinScoreDropsWeakMatches(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("job-strong", "Go Developer", model.TierMid, "Go", "PostgreSQL"),
		{ID: "job-weak", Title: "Chef", Location: "Lyon", Requirements: []string{"Cooking"}, Tier: model.TierLead, Available: true},
	})

	list, err := engine.GetMatches(context.Background(), "seeker-1", matching.Filters{MinScore: 50})
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("Total = %d, want 1", list.Total)
	}
	if list.Matches[0].Job.ID != "job-strong" {
		t.Errorf("kept %s, want job-strong", list.Matches[0].Job.ID)
	}
}

func TestGetMatches_ExcludesAppliedByDefault(t *testing.T) {
	jobs := []model.JobPosting{
		remoteJob("job-1", "Go Developer", model.TierMid, "Go"),
		remoteJob("job-2", "React Developer", model.TierMid, "React"),
	}
	applied := model.Application{ID: "app-1", SeekerID: "seeker-1", JobID: "job-1", Status: model.StatusApplied}
	engine, _ := newEngine(jobs, applied)

	list, err := engine.GetMatches(context.Background(), "seeker-1", matching.Filters{})
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if list.Total != 1 || list.Matches[0].Job.ID != "job-2" {
		t.Errorf("matches = %+v, want only job-2", list.Matches)
	}
	if len(list.AppliedJobIDs) != 1 || list.AppliedJobIDs[0] != "job-1" {
		t.Errorf("AppliedJobIDs = %v, want [job-1]", list.AppliedJobIDs)
	}

	list, err = engine.GetMatches(context.Background(), "seeker-1", matching.Filters{IncludeApplied: true})
	if err != nil {
		t.Fatalf("GetMatches with IncludeApplied failed: %v", err)
	}
	if list.Total != 2 {
		t.Errorf("Total with IncludeApplied = %d, want 2", list.Total)
	}
}

func TestGetMatches_AllowListFilters(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("job-mid", "Go Developer", model.TierMid, "Go"),
		remoteJob("job-senior", "Go Developer", model.TierSenior, "Go"),
		{ID: "job-berlin", Title: "Go Developer", Location: "Berlin", Requirements: []string{"Go"}, Tier: model.TierMid, Available: true},
		{ID: "job-fintech", Title: "Go Developer", Description: "fintech scale-up", Location: "Remote", Requirements: []string{"Go"}, Tier: model.TierMid, Available: true},
	})
	ctx := context.Background()

	byTier, err := engine.GetMatches(ctx, "seeker-1", matching.Filters{Tiers: []model.ExperienceTier{model.TierSenior}})
	if err != nil {
		t.Fatalf("tier filter failed: %v", err)
	}
	if byTier.Total != 1 || byTier.Matches[0].Job.ID != "job-senior" {
		t.Errorf("tier filter kept %+v, want only job-senior", byTier.Matches)
	}

	byLocation, err := engine.GetMatches(ctx, "seeker-1", matching.Filters{Locations: []string{"berlin"}})
	if err != nil {
		t.Fatalf("location filter failed: %v", err)
	}
	if byLocation.Total != 1 || byLocation.Matches[0].Job.ID != "job-berlin" {
		t.Errorf("location filter kept %+v, want only job-berlin", byLocation.Matches)
	}

	byKeyword, err := engine.GetMatches(ctx, "seeker-1", matching.Filters{Keywords: []string{"fintech"}})
	if err != nil {
		t.Fatalf("keyword filter failed: %v", err)
	}
	if byKeyword.Total != 1 || byKeyword.Matches[0].Job.ID != "job-fintech" {
		t.Errorf("keyword filter kept %+v, want only job-fintech", byKeyword.Matches)
	}
}

// ── GetSimilarJobs ─────────────────────────────────────────────────────────

func TestGetSimilarJobs_UnknownJob(t *testing.T) {
	engine, _ := newEngine(nil)
	_, err := engine.GetSimilarJobs(context.Background(), "missing", "seeker-1", 10)
	if !errors.Is(err, matching.ErrJobNotFound) {
		t.Errorf("GetSimilarJobs for unknown job: got %v, want ErrJobNotFound", err)
	}
}

func TestGetSimilarJobs_UnknownSeeker(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{remoteJob("job-1", "Go Developer", model.TierMid, "Go")})
	_, err := engine.GetSimilarJobs(context.Background(), "job-1", "nobody", 10)
	if !errors.Is(err, matching.ErrProfileNotFound) {
		t.Errorf("GetSimilarJobs for unknown seeker: got %v, want ErrProfileNotFound", err)
	}
}

func TestGetSimilarJobs_RanksByBlendedScore(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("target", "Go Developer", model.TierMid, "Go"),
		remoteJob("twin", "Go Developer", model.TierMid, "Go"),
		{ID: "cousin", Title: "Java Developer", Company: "Globex", Location: "Oslo", Requirements: []string{"Java"}, Tier: model.TierMid, Available: true},
		remoteJob("other-tier", "Go Developer", model.TierSenior, "Go"),
	})

	similar, err := engine.GetSimilarJobs(context.Background(), "target", "seeker-1", 10)
	if err != nil {
		t.Fatalf("GetSimilarJobs failed: %v", err)
	}

	// Only candidates sharing the target's tier are considered, and the
	// target itself never appears.
	if len(similar) != 2 {
		t.Fatalf("len(similar) = %d, want 2", len(similar))
	}
	for _, s := range similar {
		if s.Match.Job.ID == "target" || s.Match.Job.ID == "other-tier" {
			t.Errorf("unexpected candidate %s", s.Match.Job.ID)
		}
	}
	if similar[0].Match.Job.ID != "twin" {
		t.Errorf("best similar job = %s, want twin", similar[0].Match.Job.ID)
	}
	if similar[0].Combined < similar[1].Combined {
		t.Errorf("results not sorted by combined score: %v < %v", similar[0].Combined, similar[1].Combined)
	}
}

func TestGetSimilarJobs_LimitApplied(t *testing.T) {
	jobs := []model.JobPosting{remoteJob("target", "Go Developer", model.TierMid, "Go")}
	for i := 0; i < 5; i++ {
		jobs = append(jobs, remoteJob(fmt.Sprintf("cand-%d", i), "Go Developer", model.TierMid, "Go"))
	}
	engine, _ := newEngine(jobs)

	similar, err := engine.GetSimilarJobs(context.Background(), "target", "seeker-1", 2)
	if err != nil {
		t.Fatalf("GetSimilarJobs failed: %v", err)
	}
	if len(similar) != 2 {
		t.Errorf("len(similar) = %d, want 2", len(similar))
	}
}

// ── GetMatchStatistics ─────────────────────────────────────────────────────

func TestGetMatchStatistics_Buckets(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		// 0.3 + 0.4 + 0.2 + 0.05 = 95: high quality.
		remoteJob("job-high", "Go Developer", model.TierMid, "Go", "React", "PostgreSQL"),
		// Tier gap of one below, no skills: 0.18 + 0 + 0.2 + 0.05 = 43: medium.
		remoteJob("job-medium", "Scala Developer", model.TierSenior, "Scala"),
		// Nothing fits: low quality.
		{ID: "job-low", Title: "Chef", Location: "Lyon", Requirements: []string{"Cooking"}, Tier: model.TierLead, Available: true},
	})

	stats, err := engine.GetMatchStatistics(context.Background(), "seeker-1")
	if err != nil {
		t.Fatalf("GetMatchStatistics failed: %v", err)
	}

	if stats.TotalMatches != 3 {
		t.Errorf("TotalMatches = %d, want 3", stats.TotalMatches)
	}
	if stats.HighQuality != 1 || stats.MediumQuality != 1 || stats.LowQuality != 1 {
		t.Errorf("buckets = %d/%d/%d, want 1/1/1", stats.HighQuality, stats.MediumQuality, stats.LowQuality)
	}
	if stats.LocationMatches != 2 {
		t.Errorf("LocationMatches = %d, want 2", stats.LocationMatches)
	}
	if stats.AverageScore <= 0 || stats.AverageScore >= 100 {
		t.Errorf("AverageScore = %v, want within (0,100)", stats.AverageScore)
	}
}

func TestGetMatchStatistics_TopSkills(t *testing.T) {
	engine, _ := newEngine([]model.JobPosting{
		remoteJob("job-1", "Go Developer", model.TierMid, "Go"),
		remoteJob("job-2", "Go Platform Engineer", model.TierMid, "Go", "PostgreSQL"),
		remoteJob("job-3", "Frontend Developer", model.TierMid, "React"),
	})

	stats, err := engine.GetMatchStatistics(context.Background(), "seeker-1")
	if err != nil {
		t.Fatalf("GetMatchStatistics failed: %v", err)
	}

	if len(stats.TopSkills) != 3 {
		t.Fatalf("TopSkills = %+v, want 3 entries", stats.TopSkills)
	}
	// go matched twice; postgresql and react once each, alphabetically tied.
	want := []matching.SkillCount{
		{Skill: "go", Count: 2},
		{Skill: "postgresql", Count: 1},
		{Skill: "react", Count: 1},
	}
	for i := range want {
		if stats.TopSkills[i] != want[i] {
			t.Errorf("TopSkills[%d] = %+v, want %+v", i, stats.TopSkills[i], want[i])
		}
	}
}

func TestGetMatchStatistics_NoMatches(t *testing.T) {
	engine, _ := newEngine(nil)
	stats, err := engine.GetMatchStatistics(context.Background(), "seeker-1")
	if err != nil {
		t.Fatalf("GetMatchStatistics failed: %v", err)
	}
	if stats.TotalMatches != 0 || stats.AverageScore != 0 || len(stats.TopSkills) != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
