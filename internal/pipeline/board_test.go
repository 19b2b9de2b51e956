package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/events"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/pipeline"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store/memory"
)

// recordingPublisher captures emitted card-moved events.
type recordingPublisher struct {
	events []events.CardMoved
}

func (p *recordingPublisher) CardMoved(_ context.Context, ev events.CardMoved) {
	p.events = append(p.events, ev)
}

type boardFixture struct {
	board *pipeline.Board
	jobs  *memory.JobStore
	apps  *memory.ApplicationStore
	pub   *recordingPublisher
}

func newBoardFixture(jobs ...model.JobPosting) *boardFixture {
	jobStore := memory.NewJobStore(jobs...)
	apps := memory.NewApplicationStore()
	pub := &recordingPublisher{}
	machine := pipeline.NewStateMachine(apps)
	return &boardFixture{
		board: pipeline.NewBoard(jobStore, apps, machine, pub, 0),
		jobs:  jobStore,
		apps:  apps,
		pub:   pub,
	}
}

func availableJob(id string) model.JobPosting {
	return model.JobPosting{ID: id, Title: "Backend Engineer", Company: "Acme", Available: true, Tier: model.TierMid}
}

// ── HandleMove: column validation and no-ops ───────────────────────────────

func TestHandleMove_UnknownColumn(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	_, err := f.board.HandleMove(context.Background(), "seeker-1", "job-1", "available", "archive")

	var ice *pipeline.InvalidColumnError
	if !errors.As(err, &ice) {
		t.Fatalf("move to unknown column: got %v, want InvalidColumnError", err)
	}
	if ice.Column != "archive" {
		t.Errorf("InvalidColumnError carries %q, want \"archive\"", ice.Column)
	}
}

func TestHandleMove_SameColumnIsNoOp(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	res, err := f.board.HandleMove(context.Background(), "seeker-1", "job-1", "applied", "applied")
	if err != nil {
		t.Fatalf("same-column move failed: %v", err)
	}
	if res.Application != nil {
		t.Error("same-column move should not return an application")
	}
	if res.Message != "position updated within column" {
		t.Errorf("message = %q", res.Message)
	}
	if len(f.pub.events) != 0 {
		t.Errorf("same-column move published %d events, want 0", len(f.pub.events))
	}
}

// ── HandleMove: applying ───────────────────────────────────────────────────

func TestHandleMove_ApplyCreatesApplication(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	ctx := context.Background()

	res, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied")
	if err != nil {
		t.Fatalf("available → applied failed: %v", err)
	}
	if res.Application == nil {
		t.Fatal("apply should return the created application")
	}
	if res.Application.Status != model.StatusApplied {
		t.Errorf("status = %s, want applied", res.Application.Status)
	}
	if res.Message != "application created" {
		t.Errorf("message = %q", res.Message)
	}

	// Creation writes the initial audit entry with a nil from.
	history, err := f.apps.GetStatusHistory(ctx, res.Application.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d rows, want 1", len(history))
	}
	if history[0].From != nil || history[0].To != model.StatusApplied {
		t.Errorf("initial audit row = %v → %s, want nil → applied", history[0].From, history[0].To)
	}

	if len(f.pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(f.pub.events))
	}
	ev := f.pub.events[0]
	if ev.From != "available" || ev.To != "applied" || ev.ApplicationID != res.Application.ID {
		t.Errorf("event = %+v", ev)
	}
}

func TestHandleMove_AvailableToNonApplied(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	for _, to := range []string{"interview", "offered", "rejected"} {
		_, err := f.board.HandleMove(context.Background(), "seeker-1", "job-1", "available", to)
		if !errors.Is(err, pipeline.ErrCanOnlyApplyFromAvailable) {
			t.Errorf("available → %s: got %v, want ErrCanOnlyApplyFromAvailable", to, err)
		}
	}
}

func TestHandleMove_DuplicateApplication(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	ctx := context.Background()

	first, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied")
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	_, err = f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied")
	var dae *pipeline.DuplicateApplicationError
	if !errors.As(err, &dae) {
		t.Fatalf("second apply: got %v, want DuplicateApplicationError", err)
	}
	if dae.ApplicationID != first.Application.ID {
		t.Errorf("duplicate error carries ID %q, want %q", dae.ApplicationID, first.Application.ID)
	}
}

// ── HandleMove: withdrawing ────────────────────────────────────────────────

func TestHandleMove_WithdrawDeletesApplication(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	ctx := context.Background()

	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	res, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "applied", "available")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if res.Application != nil {
		t.Error("withdrawal should not return an application")
	}
	if res.Message != "application withdrawn" {
		t.Errorf("message = %q", res.Message)
	}

	remaining, err := f.apps.FindBySeekerAndJob(ctx, "seeker-1", "job-1")
	if err != nil {
		t.Fatalf("FindBySeekerAndJob failed: %v", err)
	}
	if remaining != nil {
		t.Error("application still present after withdrawal")
	}
}

func TestHandleMove_WithdrawWithoutApplication(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	_, err := f.board.HandleMove(context.Background(), "seeker-1", "job-1", "applied", "available")
	if !errors.Is(err, pipeline.ErrApplicationNotFound) {
		t.Errorf("withdraw without application: got %v, want ErrApplicationNotFound", err)
	}
}

// ── HandleMove: status transitions via the state machine ───────────────────

func TestHandleMove_StatusTransition(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	ctx := context.Background()

	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	res, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "applied", "interview")
	if err != nil {
		t.Fatalf("applied → interview failed: %v", err)
	}
	if res.Application == nil || res.Application.Status != model.StatusInterview {
		t.Fatalf("result = %+v, want interview application", res)
	}
	if res.Message != "application moved to interview" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestHandleMove_ForbiddenTransitionSurfaced(t *testing.T) {
	f := newBoardFixture(availableJob("job-1"))
	ctx := context.Background()

	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	_, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "applied", "offered")
	var ite *pipeline.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("applied → offered: got %v, want InvalidTransitionError", err)
	}
	if len(f.pub.events) != 1 {
		t.Errorf("failed move should not publish; have %d events, want 1 (the apply)", len(f.pub.events))
	}
}

// ── GetValidDropTargets ────────────────────────────────────────────────────

func TestGetValidDropTargets(t *testing.T) {
	f := newBoardFixture()
	cases := []struct {
		current string
		want    []pipeline.Column
	}{
		{"available", []pipeline.Column{pipeline.ColumnApplied}},
		{"applied", []pipeline.Column{pipeline.ColumnAvailable, pipeline.ColumnInterview, pipeline.ColumnRejected}},
		{"interview", []pipeline.Column{pipeline.ColumnAvailable, pipeline.ColumnOffered, pipeline.ColumnRejected}},
		{"offered", []pipeline.Column{pipeline.ColumnAvailable, pipeline.ColumnRejected}},
		{"rejected", []pipeline.Column{pipeline.ColumnAvailable}},
	}
	for _, c := range cases {
		got, err := f.board.GetValidDropTargets(c.current)
		if err != nil {
			t.Errorf("GetValidDropTargets(%s) failed: %v", c.current, err)
			continue
		}
		if len(got) != len(c.want) {
			t.Errorf("GetValidDropTargets(%s) = %v, want %v", c.current, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("GetValidDropTargets(%s)[%d] = %s, want %s", c.current, i, got[i], c.want[i])
			}
		}
	}
}

func TestGetValidDropTargets_UnknownColumn(t *testing.T) {
	f := newBoardFixture()
	_, err := f.board.GetValidDropTargets("archive")
	var ice *pipeline.InvalidColumnError
	if !errors.As(err, &ice) {
		t.Errorf("GetValidDropTargets(archive): got %v, want InvalidColumnError", err)
	}
}

// ── GetPipelineStats ───────────────────────────────────────────────────────

func TestGetPipelineStats(t *testing.T) {
	f := newBoardFixture(
		availableJob("job-1"),
		availableJob("job-2"),
		availableJob("job-3"),
		availableJob("job-4"),
	)
	ctx := context.Background()

	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-1", "available", "applied"); err != nil {
		t.Fatalf("apply job-1 failed: %v", err)
	}
	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-2", "available", "applied"); err != nil {
		t.Fatalf("apply job-2 failed: %v", err)
	}
	if _, err := f.board.HandleMove(ctx, "seeker-1", "job-2", "applied", "interview"); err != nil {
		t.Fatalf("job-2 → interview failed: %v", err)
	}

	stats, err := f.board.GetPipelineStats(ctx, "seeker-1")
	if err != nil {
		t.Fatalf("GetPipelineStats failed: %v", err)
	}
	want := pipeline.Stats{Available: 2, Applied: 1, Interview: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}
