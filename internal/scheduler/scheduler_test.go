package scheduler

import (
	"context"
	"errors"
	"testing"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New()
	if err := s.AddJob("@hourly", &countingJob{name: "sync"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddJob("@daily", &countingJob{name: "sync"}); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := New()
	if err := s.AddJob("not a cron spec", &countingJob{name: "sync"}); err == nil {
		t.Fatal("expected invalid spec to be rejected")
	}
}

func TestRunJobNow(t *testing.T) {
	s := New()
	job := &countingJob{name: "sync"}
	if err := s.AddJob("@hourly", job); err != nil {
		t.Fatal(err)
	}

	if err := s.RunJobNow(context.Background(), "sync"); err != nil {
		t.Fatal(err)
	}
	if job.runs != 1 {
		t.Errorf("job ran %d times, want 1", job.runs)
	}

	if err := s.RunJobNow(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unregistered job")
	}
}

func TestRunJobNowPropagatesError(t *testing.T) {
	s := New()
	wantErr := errors.New("boom")
	if err := s.AddJob("@hourly", &countingJob{name: "sync", err: wantErr}); err != nil {
		t.Fatal(err)
	}
	if err := s.RunJobNow(context.Background(), "sync"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the job's error", err)
	}
}
