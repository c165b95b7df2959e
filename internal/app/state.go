package app

import (
	"context"
	"fmt"

	"mcqbank/internal/audit"
	"mcqbank/internal/candidate"
	"mcqbank/internal/fixedtest"
	"mcqbank/internal/question"
	"mcqbank/internal/seed"
)

// State owns the repositories for one process. It is built once at startup
// and handed to the router.
type State struct {
	Questions      *question.Repository
	Collections    *question.CollectionRepository
	Tests          *fixedtest.Repository
	Candidates     *candidate.Repository
	CandidateTests *candidate.TestRepository
}

func NewState(rec audit.Recorder) *State {
	return &State{
		Questions:      question.NewRepository(rec),
		Collections:    question.NewCollectionRepository(rec),
		Tests:          fixedtest.NewRepository(rec),
		Candidates:     candidate.NewRepository(rec),
		CandidateTests: candidate.NewTestRepository(rec),
	}
}

// Seed loads SEED_FILE when set, otherwise the embedded sample when enabled.
func (s *State) Seed(ctx context.Context, cfg Config) (seed.Summary, error) {
	var (
		fx  *seed.Fixture
		err error
	)
	switch {
	case cfg.SeedFile != "":
		fx, err = seed.LoadFile(cfg.SeedFile)
	case cfg.SeedSampleData:
		fx, err = seed.Sample()
	default:
		return seed.Summary{}, nil
	}
	if err != nil {
		return seed.Summary{}, fmt.Errorf("load seed: %w", err)
	}

	return seed.Apply(ctx, fx, seed.Targets{
		Questions:      s.Questions,
		Collections:    s.Collections,
		Tests:          s.Tests,
		Candidates:     s.Candidates,
		CandidateTests: s.CandidateTests,
	}), nil
}

// Counts reports the number of stored entities per kind.
func (s *State) Counts() map[string]int {
	return map[string]int{
		s.Questions.Kind():      s.Questions.Len(),
		s.Collections.Kind():    s.Collections.Len(),
		s.Tests.Kind():          s.Tests.Len(),
		s.Candidates.Kind():     s.Candidates.Len(),
		s.CandidateTests.Kind(): s.CandidateTests.Len(),
	}
}
