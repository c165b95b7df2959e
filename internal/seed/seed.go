// Package seed loads fixture data into freshly built repositories.
//
// Fixtures are YAML documents with one list per entity kind. Entries are
// created in file order, so on empty repositories the n-th entry of a list
// receives id n and cross references can be written by position.
package seed

import (
	"bytes"
	"context"
	"errors"
	_ "embed"
	"fmt"
	"io"
	"os"

	"mcqbank/internal/candidate"
	"mcqbank/internal/fixedtest"
	"mcqbank/internal/question"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleFixture []byte

type Fixture struct {
	Collections    []CollectionEntry    `yaml:"collections"`
	Questions      []QuestionEntry      `yaml:"questions"`
	Tests          []TestEntry          `yaml:"tests"`
	Candidates     []CandidateEntry     `yaml:"candidates"`
	CandidateTests []CandidateTestEntry `yaml:"candidate_tests"`
}

type CollectionEntry struct {
	Name string `yaml:"name"`
}

type QuestionEntry struct {
	CollectionIDs []int64  `yaml:"collection_ids"`
	Stem          string   `yaml:"stem"`
	Options       []string `yaml:"options"`
	CorrectAnswer int      `yaml:"correct_answer"`
}

type TestEntry struct {
	Name        string  `yaml:"name"`
	QuestionIDs []int64 `yaml:"question_ids"`
	PassMark    int     `yaml:"pass_mark"`
}

type CandidateEntry struct {
	Name string `yaml:"name"`
}

type CandidateTestEntry struct {
	CandidateID int64 `yaml:"candidate_id"`
	TestID      int64 `yaml:"test_id"`
}

// Targets are the repositories a fixture is written into. Nil targets are
// skipped together with their section.
type Targets struct {
	Questions      *question.Repository
	Collections    *question.CollectionRepository
	Tests          *fixedtest.Repository
	Candidates     *candidate.Repository
	CandidateTests *candidate.TestRepository
}

// Summary counts the entities created by Apply.
type Summary struct {
	Collections    int
	Questions      int
	Tests          int
	Candidates     int
	CandidateTests int
}

func (s Summary) String() string {
	return fmt.Sprintf("collections=%d questions=%d tests=%d candidates=%d candidate_tests=%d",
		s.Collections, s.Questions, s.Tests, s.Candidates, s.CandidateTests)
}

func Sample() (*Fixture, error) {
	return Decode(bytes.NewReader(sampleFixture))
}

func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	fx, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// Decode parses a fixture and rejects unknown keys.
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	return &fx, nil
}

func Apply(ctx context.Context, fx *Fixture, to Targets) Summary {
	var sum Summary
	if fx == nil {
		return sum
	}

	if to.Collections != nil {
		for _, e := range fx.Collections {
			to.Collections.Create(ctx, question.Collection{Name: e.Name})
			sum.Collections++
		}
	}
	if to.Questions != nil {
		for _, e := range fx.Questions {
			to.Questions.Create(ctx, question.Question{
				CollectionIDs: e.CollectionIDs,
				Stem:          e.Stem,
				Options:       e.Options,
				CorrectAnswer: e.CorrectAnswer,
			})
			sum.Questions++
		}
	}
	if to.Tests != nil {
		for _, e := range fx.Tests {
			to.Tests.Create(ctx, fixedtest.FixedTest{
				Name:        e.Name,
				QuestionIDs: e.QuestionIDs,
				PassMark:    e.PassMark,
			})
			sum.Tests++
		}
	}
	if to.Candidates != nil {
		for _, e := range fx.Candidates {
			to.Candidates.Create(ctx, candidate.Candidate{Name: e.Name})
			sum.Candidates++
		}
	}
	if to.CandidateTests != nil {
		for _, e := range fx.CandidateTests {
			to.CandidateTests.Create(ctx, candidate.CandidateTest{
				CandidateID: e.CandidateID,
				TestID:      e.TestID,
			})
			sum.CandidateTests++
		}
	}
	return sum
}
