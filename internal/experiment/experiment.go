package experiment

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Stage is a step of the A/B-test training wizard.
type Stage string

const (
	StagePick      Stage = "pick"
	StageConfigure Stage = "configure"
	StageRunning   Stage = "running"
	StageReview    Stage = "review"
)

// Code is the stage name the Student backend tracks.
func (s Stage) Code() string {
	switch s {
	case StagePick:
		return "PROBLEM"
	case StageConfigure:
		return "TEST_CONFIGURATION"
	case StageRunning:
		return "RUN_TEST"
	case StageReview:
		return "REVIEW_RESULTS"
	default:
		return "WELCOME"
	}
}

// DefaultRunSeconds is how long the simulated experiment runs.
const DefaultRunSeconds = 15

var (
	ErrNotFound          = errors.New("experiment session not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidParams     = errors.New("invalid test parameters")
	ErrUnknownHypothesis = errors.New("unknown hypothesis")
)

var (
	Durations = []string{"1", "2", "3", "4"}
	Markets   = []string{"Ukraine", "Poland", "Germany", "Italy", "France", "Austria"}
	Splits    = []string{"10/90", "20/80", "30/70", "40/60", "50/50", "60/40", "70/30", "80/20", "90/10"}
)

// Choice records the hypothesis picked on the first step.
type Choice struct {
	ProblemID       string `json:"problemId"`
	ProblemTitle    string `json:"problemTitle"`
	HypothesisID    string `json:"hypothesisId"`
	HypothesisTitle string `json:"hypothesisTitle"`
	HypothesisIndex int    `json:"hypothesisIndex"`
}

// Params are the test settings chosen on the configure step. Split
// defaults to 50/50 when left empty.
type Params struct {
	Duration string `json:"duration"`
	Market   string `json:"market"`
	Split    string `json:"split"`
}

// Validate checks every field against its allowed values.
func (p Params) Validate() error {
	if !slices.Contains(Durations, p.Duration) {
		return fmt.Errorf("%w: duration %q", ErrInvalidParams, p.Duration)
	}
	if !slices.Contains(Markets, p.Market) {
		return fmt.Errorf("%w: market %q", ErrInvalidParams, p.Market)
	}
	if !slices.Contains(Splits, p.Split) {
		return fmt.Errorf("%w: split %q", ErrInvalidParams, p.Split)
	}
	return nil
}

// Progress describes a running simulation.
type Progress struct {
	Percent          int  `json:"percent"`
	RemainingSeconds int  `json:"remainingSeconds"`
	Done             bool `json:"done"`
}

// Session is one student's pass through the wizard.
type Session struct {
	ID         string    `json:"id"`
	Stage      Stage     `json:"stage"`
	StageCode  string    `json:"stageCode"`
	Choice     *Choice   `json:"choice,omitempty"`
	Params     *Params   `json:"params,omitempty"`
	RunSeconds int       `json:"runSeconds"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	Progress   *Progress `json:"progress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// clone copies the session along with the values behind its pointers.
func (s *Session) clone() Session {
	c := *s
	if s.Choice != nil {
		choice := *s.Choice
		c.Choice = &choice
	}
	if s.Params != nil {
		params := *s.Params
		c.Params = &params
	}
	if s.Progress != nil {
		progress := *s.Progress
		c.Progress = &progress
	}
	return c
}

func (s *Session) setStage(stage Stage, now time.Time) {
	s.Stage = stage
	s.StageCode = stage.Code()
	s.UpdatedAt = now
}

func (s *Session) expect(stage Stage, action string) error {
	if s.Stage != stage {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, s.Stage)
	}
	return nil
}

// Choose picks a hypothesis and moves to the configure step.
func (s *Session) Choose(hypothesisID string, now time.Time) error {
	if err := s.expect(StagePick, "choose"); err != nil {
		return err
	}
	choice, ok := FindHypothesis(hypothesisID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHypothesis, hypothesisID)
	}
	s.Choice = &choice
	s.setStage(StageConfigure, now)
	return nil
}

// Back returns from configure to pick, keeping the previous choice.
func (s *Session) Back(now time.Time) error {
	if err := s.expect(StageConfigure, "go back"); err != nil {
		return err
	}
	s.setStage(StagePick, now)
	return nil
}

// Run validates params and starts the simulated experiment.
func (s *Session) Run(p Params, now time.Time) error {
	if err := s.expect(StageConfigure, "run"); err != nil {
		return err
	}
	if p.Split == "" {
		p.Split = "50/50"
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.Params = &p
	s.StartedAt = now
	s.setStage(StageRunning, now)
	s.Refresh(now)
	return nil
}

// Reconfigure goes from review back to configure with the same hypothesis.
func (s *Session) Reconfigure(now time.Time) error {
	if err := s.expect(StageReview, "reconfigure"); err != nil {
		return err
	}
	s.Progress = nil
	s.StartedAt = time.Time{}
	s.setStage(StageConfigure, now)
	return nil
}

// TestAnother goes from review back to pick.
func (s *Session) TestAnother(now time.Time) error {
	if err := s.expect(StageReview, "test another hypothesis"); err != nil {
		return err
	}
	s.Progress = nil
	s.StartedAt = time.Time{}
	s.setStage(StagePick, now)
	return nil
}

// Reset returns to the start of the wizard from any step, forgetting the
// choice and parameters.
func (s *Session) Reset(now time.Time) {
	s.Choice = nil
	s.Params = nil
	s.Progress = nil
	s.StartedAt = time.Time{}
	s.setStage(StagePick, now)
	s.StageCode = "WELCOME"
}

// Refresh updates progress of a running simulation and moves to review
// once it has finished.
func (s *Session) Refresh(now time.Time) {
	if s.Stage != StageRunning {
		return
	}
	p := ComputeProgress(now.Sub(s.StartedAt), s.RunSeconds)
	s.Progress = &p
	if p.Done {
		s.setStage(StageReview, now)
	}
}

// ComputeProgress returns the rounded percentage and whole seconds left for
// a run of runSeconds after elapsed.
func ComputeProgress(elapsed time.Duration, runSeconds int) Progress {
	if runSeconds <= 0 {
		runSeconds = DefaultRunSeconds
	}
	total := time.Duration(runSeconds) * time.Second
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}

	pct := int(math.Round(float64(elapsed) / float64(total) * 100))
	remaining := runSeconds - int(elapsed/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return Progress{
		Percent:          pct,
		RemainingSeconds: remaining,
		Done:             elapsed >= total,
	}
}
