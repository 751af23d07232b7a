package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/utils"
)

// ErrInFlight is returned when an analysis is requested while one is running.
var ErrInFlight = errors.New("analysis already in progress")

// Controller owns the page state and drives the analyzer.
// The mutex is never held across the analyzer call.
type Controller struct {
	analyzer ai.Analyzer
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

func NewController(analyzer ai.Analyzer, log *zap.Logger) *Controller {
	return &Controller{
		analyzer: analyzer,
		logger:   logger.WithFields(log),
	}
}

// SetResume updates the resume text. Ignored while an analysis is running.
func (c *Controller) SetResume(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Loading {
		c.state.ResumeText = text
	}
}

// SetJobDescription updates the job description text. Ignored while an analysis is running.
func (c *Controller) SetJobDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Loading {
		c.state.JobDescriptionText = text
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.clone()
}

func (c *Controller) CanTrigger() bool {
	return c.Snapshot().CanTrigger()
}

// TriggerAnalysis analyzes the current inputs. The outcome is recorded in the
// state, the only error returned is ErrInFlight.
func (c *Controller) TriggerAnalysis(ctx context.Context) error {
	return c.run(ctx, nil)
}

// Submit replaces both inputs and triggers an analysis in one step.
func (c *Controller) Submit(ctx context.Context, resumeText, jobDescriptionText string) error {
	return c.run(ctx, &inputs{resume: resumeText, jobDescription: jobDescriptionText})
}

type inputs struct {
	resume         string
	jobDescription string
}

func (c *Controller) run(ctx context.Context, in *inputs) error {
	resume, jobDescription, ok, err := c.begin(in)
	if err != nil || !ok {
		return err
	}

	started := time.Now()
	result, err := c.analyze(ctx, resume, jobDescription)
	c.finish(result, err, time.Since(started))

	return nil
}

// begin validates the inputs and flips the loading flag. ok is false when no
// request should be made.
func (c *Controller) begin(in *inputs) (resume, jobDescription string, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		c.logger.Debug("analysis trigger ignored", zap.String("reason", "analysis in progress"))
		return "", "", false, ErrInFlight
	}

	if in != nil {
		c.state.ResumeText = in.resume
		c.state.JobDescriptionText = in.jobDescription
	}

	if utils.IsBlank(c.state.ResumeText) || utils.IsBlank(c.state.JobDescriptionText) {
		c.state.Error = ai.MsgValidation
		c.state.ErrorKind = ai.KindValidation
		c.state.Result = nil
		return "", "", false, nil
	}

	c.state.Loading = true
	c.state.Error = ""
	c.state.ErrorKind = ai.KindUnknown
	c.state.Result = nil

	return c.state.ResumeText, c.state.JobDescriptionText, true, nil
}

func (c *Controller) analyze(ctx context.Context, resume, jobDescription string) (result *ai.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("analyzer panicked: %v", r)
		}
	}()

	if c.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	result, err = c.analyzer.Analyze(ctx, resume, jobDescription)
	if err == nil && result == nil {
		err = errors.New("analyzer returned no result")
	}

	return result, err
}

func (c *Controller) finish(result *ai.Result, err error, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false

	if err != nil {
		kind := ai.KindOf(err)
		c.state.Result = nil
		c.state.Error = ai.Message(err)
		c.state.ErrorKind = kind
		c.logger.Error("Analysis error",
			zap.Error(err),
			zap.String(logger.FieldErrorKind, kind.String()),
			zap.Duration("took", took),
		)
		return
	}

	c.state.Result = result
	c.logger.Info("analysis displayed",
		zap.Int("match_score", result.MatchScore),
		zap.Duration("took", took),
	)
}
