package view

import (
	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/utils"
)

// DisplayKind is the panel shown for a given state.
type DisplayKind int

const (
	DisplayIdle DisplayKind = iota
	DisplayLoading
	DisplayError
	DisplayReport
)

func (d DisplayKind) String() string {
	switch d {
	case DisplayLoading:
		return "loading"
	case DisplayError:
		return "error"
	case DisplayReport:
		return "report"
	default:
		return "idle"
	}
}

// State is a snapshot of everything the page shows.
type State struct {
	ResumeText         string
	JobDescriptionText string
	Result             *ai.Result
	Loading            bool
	Error              string
	ErrorKind          ai.Kind
}

// Display picks exactly one panel for s: loading, then idle, then error, then report.
func Display(s State) DisplayKind {
	switch {
	case s.Loading:
		return DisplayLoading
	case s.Result == nil && s.Error == "":
		return DisplayIdle
	case s.Error != "":
		return DisplayError
	default:
		return DisplayReport
	}
}

// CanTrigger reports whether the analyze action is enabled.
func (s State) CanTrigger() bool {
	return !s.Loading && !utils.IsBlank(s.ResumeText) && !utils.IsBlank(s.JobDescriptionText)
}

func (s State) clone() State {
	s.Result = s.Result.Clone()
	return s
}
