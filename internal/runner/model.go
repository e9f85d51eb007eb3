// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import "fmt"

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Result is the verdict of a single check. Reason is only meaningful on failure.
type Result struct {
	Status Status
	Reason string
}

// Pass returns a passing result.
func Pass() Result { return Result{Status: StatusPass} }

// Fail returns a failing result with a diagnostic.
func Fail(reason string) Result { return Result{Status: StatusFail, Reason: reason} }

// Failf is a formatted variant of Fail.
func Failf(format string, args ...any) Result { return Fail(fmt.Sprintf(format, args...)) }

// Passed reports whether the pipeline may continue.
func (r Result) Passed() bool { return r.Status == StatusPass }

// Stage is a state of the pipeline. Checks run in ascending stage order.
type Stage int

const (
	StageIdle Stage = iota
	StageDangerousFiles
	StageComposer
	StageLint
	StageStaticAnalysis
	StageTests
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageIdle:           "idle",
	StageDangerousFiles: "dangerous-files",
	StageComposer:       "composer",
	StageLint:           "lint",
	StageStaticAnalysis: "static-analysis",
	StageTests:          "tests",
	StageDone:           "done",
	StageFailed:         "failed",
}

var stageLabels = map[Stage]string{
	StageDangerousFiles: "dangerous files",
	StageComposer:       "composer",
	StageLint:           "Linter",
	StageStaticAnalysis: "Syntax (PhpMd)",
	StageTests:          "Tests",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Label is the heading shown while the stage's check runs.
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return s.String()
}

// NeedsStagedFiles reports whether checks of this stage read the staged set.
// Dangerous files are inspected before the index is touched.
func (s Stage) NeedsStagedFiles() bool {
	return s > StageDangerousFiles && s < StageDone
}

// FailError is returned by Run when a check fails. Its diagnostic has
// already been reported to the operator.
type FailError struct {
	Stage  Stage
	Check  string
	Reason string
}

func (e *FailError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s failed", e.Check)
	}
	return fmt.Sprintf("%s failed: %s", e.Check, e.Reason)
}
