package materializer

import (
	"fmt"
	"strings"
)

// Action is what Apply does with one template file.
type Action int

const (
	// ActionCreate writes a file that does not exist yet.
	ActionCreate Action = iota
	// ActionOverwrite replaces an existing file.
	ActionOverwrite
	// ActionSkip leaves the destination untouched.
	ActionSkip
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Policy decides what happens to files that already exist at the destination.
type Policy string

const (
	// PolicySkip keeps existing files. This is the default.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces existing files.
	PolicyOverwrite Policy = "overwrite"
	// PolicyAsk confirms each replacement interactively.
	PolicyAsk Policy = "ask"
	// PolicyFail aborts before writing anything if any file exists.
	PolicyFail Policy = "fail"
)

// Policies lists the accepted policy names.
var Policies = []Policy{PolicySkip, PolicyOverwrite, PolicyAsk, PolicyFail}

// ParsePolicy converts a policy name. The empty string selects PolicySkip.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicySkip, nil
	}
	for _, p := range Policies {
		if string(p) == strings.ToLower(s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown conflict policy %q (want one of skip, overwrite, ask, fail)", s)
}

// PlannedAction is the decision for one template file.
type PlannedAction struct {
	// Path is the template-relative path.
	Path string
	// Target is the absolute destination path.
	Target string
	// Action is the planned action.
	Action Action
	// Reason explains a skip or overwrite.
	Reason string
}

// Plan is the ordered set of actions computed before any filesystem mutation.
type Plan struct {
	// Destination is the absolute destination directory.
	Destination string
	// Actions follow tree order.
	Actions []PlannedAction
}

// Count returns the number of actions of kind a.
func (p *Plan) Count(a Action) int {
	n := 0
	for _, pa := range p.Actions {
		if pa.Action == a {
			n++
		}
	}
	return n
}

// Report summarizes what Apply did.
type Report struct {
	// Created is the number of new files written.
	Created int
	// Overwritten is the number of existing files replaced.
	Overwritten int
	// Skipped is the number of files left untouched.
	Skipped int
	// SkippedPaths lists skipped template paths in tree order.
	SkippedPaths []string
	// Written lists created and overwritten template paths in tree order.
	Written []string
	// Failed is the template path whose write failed, if any.
	Failed string
}

// Wrote reports whether path was created or overwritten.
func (r *Report) Wrote(path string) bool {
	for _, p := range r.Written {
		if p == path {
			return true
		}
	}
	return false
}
