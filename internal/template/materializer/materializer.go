// Package materializer writes a fetched template tree into a destination directory.
package materializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// Confirmer answers per-file overwrite questions for PolicyAsk.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// Options configures a Materializer.
type Options struct {
	// Policy handles existing files. Empty means PolicySkip.
	Policy Policy
	// Confirm is consulted under PolicyAsk. Without it, existing files are skipped.
	Confirm Confirmer
	// Writer performs the writes. Nil uses FileWriter.
	Writer Writer
}

// Materializer plans and applies template writes.
type Materializer struct {
	policy  Policy
	confirm Confirmer
	writer  Writer
}

// New creates a Materializer.
func New(opts Options) *Materializer {
	if opts.Policy == "" {
		opts.Policy = PolicySkip
	}
	if opts.Writer == nil {
		opts.Writer = NewFileWriter()
	}
	return &Materializer{
		policy:  opts.Policy,
		confirm: opts.Confirm,
		writer:  opts.Writer,
	}
}

// Apply plans and then executes the writes of tree under dest.
func (m *Materializer) Apply(ctx context.Context, tree *model.Tree, dest string) (*Report, error) {
	plan, err := m.Plan(ctx, tree, dest)
	if err != nil {
		return nil, err
	}
	return m.Execute(ctx, plan, tree)
}

// Plan decides an action for every file of tree without touching the filesystem.
func (m *Materializer) Plan(ctx context.Context, tree *model.Tree, dest string) (*Plan, error) {
	root, err := prepareDestination(dest)
	if err != nil {
		return nil, err
	}
	debug.Debug("[materializer] Planning %d files into %s (policy=%s)", tree.Len(), root, m.policy)

	plan := &Plan{Destination: root, Actions: make([]PlannedAction, 0, tree.Len())}
	for _, f := range tree.Files {
		target, err := targetPath(root, f.Path)
		if err != nil {
			return nil, err
		}
		pa := PlannedAction{Path: f.Path, Target: target}

		if reason := blockedParent(root, target); reason != "" {
			pa.Action, pa.Reason = ActionSkip, reason
			plan.Actions = append(plan.Actions, pa)
			continue
		}

		info, err := os.Lstat(target)
		switch {
		case errors.Is(err, os.ErrNotExist):
			pa.Action = ActionCreate
		case err != nil:
			return nil, &FilesystemError{Type: FilesystemInvalidDestination, Message: "failed to inspect target", Path: f.Path, Destination: root, Cause: err}
		case info.IsDir():
			pa.Action, pa.Reason = ActionSkip, "a directory exists at this path"
		case info.Mode()&os.ModeSymlink != 0:
			pa.Action, pa.Reason = ActionSkip, "a symlink exists at this path"
		case !info.Mode().IsRegular():
			pa.Action, pa.Reason = ActionSkip, "a special file exists at this path"
		default:
			if err := m.decideExisting(ctx, &pa, root); err != nil {
				return nil, err
			}
		}

		debug.Debug("[materializer] %s -> %s %s", f.Path, pa.Action, pa.Reason)
		plan.Actions = append(plan.Actions, pa)
	}
	return plan, nil
}

func (m *Materializer) decideExisting(ctx context.Context, pa *PlannedAction, root string) error {
	switch m.policy {
	case PolicyOverwrite:
		pa.Action, pa.Reason = ActionOverwrite, "file exists"
	case PolicyFail:
		return &FilesystemError{Type: FilesystemConflict, Message: "file already exists", Path: pa.Path, Destination: root}
	case PolicyAsk:
		if m.confirm == nil {
			pa.Action, pa.Reason = ActionSkip, "file exists"
			return nil
		}
		ok, err := m.confirm.ConfirmOverwrite(ctx, pa.Path)
		if err != nil {
			return err
		}
		if ok {
			pa.Action, pa.Reason = ActionOverwrite, "confirmed"
		} else {
			pa.Action, pa.Reason = ActionSkip, "overwrite declined"
		}
	default:
		pa.Action, pa.Reason = ActionSkip, "file exists"
	}
	return nil
}

// Execute performs plan. It stops at the first failure or cancellation and
// returns the partial report both directly and inside the *FilesystemError.
func (m *Materializer) Execute(ctx context.Context, plan *Plan, tree *model.Tree) (*Report, error) {
	defer debug.Elapsed("[materializer] apply", time.Now())

	report := &Report{}
	if len(plan.Actions) != tree.Len() {
		return report, &FilesystemError{Type: FilesystemInvalidDestination, Message: "plan does not match template", Destination: plan.Destination, Report: report}
	}

	for i, pa := range plan.Actions {
		f := tree.Files[i]
		if f.Path != pa.Path {
			return report, &FilesystemError{Type: FilesystemInvalidDestination, Message: "plan does not match template", Path: f.Path, Destination: plan.Destination, Report: report}
		}
		if err := ctx.Err(); err != nil {
			report.Failed = pa.Path
			return report, &FilesystemError{Type: FilesystemCancelled, Message: "materialization cancelled", Path: pa.Path, Destination: plan.Destination, Report: report, Cause: err}
		}

		switch pa.Action {
		case ActionSkip:
			report.Skipped++
			report.SkippedPaths = append(report.SkippedPaths, pa.Path)
			continue
		case ActionCreate, ActionOverwrite:
		default:
			continue
		}

		if err := m.writer.WriteFile(pa.Target, f.Content, f.Executable); err != nil {
			report.Failed = pa.Path
			var fe *FilesystemError
			if errors.As(err, &fe) {
				fe.Path = pa.Path
				fe.Destination = plan.Destination
				fe.Report = report
				return report, fe
			}
			return report, &FilesystemError{Type: FilesystemWriteFailed, Message: "failed to write file", Path: pa.Path, Destination: plan.Destination, Report: report, Cause: err}
		}

		report.Written = append(report.Written, pa.Path)
		if pa.Action == ActionCreate {
			report.Created++
		} else {
			report.Overwritten++
		}
	}

	debug.Debug("[materializer] Done: created=%d overwritten=%d skipped=%d",
		report.Created, report.Overwritten, report.Skipped)
	return report, nil
}

// prepareDestination resolves dest to an absolute path and checks it is a
// directory or does not exist yet.
func prepareDestination(dest string) (string, error) {
	if dest == "" {
		dest = "."
	}
	root, err := filepath.Abs(dest)
	if err != nil {
		return "", &FilesystemError{Type: FilesystemInvalidDestination, Message: "failed to resolve destination", Destination: dest, Cause: err}
	}
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return root, nil
	case err != nil:
		return "", &FilesystemError{Type: FilesystemInvalidDestination, Message: "failed to inspect destination", Destination: root, Cause: err}
	case !info.IsDir():
		return "", &FilesystemError{Type: FilesystemInvalidDestination, Message: "destination is not a directory", Destination: root}
	}
	return root, nil
}

// targetPath joins a tree path onto root and verifies the result stays inside root.
func targetPath(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, target)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", &FilesystemError{
			Type:        FilesystemInvalidDestination,
			Message:     "target escapes destination",
			Path:        rel,
			Destination: root,
			Cause:       &model.PathError{Path: rel, Reason: "outside destination"},
		}
	}
	return target, nil
}

// blockedParent returns a skip reason when an existing ancestor of target
// (below root) is not a plain directory.
func blockedParent(root, target string) string {
	for dir := filepath.Dir(target); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		info, err := os.Lstat(dir)
		if err != nil {
			continue
		}
		rel, _ := filepath.Rel(root, dir)
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Sprintf("parent %s is a symlink", filepath.ToSlash(rel))
		}
		if !info.IsDir() {
			return fmt.Sprintf("parent %s is not a directory", filepath.ToSlash(rel))
		}
	}
	return ""
}
