package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tacogips/tpick/internal/catalog"
)

// selectPageSize is the number of entries shown at once in the selection list.
const selectPageSize = 15

// SurveyPrompter uses arrow-key selection on a terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a SurveyPrompter on the given terminal streams.
func NewSurveyPrompter(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyPrompter {
	return &SurveyPrompter{
		opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)},
	}
}

// Select implements Prompter.
func (p *SurveyPrompter) Select(ctx context.Context, entries []catalog.Entry) (catalog.Entry, error) {
	if len(entries) == 0 {
		return catalog.Entry{}, errors.New("catalog has no templates")
	}

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label()
	}

	q := &survey.Select{
		Message:  "Select a template:",
		Options:  labels,
		PageSize: selectPageSize,
	}

	var idx int
	if err := survey.AskOne(q, &idx, p.opts...); err != nil {
		return catalog.Entry{}, surveyError(ctx, err)
	}
	if idx < 0 || idx >= len(entries) {
		return catalog.Entry{}, ErrNoSelection
	}
	return entries[idx], nil
}

// ConfirmDestination implements Prompter.
func (p *SurveyPrompter) ConfirmDestination(ctx context.Context, def string) (string, error) {
	q := &survey.Input{
		Message: "Destination directory:",
		Default: def,
		Help:    "Relative paths are resolved against the current directory. A missing directory is created.",
	}

	var result string
	if err := survey.AskOne(q, &result, p.opts...); err != nil {
		return "", surveyError(ctx, err)
	}
	if result == "" {
		return def, nil
	}
	return result, nil
}

// ConfirmOverwrite implements Prompter.
func (p *SurveyPrompter) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	q := &survey.Confirm{
		Message: "Overwrite " + path + "?",
		Default: false,
	}

	var ok bool
	if err := survey.AskOne(q, &ok, p.opts...); err != nil {
		return false, surveyError(ctx, err)
	}
	return ok, nil
}

// surveyError maps an interrupted or closed prompt to ErrNoSelection.
func surveyError(ctx context.Context, err error) error {
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) || ctx.Err() != nil {
		return ErrNoSelection
	}
	return err
}
