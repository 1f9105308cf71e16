package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/tcnksm/go-input"
)

// Prompter asks the user questions in interactive mode.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(question string, options []string) (int, error)
	// Ask returns an answer accepted by validate. An empty answer yields def.
	Ask(question, def string, validate func(string) error) (string, error)
	Confirm(question string, def bool) (bool, error)
}

// labelWidth caps menu labels so long series names stay on one line.
const labelWidth = 72

// TerminalPrompter prompts on a terminal with numbered menus.
type TerminalPrompter struct {
	ui    *input.UI
	width int
}

// NewTerminalPrompter reads answers from r and writes questions to w.
func NewTerminalPrompter(r io.Reader, w io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		ui:    &input.UI{Reader: r, Writer: w},
		width: labelWidth,
	}
}

// Select shows options as a numbered menu and returns the chosen index.
func (t *TerminalPrompter) Select(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%s: nothing to choose from", question)
	}
	labels := menuLabels(options, t.width)

	choice, err := t.ui.Select(question, labels, &input.Options{
		Required: true,
		Loop:     true,
	})
	if err != nil {
		return 0, err
	}
	for i, label := range labels {
		if label == choice {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: unknown choice %q", question, choice)
}

// menuLabels truncates options to width. Labels that truncate to the same
// text get their position appended so every choice maps back to one option.
func menuLabels(options []string, width int) []string {
	labels := make([]string, len(options))
	seen := make(map[string]int, len(options))
	for i, option := range options {
		labels[i] = runewidth.Truncate(option, width, "...")
		seen[labels[i]]++
	}
	for i, label := range labels {
		if seen[label] > 1 {
			labels[i] = fmt.Sprintf("%s [%d]", label, i+1)
		}
	}
	return labels
}

// Ask reads a free-form answer, looping until validate accepts it.
func (t *TerminalPrompter) Ask(question, def string, validate func(string) error) (string, error) {
	opts := &input.Options{
		Default:  def,
		Required: def == "",
		Loop:     true,
	}
	if validate != nil {
		opts.ValidateFunc = func(answer string) error {
			return validate(strings.TrimSpace(answer))
		}
	}
	answer, err := t.ui.Ask(question, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (t *TerminalPrompter) Confirm(question string, def bool) (bool, error) {
	answer, err := t.Ask(question+" (y/n)", yesNo(def), func(s string) error {
		_, err := parseYesNo(s)
		return err
	})
	if err != nil {
		return false, err
	}
	return parseYesNo(answer)
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "e", "evet":
		return true, nil
	case "n", "no", "h", "hayir", "hayır":
		return false, nil
	}
	return false, errors.New("answer y or n")
}
