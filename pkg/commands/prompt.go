package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"tableflip.dev/taskboard/pkg/calendar"
	"tableflip.dev/taskboard/pkg/task"
)

// errCancelled is returned when the user backs out of a prompt.
var errCancelled = errors.New("cancelled")

// Prompts are variables so tests can answer them.
var (
	promptTask = selectTask
	promptDate = askDate
)

func selectTask(label string, tasks []*task.Task) (string, error) {
	if len(tasks) == 0 {
		return "", errors.New("no tasks to choose from")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Description | cyan }} {{ .ScheduledDate | faint }}",
		Inactive: "  {{ .Description }} {{ .ScheduledDate | faint }}",
		Selected: "{{ .Description | bold }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(tasks[index].Description), strings.ToLower(input))
		},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", promptErr(err)
	}
	return tasks[i].ID, nil
}

func askDate(label string) (string, error) {
	validate := func(input string) error {
		_, err := calendar.ParseDate(strings.TrimSpace(input))
		return err
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   calendar.Format(time.Now()),
		Templates: templates,
		Validate:  validate,
	}

	result, err := prompt.Run()
	if err != nil {
		return "", promptErr(err)
	}
	return strings.TrimSpace(result), nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return errCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}
