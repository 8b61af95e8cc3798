package root

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/aryann/difflib"
	"github.com/mgutz/ansi"
)

// StackDiff is the difference between the deployed and the rendered template of a stack.
type StackDiff struct {
	Target  string
	Exists  bool
	Changed bool
	text    string
}

func (d *StackDiff) String() string {
	return d.text
}

// normalizeJson re-indents a template with sorted keys so that formatting never shows up as a change.
func normalizeJson(doc string) (string, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func diffJson(current, desired string, context int) (string, bool, error) {
	currentText, err := normalizeJson(current)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse the current template: %v", err)
	}

	desiredText, err := normalizeJson(desired)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse the desired template: %v", err)
	}

	return diffText(currentText, desiredText, context)
}

func diffText(current, desired string, context int) (string, bool, error) {
	stackDiffs := difflib.Diff(strings.Split(current, "\n"), strings.Split(desired, "\n"))
	changed := false
	for _, r := range stackDiffs {
		if r.Delta != difflib.Common {
			changed = true
			break
		}
	}

	stackDiffOutputs := []string{}
	if context >= 0 {
		distances := calculateDistances(stackDiffs)
		omitting := false
		for i, r := range stackDiffs {
			if distances[i] > context {
				if !omitting {
					stackDiffOutputs = append(stackDiffOutputs, "...\n")
					omitting = true
				}
			} else {
				omitting = false
				stackDiffOutputs = append(stackDiffOutputs, sprintDiffRecord(r))
			}
		}
	} else {
		for _, r := range stackDiffs {
			stackDiffOutputs = append(stackDiffOutputs, sprintDiffRecord(r))
		}
	}
	return strings.Join(stackDiffOutputs, ""), changed, nil
}

// Calculate distance of every diff-line to the closest change
func calculateDistances(diffs []difflib.DiffRecord) map[int]int {
	distances := map[int]int{}

	// Iterate forwards through diffs, set 'distance' based on closest 'change' before this line
	change := -1
	for i, diff := range diffs {
		if diff.Delta != difflib.Common {
			change = i
		}
		distance := math.MaxInt32
		if change != -1 {
			distance = i - change
		}
		distances[i] = distance
	}

	// Iterate backwards through diffs, reduce 'distance' based on closest 'change' after this line
	change = -1
	for i := len(diffs) - 1; i >= 0; i-- {
		diff := diffs[i]
		if diff.Delta != difflib.Common {
			change = i
		}
		if change != -1 {
			distance := change - i
			if distance < distances[i] {
				distances[i] = distance
			}
		}
	}

	return distances
}

func sprintDiffRecord(diff difflib.DiffRecord) string {
	text := diff.Payload

	var res string
	switch diff.Delta {
	case difflib.RightOnly:
		res = fmt.Sprintf("%s\n", ansi.Color("+ "+text, "green"))
	case difflib.LeftOnly:
		res = fmt.Sprintf("%s\n", ansi.Color("- "+text, "red"))
	case difflib.Common:
		res = fmt.Sprintf("%s\n", "  "+text)
	}
	return res
}
