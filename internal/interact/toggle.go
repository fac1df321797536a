package interact

import (
	"fmt"
	"strings"

	"github.com/roach88/semdoc/internal/token"
)

// executeToggle flips a checkbox token.
//
// The caller targets the checkbox in exactly one of two modes:
//
//   - file mode: "file_path" plus either "task_id" or "line_number". The
//     core never writes files; the output is a save_request describing the
//     intended mutation for an external writer to apply.
//   - text mode: "text" plus "line_number". The toggle is applied to the
//     given text and the updated text returned in full.
//
// Mixing the modes or supplying neither is an input-validation error.
// Line numbers arrive 1-indexed and are converted to 0-indexed here,
// exactly once.
func executeToggle(tok token.MeaningToken, args token.Object) (token.Object, error) {
	payload, ok := tok.Payload.(token.CheckboxPayload)
	if !ok {
		return nil, fmt.Errorf("toggle is only defined for checkboxes")
	}

	_, hasFile := argStr(args, "file_path")
	_, hasText := argStr(args, "text")
	switch {
	case hasFile && hasText:
		return nil, fmt.Errorf("toggle: file_path and text are mutually exclusive")
	case hasFile:
		return toggleFileMode(payload, args)
	case hasText:
		return toggleTextMode(args)
	default:
		return nil, fmt.Errorf("toggle: requires either file_path (file mode) or text (text mode)")
	}
}

// toggleFileMode builds the save_request for an external writer.
func toggleFileMode(payload token.CheckboxPayload, args token.Object) (token.Object, error) {
	filePath, _ := argStr(args, "file_path")
	taskID, hasTask := argStr(args, "task_id")
	line, hasLine := argInt(args, "line_number")

	if hasTask == hasLine {
		return nil, fmt.Errorf("toggle: file mode requires exactly one of task_id or line_number")
	}

	req := token.Object{
		"file_path": token.Str(filePath),
		"new_state": token.Bool(!payload.Checked),
	}
	if hasTask {
		req["task_id"] = token.Str(taskID)
	} else {
		if line < 1 {
			return nil, fmt.Errorf("toggle: line_number must be >= 1, got %d", line)
		}
		req["line_number"] = token.Int(line)
	}
	return token.Object{
		"mode":         token.Str("file"),
		"new_state":    token.Bool(!payload.Checked),
		"save_request": req,
	}, nil
}

// toggleTextMode applies the toggle to the supplied text.
func toggleTextMode(args token.Object) (token.Object, error) {
	text, _ := argStr(args, "text")
	line, hasLine := argInt(args, "line_number")
	if !hasLine {
		return nil, fmt.Errorf("toggle: text mode requires line_number")
	}
	if line < 1 {
		return nil, fmt.Errorf("toggle: line_number must be >= 1, got %d", line)
	}

	lines := strings.Split(text, "\n")
	idx := int(line) - 1 // 1-indexed caller convention, 0-indexed from here on
	if idx >= len(lines) {
		return nil, fmt.Errorf("toggle: line %d is beyond the %d-line text", line, len(lines))
	}

	toggled, newState, err := toggleLine(lines[idx])
	if err != nil {
		return nil, err
	}
	lines[idx] = toggled

	return token.Object{
		"mode":        token.Str("text"),
		"new_state":   token.Bool(newState),
		"new_text":    token.Str(strings.Join(lines, "\n")),
		"line_number": token.Int(line),
	}, nil
}

// toggleLine flips the checkbox marker on one line, preserving every other
// byte of the line.
func toggleLine(line string) (string, bool, error) {
	switch {
	case strings.HasPrefix(line, "- [ ] "):
		return "- [x] " + line[len("- [ ] "):], true, nil
	case strings.HasPrefix(line, "- [x] "), strings.HasPrefix(line, "- [X] "):
		return "- [ ] " + line[len("- [x] "):], false, nil
	default:
		return "", false, fmt.Errorf("toggle: line is not a checkbox: %q", line)
	}
}

func argStr(args token.Object, key string) (string, bool) {
	if args == nil {
		return "", false
	}
	s, ok := args[key].(token.Str)
	return string(s), ok
}

func argInt(args token.Object, key string) (int64, bool) {
	if args == nil {
		return 0, false
	}
	n, ok := args[key].(token.Int)
	return int64(n), ok
}
