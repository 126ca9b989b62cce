package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardCmd struct {
	name string
	args []string
}

// clipboardCommands lists the helpers tried in order for the current OS.
func clipboardCommands(goos string) []clipboardCmd {
	switch goos {
	case "darwin":
		return []clipboardCmd{{name: "pbcopy"}}
	case "windows":
		return []clipboardCmd{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardCmd{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

// copyToClipboard is a variable so tests can capture copies.
var copyToClipboard = func(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var errs []error
	for _, c := range clipboardCommands(runtime.GOOS) {
		if _, err := exec.LookPath(c.name); err != nil {
			errs = append(errs, err)
			continue
		}
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		return nil
	}
	return fmt.Errorf("no clipboard available: %w", errors.Join(errs...))
}
