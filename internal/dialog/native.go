package dialog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Filter restricts a file picker to the given extensions (without dots).
type Filter struct {
	Name       string
	Extensions []string
}

// Picker opens native selection dialogs. ok is false when the user cancels.
type Picker interface {
	PickFolder(ctx context.Context) (path string, ok bool, err error)
	PickFile(ctx context.Context, filter Filter) (path string, ok bool, err error)
}

// Disabled is a Picker for headless runs; every request reports dialog_cancelled.
type Disabled struct{}

func (Disabled) PickFolder(ctx context.Context) (string, bool, error) {
	return Await(ctx, func(r *Responder) { r.Drop() })
}

func (Disabled) PickFile(ctx context.Context, _ Filter) (string, bool, error) {
	return Await(ctx, func(r *Responder) { r.Drop() })
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Native shows the platform's own dialogs by shelling out to zenity (Linux and
// BSDs), osascript (macOS) or PowerShell (Windows).
type Native struct {
	GOOS string
	Run  Runner
}

// NewNative returns a Native picker for the running platform.
func NewNative() *Native {
	return &Native{GOOS: runtime.GOOS, Run: execRunner}
}

// PickFolder asks the user for a directory.
func (n *Native) PickFolder(ctx context.Context) (string, bool, error) {
	name, args := folderCommand(n.GOOS)
	return n.pick(ctx, name, args)
}

// PickFile asks the user for a single file matching filter.
func (n *Native) PickFile(ctx context.Context, filter Filter) (string, bool, error) {
	name, args := fileCommand(n.GOOS, filter)
	return n.pick(ctx, name, args)
}

func (n *Native) pick(ctx context.Context, name string, args []string) (string, bool, error) {
	return Await(ctx, func(r *Responder) {
		out, err := n.Run(ctx, name, args...)
		respond(r, out, err)
	})
}

// respond translates a finished picker process into a dialog outcome. All
// three tools exit with status 1 when the user dismisses the dialog.
func respond(r *Responder, out []byte, err error) {
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			r.Cancel()
			return
		}
		r.Drop()
		return
	}
	path := strings.TrimRight(string(out), "\r\n")
	if path == "" {
		r.Cancel()
		return
	}
	r.Resolve(path)
}

func folderCommand(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "osascript", []string{"-e", `POSIX path of (choose folder with prompt "Select a folder")`}
	case "windows":
		return "powershell", []string{"-NoProfile", "-Command", `Add-Type -AssemblyName System.Windows.Forms; ` +
			`$d = New-Object System.Windows.Forms.FolderBrowserDialog; ` +
			`if ($d.ShowDialog() -eq 'OK') { $d.SelectedPath }`}
	default:
		return "zenity", []string{"--file-selection", "--directory", "--title=Select a folder"}
	}
}

func fileCommand(goos string, filter Filter) (string, []string) {
	switch goos {
	case "darwin":
		types := make([]string, len(filter.Extensions))
		for i, ext := range filter.Extensions {
			types[i] = fmt.Sprintf("%q", ext)
		}
		script := "POSIX path of (choose file with prompt \"Select a file\""
		if len(types) > 0 {
			script += " of type {" + strings.Join(types, ", ") + "}"
		}
		return "osascript", []string{"-e", script + ")"}
	case "windows":
		patterns := make([]string, len(filter.Extensions))
		for i, ext := range filter.Extensions {
			patterns[i] = "*." + ext
		}
		pattern := strings.Join(patterns, ";")
		return "powershell", []string{"-NoProfile", "-Command", `Add-Type -AssemblyName System.Windows.Forms; ` +
			`$d = New-Object System.Windows.Forms.OpenFileDialog; ` +
			fmt.Sprintf(`$d.Filter = '%s (%s)|%s'; `, filter.Name, pattern, pattern) +
			`if ($d.ShowDialog() -eq 'OK') { $d.FileName }`}
	default:
		args := []string{"--file-selection", "--title=Select a file"}
		if len(filter.Extensions) > 0 {
			globs := make([]string, len(filter.Extensions))
			for i, ext := range filter.Extensions {
				globs[i] = "*." + ext
			}
			args = append(args, fmt.Sprintf("--file-filter=%s | %s", filter.Name, strings.Join(globs, " ")))
		}
		return "zenity", args
	}
}
