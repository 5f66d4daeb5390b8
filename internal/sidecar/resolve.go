package sidecar

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrScriptNotFound indicates no backend entry script exists in any candidate location.
var ErrScriptNotFound = errors.New("backend script not found")

// ErrInterpreterNotFound indicates no python interpreter could be located.
var ErrInterpreterNotFound = errors.New("python interpreter not found")

// ResolveScript returns the absolute path of the backend entry script. It
// tries a development checkout first (relative to the working directory and
// its parent) and falls back to the bundled resources directory when the
// shell supplies one. The first candidate that exists wins.
func ResolveScript(resourceDir string) (string, error) {
	for _, c := range scriptCandidates(resourceDir) {
		if pathExists(c) {
			return c, nil
		}
	}
	return "", ErrScriptNotFound
}

func scriptCandidates(resourceDir string) []string {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates,
			filepath.Join(cwd, "backend", "server.py"),
			filepath.Join(cwd, "..", "backend", "server.py"),
		)
	}
	if dir := strings.TrimSpace(resourceDir); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "backend", "server.py"))
	}
	return candidates
}

// ProjectRoot derives the backend project root from the entry script path:
// the script lives in <root>/backend, so the root is its grandparent.
func ProjectRoot(script string) string {
	return filepath.Dir(filepath.Dir(script))
}

// ResolveInterpreter returns the python interpreter to run the backend with.
// A project-local virtualenv wins over anything on PATH; both virtualenv
// layouts are tried so checkouts moved between platforms still resolve.
func ResolveInterpreter(root string) (string, error) {
	for _, c := range venvCandidates(root) {
		if pathExists(c) {
			return c, nil
		}
	}
	for _, name := range []string{"python", "python3"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no virtualenv under %s and no python or python3 on PATH", ErrInterpreterNotFound, root)
}

func venvCandidates(root string) []string {
	return []string{
		filepath.Join(root, ".venv", "Scripts", "python.exe"),
		filepath.Join(root, ".venv", "bin", "python"),
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
