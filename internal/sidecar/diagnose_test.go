package sidecar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiagnose_NoScript(t *testing.T) {
	t.Chdir(t.TempDir())
	rep := Diagnose(ShellInfo{})
	if rep.Script != "" {
		t.Fatalf("script = %s, want empty", rep.Script)
	}
	if len(rep.ScriptCandidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(rep.ScriptCandidates))
	}
	for _, c := range rep.ScriptCandidates {
		if c.Exists {
			t.Fatalf("candidate %s should not exist", c.Path)
		}
	}
}

func TestDiagnose_FullResolution(t *testing.T) {
	t.Chdir(t.TempDir())
	clearBindEnv(t)
	res := t.TempDir()
	script := filepath.Join(res, "backend", "server.py")
	writeFile(t, script)
	venv := filepath.Join(res, ".venv", "bin", "python")
	writeExecutable(t, venv, "#!/bin/sh\nexit 0\n")

	rep := Diagnose(ShellInfo{ResourceDir: res})
	if len(rep.ScriptCandidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(rep.ScriptCandidates))
	}
	if rep.Script != script {
		t.Fatalf("script = %s, want %s", rep.Script, script)
	}
	if rep.Root != res {
		t.Fatalf("root = %s, want %s", rep.Root, res)
	}
	if len(rep.VenvCandidates) != 2 || rep.VenvCandidates[0].Exists || !rep.VenvCandidates[1].Exists {
		t.Fatalf("venv candidates = %+v", rep.VenvCandidates)
	}
	if rep.Interpreter != venv {
		t.Fatalf("interpreter = %s, want %s", rep.Interpreter, venv)
	}
	if rep.Host != "127.0.0.1" || rep.Port != 1421 {
		t.Fatalf("bind = %s:%d", rep.Host, rep.Port)
	}
	if want := filepath.Join(res, "data"); rep.DataDir != want {
		t.Fatalf("data dir = %s, want %s", rep.DataDir, want)
	}
	if _, err := os.Stat(rep.DataDir); !os.IsNotExist(err) {
		t.Fatalf("diagnose must not create the data dir: %v", err)
	}
}
