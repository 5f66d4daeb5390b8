package sidecar

// Candidate is one probed filesystem path.
type Candidate struct {
	Path   string
	Exists bool
}

// Report describes how a launch would resolve right now.
type Report struct {
	ScriptCandidates []Candidate
	Script           string
	Root             string
	VenvCandidates   []Candidate
	Interpreter      string
	Host             string
	Port             uint16
	DataDir          string
}

// Diagnose walks the same resolution a launch would perform and reports every
// decision: each script candidate with its existence, the virtualenv
// candidates under the chosen root, and the effective bind address and data
// directory. Nothing is created or spawned.
func Diagnose(info ShellInfo) Report {
	var r Report
	for _, c := range scriptCandidates(info.ResourceDir) {
		r.ScriptCandidates = append(r.ScriptCandidates, Candidate{Path: c, Exists: pathExists(c)})
	}
	for _, c := range r.ScriptCandidates {
		if c.Exists {
			r.Script = c.Path
			break
		}
	}
	if r.Script == "" {
		return r
	}
	r.Root = ProjectRoot(r.Script)
	for _, c := range venvCandidates(r.Root) {
		r.VenvCandidates = append(r.VenvCandidates, Candidate{Path: c, Exists: pathExists(c)})
	}
	if interpreter, err := ResolveInterpreter(r.Root); err == nil {
		r.Interpreter = interpreter
	}
	r.Host, r.Port = effectiveHostPort(readDotenv(r.Root))
	r.DataDir = effectiveDataDir(r.Root, info.AppDataDir)
	return r
}
