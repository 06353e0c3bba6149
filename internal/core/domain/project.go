package domain

// Project is the resolved project configuration.
// All paths are absolute.
type Project struct {
	Root      string
	CachePath string
	ReportDir string
	Configure Step
	Generate  Step
}

// Step returns the step definition for the given kind.
func (p *Project) Step(kind StepKind) Step {
	if kind == StepGenerate {
		return p.Generate
	}
	return p.Configure
}
