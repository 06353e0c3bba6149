package domain

import "path/filepath"

const (
	// KnobDirName is the name of the per-project metadata directory.
	KnobDirName = ".knob"

	// ReportDirName is the name of the run report directory.
	ReportDirName = "reports"

	// ConfigFileName is the name of the YAML project configuration file.
	ConfigFileName = "knob.yaml"

	// TOMLConfigFileName is the name of the TOML project configuration file.
	TOMLConfigFileName = "knob.toml"

	// DefaultCacheFileName is the cache store used when no config names one.
	DefaultCacheFileName = "CMakeCache.txt"

	// DebugLogFile is the name of the debug log written while the form is open.
	DebugLogFile = "debug.log"

	// CacheEnvVar carries the absolute cache path into workflow steps.
	CacheEnvVar = "KNOB_CACHE"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultReportPath returns the default directory for run reports.
// It joins .knob and reports.
func DefaultReportPath() string {
	return filepath.Join(KnobDirName, ReportDirName)
}

// DefaultDebugLogPath returns the default path for the debug log.
// It joins .knob and debug.log.
func DefaultDebugLogPath() string {
	return filepath.Join(KnobDirName, DebugLogFile)
}
