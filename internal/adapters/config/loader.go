// Package config provides the configuration loader for knob.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const supportedVersion = "1"

// Loader implements ports.ConfigLoader for knob.yaml and knob.toml files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds the nearest config file above cwd and resolves it into a project.
// Without a config file the project is rooted at cwd with default paths and no steps.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return defaultProject(cwd), nil
	}

	var kf Knobfile
	if err := readConfig(configPath, &kf); err != nil {
		return nil, err
	}
	if kf.Version != "" && kf.Version != supportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown config version %q in %s, reading it as version %s",
			kf.Version, filepath.Base(configPath), supportedVersion))
	}

	root := filepath.Dir(configPath)
	baseDir := resolvePath(root, kf.WorkingDir, root)
	project := &domain.Project{
		Root:      baseDir,
		CachePath: resolvePath(baseDir, kf.Cache, filepath.Join(baseDir, domain.DefaultCacheFileName)),
		ReportDir: resolvePath(root, kf.Report.Dir, filepath.Join(root, domain.DefaultReportPath())),
		Configure: l.buildStep(domain.StepConfigure, kf.Configure, baseDir),
		Generate:  l.buildStep(domain.StepGenerate, kf.Generate, baseDir),
	}
	return project, nil
}

// DiscoverRoot walks up from cwd to the directory holding the config file.
// It returns cwd when there is none.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	if configPath == "" {
		return filepath.Clean(cwd), nil
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(domain.WrapKind(domain.ErrConfigRead, err), "cwd", cwd)
	}

	for {
		yamlPath := filepath.Join(currentDir, domain.ConfigFileName)
		tomlPath := filepath.Join(currentDir, domain.TOMLConfigFileName)
		hasYAML, err := exists(yamlPath)
		if err != nil {
			return "", err
		}
		hasTOML, err := exists(tomlPath)
		if err != nil {
			return "", err
		}

		switch {
		case hasYAML && hasTOML:
			l.Logger.Warn(fmt.Sprintf("both %s and %s found in %s, using %s",
				domain.ConfigFileName, domain.TOMLConfigFileName, currentDir, domain.ConfigFileName))
			return yamlPath, nil
		case hasYAML:
			return yamlPath, nil
		case hasTOML:
			return tomlPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", nil
		}
		currentDir = parentDir
	}
}

func (l *Loader) buildStep(kind domain.StepKind, dto *StepDTO, baseDir string) domain.Step {
	step := domain.Step{Kind: kind, WorkingDir: baseDir}
	if dto == nil {
		return step
	}
	step.Command = dto.Cmd
	step.WorkingDir = resolvePath(baseDir, dto.WorkingDir, baseDir)
	if len(dto.Environment) > 0 {
		step.Environment = make(map[string]string, len(dto.Environment))
		for k, v := range dto.Environment {
			if k == domain.CacheEnvVar {
				l.Logger.Warn(fmt.Sprintf("%s is set by knob and cannot be overridden in the %s step",
					domain.CacheEnvVar, kind))
				continue
			}
			step.Environment[k] = v
		}
	}
	return step
}

func defaultProject(cwd string) *domain.Project {
	root := filepath.Clean(cwd)
	return &domain.Project{
		Root:      root,
		CachePath: filepath.Join(root, domain.DefaultCacheFileName),
		ReportDir: filepath.Join(root, domain.DefaultReportPath()),
		Configure: domain.Step{Kind: domain.StepConfigure, WorkingDir: root},
		Generate:  domain.Step{Kind: domain.StepGenerate, WorkingDir: root},
	}
}

// resolvePath resolves configured against baseDir, falling back to def when empty.
func resolvePath(baseDir, configured, def string) string {
	if configured == "" {
		return filepath.Clean(def)
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(baseDir, configured))
}

// readConfig reads a config file and unmarshals it by extension.
func readConfig(configPath string, target *Knobfile) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(domain.WrapKind(domain.ErrConfigRead, err), "path", configPath)
	}

	if filepath.Ext(configPath) == ".toml" {
		if _, parseErr := toml.Decode(string(data), target); parseErr != nil {
			return zerr.With(domain.WrapKind(domain.ErrConfigParse, parseErr), "path", configPath)
		}
		return nil
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.With(domain.WrapKind(domain.ErrConfigParse, parseErr), "path", configPath)
	}
	return nil
}

func exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(domain.WrapKind(domain.ErrConfigRead, err), "path", path)
}
