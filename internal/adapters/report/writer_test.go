package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/report"
	"go.trai.ch/knob/internal/core/domain"
)

func sampleReport() domain.Report {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return domain.Report{
		RunID:   "6f1c2a4e-0000-4000-8000-000000000001",
		Kind:    domain.StepConfigure,
		Command: "cmake -S . -B build",
		Start:   start,
		End:     start.Add(95 * time.Second),
		Status:  0,
		Output:  "-- Configuring done\n-- Generating <done> & ok\n",
	}
}

func TestMarshal(t *testing.T) {
	data, err := report.Marshal(sampleReport())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "configure_report", data)
}

func TestMarshal_Failure(t *testing.T) {
	r := sampleReport()
	r.Kind = domain.StepGenerate
	r.Command = "make"
	r.Status = 2
	r.End = r.Start.Add(5 * time.Second)
	r.Output = "make: *** [all] Error 2\n"

	data, err := report.Marshal(r)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "generate_report", data)
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".knob", "reports")
	w := report.NewWriter(dir)

	require.NoError(t, w.Write(sampleReport()))

	xmlData, err := os.ReadFile(filepath.Join(dir, "Configure.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "<Configure RunID=")

	logData, err := os.ReadFile(filepath.Join(dir, "LastConfigure.log"))
	require.NoError(t, err)
	assert.Equal(t, sampleReport().Output, string(logData))
}

func TestWriter_WriteUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "reports")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := report.NewWriter(blocker).Write(sampleReport())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReportWriteFailed))
}
