// Package report writes the record of each external step run.
//
// A run of the configure step produces Configure.xml and LastConfigure.log in
// the report directory; generate runs produce Generate.xml and LastGenerate.log.
package report

import (
	"encoding/xml"
	"path/filepath"
	"time"

	"go.trai.ch/knob/internal/adapters/fs"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
)

// TimeLayout is the timestamp format used in reports.
const TimeLayout = time.RFC3339

// record is the XML document. The root element is named after the step.
type record struct {
	XMLName        xml.Name
	RunID          string  `xml:"RunID,attr"`
	StartDateTime  string  `xml:"StartDateTime"`
	Command        string  `xml:"Command"`
	Log            string  `xml:"Log"`
	Status         int     `xml:"Status"`
	EndDateTime    string  `xml:"EndDateTime"`
	ElapsedMinutes float64 `xml:"ElapsedMinutes"`
}

// Writer implements ports.ReportWriter for one report directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer storing reports in dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the report directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores the XML record and the raw log of the run.
func (w *Writer) Write(r domain.Report) error {
	data, err := Marshal(r)
	if err != nil {
		return zerr.With(domain.WrapKind(domain.ErrReportWriteFailed, err), "step", string(r.Kind))
	}

	xmlPath := filepath.Join(w.dir, string(r.Kind)+".xml")
	if err := fs.WriteFile(xmlPath, data); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrReportWriteFailed, err), "path", xmlPath)
	}

	logPath := filepath.Join(w.dir, "Last"+string(r.Kind)+".log")
	if err := fs.WriteFile(logPath, []byte(r.Output)); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrReportWriteFailed, err), "path", logPath)
	}
	return nil
}

// Marshal renders the XML record of a run.
func Marshal(r domain.Report) ([]byte, error) {
	doc := record{
		XMLName:        xml.Name{Local: string(r.Kind)},
		RunID:          r.RunID,
		StartDateTime:  r.Start.UTC().Format(TimeLayout),
		Command:        r.Command,
		Log:            r.Output,
		Status:         r.Status,
		EndDateTime:    r.End.UTC().Format(TimeLayout),
		ElapsedMinutes: r.ElapsedMinutes(),
	}

	body, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode report")
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}
