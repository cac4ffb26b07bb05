package models

import "time"

// Error types recorded on failed items.
const (
	ErrorTypeRead  = "read_error"
	ErrorTypeParse = "parse_error"
	ErrorTypeShape = "shape_error"
	ErrorTypeWrite = "write_error"
	ErrorTypeList  = "list_error"
)

// PlanResult holds the outcome of processing one plan directory.
type PlanResult struct {
	City       string
	PlanDir    string
	PlanNumber string
	TargetDir  string
	// Written is false when the plan had no plan_details.json at processing time.
	Written   bool
	Error     error
	ErrorType string
}

// OK reports whether the plan was processed without error.
func (r PlanResult) OK() bool { return r.Error == nil }

// CityResult holds the outcome of processing one city directory.
type CityResult struct {
	SourceDir string
	Name      string
	NameEN    string
	Code      int
	TargetDir string
	Plans     []PlanResult
	// Processed counts plans that finished without error.
	Processed int
	// MetadataWritten is false when city_metadata.json could not be written.
	MetadataWritten bool
	Error           error
	ErrorType       string
}

// Failed returns the plans that ended in error.
func (c CityResult) Failed() []PlanResult {
	var failed []PlanResult
	for _, p := range c.Plans {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// RunSummary is the in-memory result of a whole run.
type RunSummary struct {
	RunID      string
	SourceRoot string
	TargetRoot string
	StartedAt  time.Time
	FinishedAt time.Time
	Cities     []CityResult
	// Processed and Errors are the run-scoped counters.
	Processed int
	Errors    int
}

// Report is the YAML/JSON view of a RunSummary printed at the end of a run.
type Report struct {
	RunID      string         `yaml:"run_id" json:"run_id"`
	Source     string         `yaml:"source" json:"source"`
	Target     string         `yaml:"target" json:"target"`
	Processed  int            `yaml:"processed" json:"processed"`
	Errors     int            `yaml:"errors" json:"errors"`
	DurationMS int64          `yaml:"duration_ms" json:"duration_ms"`
	Cities     []CityReport   `yaml:"cities" json:"cities"`
	Failures   []FailedReport `yaml:"failures,omitempty" json:"failures,omitempty"`
}

type CityReport struct {
	Name      string `yaml:"name" json:"name"`
	NameEN    string `yaml:"name_en" json:"name_en"`
	Code      int    `yaml:"code" json:"code"`
	Processed int    `yaml:"processed" json:"processed"`
	Failed    int    `yaml:"failed" json:"failed"`
}

type FailedReport struct {
	City      string `yaml:"city" json:"city"`
	Plan      string `yaml:"plan,omitempty" json:"plan,omitempty"`
	ErrorType string `yaml:"error_type" json:"error_type"`
	Error     string `yaml:"error" json:"error"`
}

// Report builds the printable view of the summary.
func (s *RunSummary) Report() Report {
	rep := Report{
		RunID:      s.RunID,
		Source:     s.SourceRoot,
		Target:     s.TargetRoot,
		Processed:  s.Processed,
		Errors:     s.Errors,
		DurationMS: s.FinishedAt.Sub(s.StartedAt).Milliseconds(),
		Cities:     []CityReport{},
	}
	for _, c := range s.Cities {
		failed := c.Failed()
		rep.Cities = append(rep.Cities, CityReport{
			Name:      c.Name,
			NameEN:    c.NameEN,
			Code:      c.Code,
			Processed: c.Processed,
			Failed:    len(failed),
		})
		if c.Error != nil {
			rep.Failures = append(rep.Failures, FailedReport{
				City:      c.Name,
				ErrorType: c.ErrorType,
				Error:     c.Error.Error(),
			})
		}
		for _, p := range failed {
			rep.Failures = append(rep.Failures, FailedReport{
				City:      c.Name,
				Plan:      p.PlanDir,
				ErrorType: p.ErrorType,
				Error:     p.Error.Error(),
			})
		}
	}
	return rep
}
