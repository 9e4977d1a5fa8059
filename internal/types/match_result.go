package types

import "encoding/json"

// MatchResult is one ranked employee returned by the scoring query
type MatchResult struct {
	EmployeeName string  `json:"employee_name"`
	MatchRate    float64 `json:"final_match_rate"`
	HasRate      bool    `json:"-"` // false when the query returned NULL
}

type matchResultJSON struct {
	EmployeeName string   `json:"employee_name"`
	MatchRate    *float64 `json:"final_match_rate"`
}

// MarshalJSON writes a missing rate as null
func (m MatchResult) MarshalJSON() ([]byte, error) {
	out := matchResultJSON{EmployeeName: m.EmployeeName}
	if m.HasRate {
		out.MatchRate = &m.MatchRate
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null rate back as HasRate=false
func (m *MatchResult) UnmarshalJSON(data []byte) error {
	var in matchResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = MatchResult{EmployeeName: in.EmployeeName}
	if in.MatchRate != nil {
		m.MatchRate, m.HasRate = *in.MatchRate, true
	}
	return nil
}

// HistogramBin is one bucket of the match-rate distribution.
// Lower is inclusive; Upper is exclusive except for the last bin.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Narrative is the AI-written summary of a run. Exactly one of Text or Err is set.
type Narrative struct {
	Text string `json:"text,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Failed reports whether the summary could not be produced
func (n *Narrative) Failed() bool {
	return n != nil && n.Err != ""
}

// Report is everything a finished run shows to the analyst
type Report struct {
	JobID     int64          `json:"job_vacancy_id"`
	Request   JobRequest     `json:"request"`
	Ranked    []MatchResult  `json:"ranked"`
	Histogram []HistogramBin `json:"histogram,omitempty"`
	Narrative *Narrative     `json:"narrative,omitempty"`
	Warning   string         `json:"warning,omitempty"`
}
