package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-fieldprop/pkg/site"
)

// Outcome classifies one (document, site, field) pair.
type Outcome string

const (
	Applied        Outcome = "applied"
	AlreadyApplied Outcome = "already-applied"
	NotFound       Outcome = "not-found"
	Ambiguous      Outcome = "ambiguous"
	Aborted        Outcome = "aborted"
	Pending        Outcome = "pending"
)

// Outcomes lists every outcome in report order.
func Outcomes() []Outcome {
	return []Outcome{Applied, AlreadyApplied, Pending, NotFound, Ambiguous, Aborted}
}

// Blocking reports whether the outcome leaves the field missing from the
// document.
func (o Outcome) Blocking() bool {
	switch o {
	case NotFound, Ambiguous, Aborted:
		return true
	default:
		return false
	}
}

// Mode selects how blocking pairs affect the rest of a run.
type Mode string

const (
	// ModeStrict applies nothing unless every pair can be applied.
	ModeStrict Mode = "strict"
	// ModeBestEffort applies every pair that resolved.
	ModeBestEffort Mode = "best-effort"
)

// Valid reports whether m is a known mode. The empty mode is treated as
// strict.
func (m Mode) Valid() bool {
	return m == "" || m == ModeStrict || m == ModeBestEffort
}

// Entry is the outcome of one pair.
type Entry struct {
	Document string            `json:"document"`
	Site     string            `json:"site"`
	Field    string            `json:"field"`
	Kind     site.DocumentKind `json:"kind,omitempty"`
	Outcome  Outcome           `json:"outcome"`
	// Position is the insertion offset in the original document, -1 when
	// the pair never resolved.
	Position int    `json:"position"`
	Count    int    `json:"count,omitempty"`
	Err      error  `json:"-"`
	Detail   string `json:"detail,omitempty"`
}

// MarshalJSON adds the error message to the encoded entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	payload := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(e)}
	if e.Err != nil {
		payload.Error = e.Err.Error()
	}
	return json.Marshal(payload)
}

// Key identifies the pair an entry describes.
func (e Entry) Key() string {
	return e.Document + "#" + e.Site + "#" + e.Field
}

// Report is the result of one run. Entries keep planning order.
type Report struct {
	RunID   string  `json:"runId"`
	Mode    Mode    `json:"mode"`
	DryRun  bool    `json:"dryRun,omitempty"`
	Entries []Entry `json:"entries"`
}

// New starts an empty report with a fresh run id.
func New(mode Mode, dryRun bool) Report {
	if mode == "" {
		mode = ModeStrict
	}
	return Report{RunID: uuid.NewString(), Mode: mode, DryRun: dryRun}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// OK reports whether no entry is blocking.
func (r Report) OK() bool {
	for _, e := range r.Entries {
		if e.Outcome.Blocking() {
			return false
		}
	}
	return true
}

// Blocking returns the entries that left a field missing.
func (r Report) Blocking() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Outcome.Blocking() {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds the entry for a pair.
func (r Report) Lookup(document, siteName, field string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Document == document && e.Site == siteName && e.Field == field {
			return e, true
		}
	}
	return Entry{}, false
}

// ByOutcome returns the entries with the given outcome.
func (r Report) ByOutcome(o Outcome) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Outcome == o {
			out = append(out, e)
		}
	}
	return out
}

// Documents lists the distinct documents named in the report, sorted.
func (r Report) Documents() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range r.Entries {
		if _, ok := seen[e.Document]; ok || e.Document == "" {
			continue
		}
		seen[e.Document] = struct{}{}
		out = append(out, e.Document)
	}
	sort.Strings(out)
	return out
}

// Summary counts entries per outcome.
type Summary struct {
	Total  int
	Counts map[Outcome]int
}

// Summary tallies the report.
func (r Report) Summary() Summary {
	s := Summary{Total: len(r.Entries), Counts: make(map[Outcome]int)}
	for _, e := range r.Entries {
		s.Counts[e.Outcome]++
	}
	return s
}

// String renders non-zero counts in report order, e.g. "3 applied, 1 not-found".
func (s Summary) String() string {
	var parts []string
	for _, o := range Outcomes() {
		if n := s.Counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

// WriteJSON encodes the report with two space indentation.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}
