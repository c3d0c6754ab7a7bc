package harness

// CaseResult is what one case actually produced.
type CaseResult struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`

	// RA is the translated expression; empty when translation failed.
	RA string `json:"ra,omitempty"`

	// ErrorKind and ErrorMessage describe a failed translation.
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Check holds the catalog check codes, when a catalog was available.
	Check []string `json:"check,omitempty"`

	// Query and Rows are set when the case was evaluated.
	Query     string     `json:"query,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Evaluated bool       `json:"evaluated,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectations.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase appends a case result.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
}
