package doctor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rileyhilliard/vitals/internal/util"
)

// DefaultTimeout bounds checks that touch the network or storage.
const DefaultTimeout = 5 * time.Second

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"` // Whether --fix can address this
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (e.g., "CONFIG", "STORAGE", "STREAM").
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult

	// Fix attempts to automatically fix the issue (if supported).
	// Returns nil if fix was successful or not applicable.
	Fix() error
}

// Categories lists check categories in report order.
var Categories = []string{"CONFIG", "STORAGE", "STREAM"}

// RunAll executes checks one at a time, in order. Used for re-runs after
// fixes, where a fix may change what later checks see.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		results[i] = check.Run(ctx)
	}
	return results
}

// RunAllParallel executes all checks in parallel and returns the results
// in check order.
func RunAllParallel(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()
			results[idx] = c.Run(ctx)
		}(i, check)
	}

	wg.Wait()
	return results
}

// CategoryResults holds one category's results in check order.
type CategoryResults struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// GroupByCategory pairs each result with its check's category. Groups follow
// Categories; other categories come last in first-seen order.
func GroupByCategory(checks []Check, results []CheckResult) []CategoryResults {
	byName := make(map[string][]CheckResult)
	var extra []string
	for i, check := range checks {
		cat := check.Category()
		if _, ok := byName[cat]; !ok && !slices.Contains(Categories, cat) {
			extra = append(extra, cat)
		}
		byName[cat] = append(byName[cat], results[i])
	}

	order := append(slices.Clone(Categories), extra...)
	groups := make([]CategoryResults, 0, len(byName))
	for _, cat := range order {
		if rs, ok := byName[cat]; ok {
			groups = append(groups, CategoryResults{Name: cat, Results: rs})
		}
	}
	return groups
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail || r.Status == StatusWarn {
			return true
		}
	}
	return false
}

// FixableCount returns the number of issues that can be fixed automatically.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && (r.Status == StatusFail || r.Status == StatusWarn) {
			count++
		}
	}
	return count
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	warn := counts[StatusWarn]
	fail := counts[StatusFail]

	if fail == 0 && warn == 0 {
		return "Everything looks good"
	}

	total := warn + fail
	return fmt.Sprintf("%d %s found", total, util.Pluralize(total, "issue", "issues"))
}
