package importer

import "github.com/stoneyard/backoffice/internal/schema"

// resultAccumulator folds per-row outcomes into a final ImportResult.
// It is strictly sequential: the importer feeds it one outcome at a time
// in file order, so no synchronization is needed.
type resultAccumulator struct {
	result ImportResult
}

func newResultAccumulator(t schema.TableType) *resultAccumulator {
	return &resultAccumulator{
		result: ImportResult{
			Type:   t,
			Errors: []RowFailure{},
		},
	}
}

// imported records n successfully committed rows.
func (a *resultAccumulator) imported(n int) {
	a.result.Imported += n
}

// failed records one row failure. The capped Errors list keeps the first
// MaxReportedFailures entries; TotalErrors always carries the true count.
func (a *resultAccumulator) failed(f RowFailure) {
	a.result.Failed++
	a.result.TotalErrors++
	if len(a.result.Errors) < MaxReportedFailures {
		a.result.Errors = append(a.result.Errors, f)
	}
}

// finish returns the completed result.
func (a *resultAccumulator) finish() *ImportResult {
	return &a.result
}
