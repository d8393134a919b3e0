// Package executor drives paginated query execution: it fetches one result
// page at a time, materializes each row into a Row and hands it to a
// caller-supplied handler whose return value controls the iteration.
package executor

import (
	"context"
	"fmt"

	"github.com/casskit/casskit/statement"
	"github.com/casskit/casskit/types"
	"go.uber.org/zap"
)

// RowAction is the loop-control signal a RowHandler returns. Aborting is
// expressed by returning an error instead.
type RowAction int

const (
	// Continue proceeds to the next row.
	Continue RowAction = iota
	// SkipRest ends iteration of the current and all subsequent pages and
	// converts to a successful overall outcome.
	SkipRest
)

// RowHandler is invoked once per row. A returned error aborts the run and
// propagates, decorated with the 1-based row number.
type RowHandler func(row *Row) (RowAction, error)

// Row is the materialized view of exactly one result row. SQL-null columns
// are absent from it rather than carrying zero values. A Row is only valid
// for the duration of its handler invocation.
type Row struct {
	columns []string
	values  map[string]types.GoValue
}

// Columns returns every column of the result set, in result order,
// including columns that are null in this row.
func (r *Row) Columns() []string {
	return r.columns
}

// Value returns the column's materialized value. ok is false when the
// column is null or absent in this row.
func (r *Row) Value(name string) (types.GoValue, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of non-null columns in the row.
func (r *Row) Len() int {
	return len(r.values)
}

// Page is one fetch's worth of rows plus the continuation token for the
// next fetch. A page must be fully consumed or closed before the next page
// is requested.
type Page interface {
	// NextRow returns the next row's column values, with null columns
	// omitted, and the full column name list. ok is false once the page
	// is exhausted.
	NextRow() (values map[string]types.GoValue, columns []string, ok bool)
	// Err reports any iteration error once NextRow has returned ok=false.
	Err() error
	// PageState returns the opaque continuation token for the following
	// page; empty means no more pages.
	PageState() []byte
	// Close releases the page's resources. Safe to call more than once.
	Close() error
}

// Pager executes a statement for a single page of results. pageState is the
// token from the previous page, or nil for the first page.
type Pager interface {
	ExecutePage(ctx context.Context, stmt *statement.Statement, pageSize int, pageState []byte) (Page, error)
}

// Run executes the statement and feeds every row of every page to perRow,
// blocking per page: the next page is not fetched until the current page is
// exhausted and its last handler invocation has returned. The statement is
// owned by Run from this point; page resources are released on all paths.
func Run(ctx context.Context, pager Pager, stmt *statement.Statement, pageSize int, perRow RowHandler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var pageState []byte
	rowNum := 0
	pageNum := 0

	for {
		pageNum++
		stop, nextState, err := runPage(ctx, pager, stmt, pageSize, pageState, perRow, &rowNum)
		if err != nil {
			logger.Debug("query aborted",
				zap.String("query", stmt.Query),
				zap.Int("page", pageNum),
				zap.Int("rows", rowNum),
				zap.Error(err))
			return err
		}
		if stop || len(nextState) == 0 {
			logger.Debug("query complete",
				zap.String("query", stmt.Query),
				zap.Int("pages", pageNum),
				zap.Int("rows", rowNum))
			return nil
		}
		pageState = nextState
	}
}

// runPage fetches and drains one page. stop reports that the handler ended
// iteration early; nextState is the token for the following page, derived
// from this page's own result.
func runPage(ctx context.Context, pager Pager, stmt *statement.Statement, pageSize int, pageState []byte, perRow RowHandler, rowNum *int) (stop bool, nextState []byte, err error) {
	page, err := pager.ExecutePage(ctx, stmt, pageSize, pageState)
	if err != nil {
		return false, nil, &types.DriverError{Op: "query execution", Cause: err}
	}
	// a successful execution can still hand back no result object
	if page == nil {
		return false, nil, types.NewInternalError("query execution returned no result")
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil && err == nil {
			err = &types.DriverError{Op: "closing result page", Cause: closeErr}
		}
	}()

	for {
		values, columns, ok := page.NextRow()
		if !ok {
			break
		}
		*rowNum++
		row := &Row{columns: columns, values: values}

		action, handlerErr := perRow(row)
		if handlerErr != nil {
			return false, nil, fmt.Errorf("while processing row %d: %w", *rowNum, handlerErr)
		}
		if action == SkipRest {
			return true, nil, nil
		}
	}

	if iterErr := page.Err(); iterErr != nil {
		return false, nil, &types.DriverError{Op: "row iteration", Cause: iterErr}
	}
	return false, page.PageState(), nil
}
