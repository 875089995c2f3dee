// Package search builds parameterized SQL WHERE clauses from request filter
// maps. It encapsulates the filtered-list pattern shared by every domain
// repository: a count query plus a paged data query over the same filters.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// ParamType defines how a filter value is translated to SQL.
type ParamType int

const (
	ParamToken     ParamType = iota // exact match on a single column
	ParamText                       // case-insensitive substring match (ILIKE)
	ParamRef                        // id equality (uuid column)
	ParamDateUntil                  // inclusive upper bound on a date column
	ParamDateFrom                   // inclusive lower bound on a date column
)

// ParamConfig maps a filter name to its database representation. For
// ParamText, Columns may list additional columns matched with OR.
type ParamConfig struct {
	Type    ParamType
	Column  string
	Columns []string
}

// Query builds SQL for a filtered, paginated list over one table.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

func New(table, cols string) *Query {
	return &Query{table: table, cols: cols, idx: 1}
}

// Add appends a raw WHERE clause fragment (without leading "AND").
func (q *Query) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddToken adds an exact-match clause.
func (q *Query) AddToken(column, value string) {
	q.where += fmt.Sprintf(" AND %s = $%d", column, q.idx)
	q.args = append(q.args, value)
	q.idx++
}

// AddText adds a case-insensitive substring clause across one or more
// columns joined with OR.
func (q *Query) AddText(value string, columns ...string) {
	if len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, q.idx)
	}
	q.where += " AND (" + strings.Join(parts, " OR ") + ")"
	q.args = append(q.args, "%"+value+"%")
	q.idx++
}

// AddRef adds an id equality clause.
func (q *Query) AddRef(column, value string) {
	q.where += fmt.Sprintf(" AND %s = $%d", column, q.idx)
	q.args = append(q.args, value)
	q.idx++
}

// AddDateUntil adds an inclusive upper bound. Date-only values (YYYY-MM-DD)
// cover the whole day.
func (q *Query) AddDateUntil(column, value string) {
	t, err := parseFlexDate(value)
	if err != nil {
		return
	}
	if len(value) == 10 {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	q.where += fmt.Sprintf(" AND %s <= $%d", column, q.idx)
	q.args = append(q.args, t)
	q.idx++
}

// AddDateFrom adds an inclusive lower bound.
func (q *Query) AddDateFrom(column, value string) {
	t, err := parseFlexDate(value)
	if err != nil {
		return
	}
	q.where += fmt.Sprintf(" AND %s >= $%d", column, q.idx)
	q.args = append(q.args, t)
	q.idx++
}

// ApplyParam applies a single filter using its config.
func (q *Query) ApplyParam(config ParamConfig, value string) {
	switch config.Type {
	case ParamToken:
		q.AddToken(config.Column, value)
	case ParamText:
		cols := config.Columns
		if config.Column != "" {
			cols = append([]string{config.Column}, cols...)
		}
		q.AddText(value, cols...)
	case ParamRef:
		q.AddRef(config.Column, value)
	case ParamDateUntil:
		q.AddDateUntil(config.Column, value)
	case ParamDateFrom:
		q.AddDateFrom(config.Column, value)
	}
}

// ApplyParams applies all matching filters from the given map. Empty values
// and unknown names are ignored.
func (q *Query) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, value := range params {
		if value == "" {
			continue
		}
		if config, ok := configs[name]; ok {
			q.ApplyParam(config, value)
		}
	}
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// CountSQL returns the count query SQL.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments for the count query.
func (q *Query) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (q *Query) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments for the data query (filter args + limit + offset).
func (q *Query) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

func parseFlexDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}

// ExtractParams extracts filter parameters from the query string, excluding
// pagination controls. Unknown params are included; ApplyParams ignores
// names not present in the repo's config.
func ExtractParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) == 0 || k == "page" || k == "page_size" {
			continue
		}
		params[k] = v[0]
	}
	return params
}
