package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// reserved query-string parameters that never become filters.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// comparison operators accepted inside field[op]=value. Anything outside this
// table is dropped, never forwarded to the database.
var operators = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// FieldSet maps the public parameter names of an entity to its columns.
// Parameters naming fields outside the set are ignored.
type FieldSet map[string]string

type Filter struct {
	Column string
	Op     string // SQL comparison operator, "=" for plain equality
	Value  any
}

type Sort struct {
	Column string
	Desc   bool
}

// Criteria is a pure description of filter/sort/field-selection/pagination
// intent. Nothing touches the database until the composed query is executed
// by a repository.
type Criteria struct {
	Filters []Filter
	Sorts   []Sort
	Columns []string
	Page    uint64
	Limit   uint64
}

// Parse converts request query parameters into a Criteria, resolving public
// names through fields. Unknown fields and unknown operators are silently
// dropped.
func Parse(values url.Values, fields FieldSet) Criteria {
	c := Criteria{Page: DefaultPage, Limit: DefaultLimit}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}

		name, op := splitOperator(key)

		column, known := fields[name]

		if !known {
			continue
		}

		sqlOp := "="

		if op != "" {
			sqlOp, known = operators[op]

			if !known {
				continue
			}
		}

		// Last value wins when a parameter repeats.
		c.Filters = append(c.Filters, Filter{
			Column: column,
			Op:     sqlOp,
			Value:  coerce(vals[len(vals)-1]),
		})
	}

	c.Sorts = parseSort(values.Get("sort"), fields)
	c.Columns = parseFields(values.Get("fields"), fields)

	if page, err := strconv.ParseUint(values.Get("page"), 10, 64); err == nil && page > 0 {
		c.Page = page
	}

	if limit, err := strconv.ParseUint(values.Get("limit"), 10, 64); err == nil && limit > 0 {
		c.Limit = limit
	}

	return c
}

// Offset is the number of rows skipped before the requested page.
func (c Criteria) Offset() uint64 {
	return (c.Page - 1) * c.Limit
}

// Apply composes the criteria onto a squirrel builder. The result is still a
// descriptor; callers decide when to render and execute it.
func (c Criteria) Apply(builder sq.SelectBuilder) sq.SelectBuilder {
	for _, f := range c.Filters {
		builder = builder.Where(f.Column+" "+f.Op+" ?", f.Value)
	}

	if len(c.Sorts) == 0 {
		builder = builder.OrderBy("created_at DESC")
	}

	for _, s := range c.Sorts {
		direction := " ASC"

		if s.Desc {
			direction = " DESC"
		}

		builder = builder.OrderBy(s.Column + direction)
	}

	return builder.Limit(c.Limit).Offset(c.Offset())
}

// SelectColumns returns the projection: the requested columns (id always
// included) or defaults when no field selection was supplied.
func (c Criteria) SelectColumns(defaults []string) []string {
	if len(c.Columns) == 0 {
		return defaults
	}

	columns := []string{"id"}

	for _, col := range c.Columns {
		if col != "id" {
			columns = append(columns, col)
		}
	}

	return columns
}

func splitOperator(key string) (string, string) {
	open := strings.IndexByte(key, '[')

	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}

	return key[:open], key[open+1 : len(key)-1]
}

func parseSort(raw string, fields FieldSet) []Sort {
	if raw == "" {
		return nil
	}

	var sorts []Sort

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)

		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")

		if column, ok := fields[name]; ok {
			sorts = append(sorts, Sort{Column: column, Desc: desc})
		}
	}

	return sorts
}

func parseFields(raw string, fields FieldSet) []string {
	if raw == "" {
		return nil
	}

	var columns []string

	for _, part := range strings.Split(raw, ",") {
		if column, ok := fields[strings.TrimSpace(part)]; ok {
			columns = append(columns, column)
		}
	}

	return columns
}

// coerce types filter values so numeric and date comparisons behave as
// comparisons, not string ordering.
func coerce(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}

	return raw
}
