package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultTop = 50
	MaxTop     = 500
)

// ListOptions carries the OData-style query options shared by every
// entity-set listing: $top, $skip, $orderby, $count and $search.
type ListOptions struct {
	Top     int
	Skip    int
	OrderBy string
	Desc    bool
	Count   bool
	Search  string
}

// ParseListOptions reads the list query options from the request. The
// sortable map whitelists $orderby fields, mapping the exposed json name to
// the database column. Anything outside the whitelist is rejected so user
// input never reaches an ORDER BY clause directly.
func ParseListOptions(r *http.Request, sortable map[string]string, defaultOrder string) (ListOptions, error) {
	opts := ListOptions{
		Top:     DefaultTop,
		OrderBy: defaultOrder,
	}

	q := r.URL.Query()

	if topStr := q.Get("$top"); topStr != "" {
		top, err := strconv.Atoi(topStr)
		if err != nil || top < 1 {
			return opts, fmt.Errorf("$top must be a positive integer, got %q", topStr)
		}
		opts.Top = min(top, MaxTop)
	}

	if skipStr := q.Get("$skip"); skipStr != "" {
		skip, err := strconv.Atoi(skipStr)
		if err != nil || skip < 0 {
			return opts, fmt.Errorf("$skip must be a non-negative integer, got %q", skipStr)
		}
		opts.Skip = skip
	}

	if orderBy := q.Get("$orderby"); orderBy != "" {
		field, dir, found := strings.Cut(strings.TrimSpace(orderBy), " ")
		column, ok := sortable[field]
		if !ok {
			return opts, fmt.Errorf("cannot order by %q", field)
		}
		opts.OrderBy = column

		if found {
			switch strings.TrimSpace(dir) {
			case "asc":
			case "desc":
				opts.Desc = true
			default:
				return opts, fmt.Errorf("order direction must be asc or desc, got %q", dir)
			}
		}
	}

	if countStr := q.Get("$count"); countStr != "" {
		count, err := strconv.ParseBool(countStr)
		if err != nil {
			return opts, fmt.Errorf("$count must be true or false, got %q", countStr)
		}
		opts.Count = count
	}

	opts.Search = strings.TrimSpace(q.Get("$search"))

	return opts, nil
}

// OrderClause renders the validated ordering as a SQL fragment.
func (o ListOptions) OrderClause() string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return o.OrderBy + " " + dir
}
