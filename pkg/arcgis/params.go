package arcgis

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultOutFields are the attributes requested for every chokepoint query.
var DefaultOutFields = []string{"date", "portname", "n_tanker", "n_cargo", "year", "n_total"}

const (
	DefaultPageSize = 2000
	DefaultOrderBy  = "date DESC"
)

// QueryParams describes one page request.
type QueryParams struct {
	Where     string
	OutFields []string
	Offset    int
	PageSize  int
	OrderBy   string
}

// Values encodes the params in the form the query endpoint expects.
func (p QueryParams) Values() url.Values {
	outFields := p.OutFields
	if len(outFields) == 0 {
		outFields = DefaultOutFields
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	orderBy := p.OrderBy
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	v := url.Values{}
	v.Set("where", p.Where)
	v.Set("outFields", strings.Join(outFields, ","))
	v.Set("returnGeometry", "false")
	v.Set("outSR", "4326")
	v.Set("f", "json")
	v.Set("resultOffset", strconv.Itoa(p.Offset))
	v.Set("resultRecordCount", strconv.Itoa(pageSize))
	v.Set("orderByFields", orderBy)
	return v
}

// WhereYearAndPort builds the filter for one (year, chokepoint) pair.
func WhereYearAndPort(year int, port string) string {
	return fmt.Sprintf("year=%d AND portname='%s'", year, strings.ReplaceAll(port, "'", "''"))
}
