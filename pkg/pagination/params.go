// Package pagination parses and validates list-request parameters at the HTTP
// edge, before they reach the repository layer.
package pagination

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

// Config bounds page sizes. Requests beyond MaxLimit are rejected here, never
// forwarded to the repository.
type Config struct {
	DefaultLimit int64
	MaxLimit     int64
}

// DefaultConfig returns the conventional page-size bounds.
func DefaultConfig() Config {
	return Config{DefaultLimit: repository.DefaultLimit, MaxLimit: 500}
}

// Params is the parsed pagination-parameter set handed to repository callers.
type Params struct {
	Page           int64
	Limit          int64
	Size           int64
	Offset         int64
	Skip           int64
	Sort           map[string]int
	Filter         repository.Filter
	Search         string
	Populate       string
	PopulateSelect string
	Projection     repository.Projection
}

// FindOptions converts the parsed parameters into repository read options.
func (p *Params) FindOptions() repository.FindOptions {
	return repository.FindOptions{
		Skip:           p.Skip,
		Limit:          p.Limit,
		Sort:           p.Sort,
		Populate:       p.Populate,
		PopulateSelect: p.PopulateSelect,
	}
}

// bare filter keys rewritten to their operator-prefixed form.
var operatorKeys = map[string]string{
	"gte":    "$gte",
	"gt":     "$gt",
	"lte":    "$lte",
	"lt":     "$lt",
	"in":     "$in",
	"nin":    "$nin",
	"eq":     "$eq",
	"ne":     "$ne",
	"size":   "$size",
	"or":     "$or",
	"not":    "$not",
	"exists": "$exists",
}

// Parse extracts pagination parameters from query values. It applies the
// default page size, enforces the maximum, rewrites bare filter operators to
// their $-prefixed form, and rejects projections that mix inclusion and
// exclusion.
func Parse(values url.Values, cfg Config) (*Params, error) {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = repository.DefaultLimit
	}

	params := &Params{
		Search:         values.Get("search"),
		Populate:       values.Get("populate"),
		PopulateSelect: values.Get("populateSelect"),
	}

	var err error
	if params.Page, err = parseInt(values, "page"); err != nil {
		return nil, err
	}
	if params.Limit, err = parseInt(values, "limit"); err != nil {
		return nil, err
	}
	if params.Size, err = parseInt(values, "size"); err != nil {
		return nil, err
	}
	if params.Offset, err = parseInt(values, "offset"); err != nil {
		return nil, err
	}

	if params.Limit <= 0 {
		params.Limit = params.Size
	}
	if params.Limit <= 0 {
		params.Limit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && params.Limit > cfg.MaxLimit {
		return nil, badRequest(fmt.Sprintf("limit %d exceeds the maximum page size %d", params.Limit, cfg.MaxLimit))
	}

	if params.Offset > 0 {
		params.Skip = params.Offset
	} else if params.Page > 1 {
		params.Skip = (params.Page - 1) * params.Limit
	}

	if params.Sort, err = parseSort(values.Get("sort")); err != nil {
		return nil, err
	}
	if params.Filter, err = parseFilter(values.Get("filter")); err != nil {
		return nil, err
	}
	if params.Projection, err = parseProjection(values.Get("projection")); err != nil {
		return nil, err
	}
	return params, nil
}

func parseInt(values url.Values, key string) (int64, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	if n < 0 {
		return 0, badRequest(fmt.Sprintf("%s must not be negative", key))
	}
	return n, nil
}

// parseSort accepts either a JSON object mapping field to direction or the
// compact "field:direction[,field:direction]" form, where direction is a
// signed integer and -1 means descending.
func parseSort(raw string) (map[string]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "{") {
		parsed := map[string]int{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, badRequest(fmt.Sprintf("sort is not a valid JSON object: %v", err))
		}
		return parsed, nil
	}

	parsed := map[string]int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, direction, found := strings.Cut(part, ":")
		field = strings.TrimSpace(field)
		if !found || field == "" {
			return nil, badRequest(fmt.Sprintf("sort entry %q must have the form field:direction", part))
		}
		n, err := strconv.Atoi(strings.TrimSpace(direction))
		if err != nil {
			return nil, badRequest(fmt.Sprintf("sort direction for %q must be a signed integer", field))
		}
		if n >= 0 {
			parsed[field] = 1
		} else {
			parsed[field] = -1
		}
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	return parsed, nil
}

// parseFilter decodes the filter JSON object and rewrites bare operator keys
// ({gte, gt, lte, lt, in, nin, eq, ne, size, or, not, exists}) to their
// $-prefixed form before the filter is handed to the store.
func parseFilter(raw string) (repository.Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	decoded := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, badRequest(fmt.Sprintf("filter is not a valid JSON object: %v", err))
	}
	return repository.Filter(rewriteOperators(decoded)), nil
}

func rewriteOperators(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		if op, ok := operatorKeys[key]; ok {
			key = op
		}
		out[key] = rewriteValue(value)
	}
	return out
}

func rewriteValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return rewriteOperators(typed)
	case []interface{}:
		rewritten := make([]interface{}, len(typed))
		for i, item := range typed {
			rewritten[i] = rewriteValue(item)
		}
		return rewritten
	default:
		return v
	}
}

// parseProjection decodes the projection mapping and rejects mixed
// inclusion/exclusion before the repository sees it.
func parseProjection(raw string) (repository.Projection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	decoded := map[string]int{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, badRequest(fmt.Sprintf("projection is not a valid JSON object: %v", err))
	}
	projection := repository.Projection(decoded)
	if err := projection.Validate(); err != nil {
		return nil, badRequest(err.Error())
	}
	return projection, nil
}

func badRequest(message string) *repository.Error {
	return &repository.Error{Message: message, StatusCode: http.StatusBadRequest}
}
