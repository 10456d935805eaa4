package pagination

import (
	"net/url"
	"testing"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/repository"
)

func parse(t *testing.T, query string) *Params {
	t.Helper()
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("parsing query: %v", err)
	}
	params, err := Parse(values, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return params
}

func parseErr(t *testing.T, query string) *repository.Error {
	t.Helper()
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("parsing query: %v", err)
	}
	_, err = Parse(values, DefaultConfig())
	if err == nil {
		t.Fatalf("expected Parse to fail for %q", query)
	}
	repoErr, ok := err.(*repository.Error)
	if !ok {
		t.Fatalf("expected a normalized error, got %T", err)
	}
	return repoErr
}

func TestParseDefaults(t *testing.T) {
	params := parse(t, "")
	if params.Limit != repository.DefaultLimit {
		t.Fatalf("expected the default limit, got %d", params.Limit)
	}
	if params.Skip != 0 || params.Sort != nil || params.Filter != nil {
		t.Fatalf("expected empty parameters, got %+v", params)
	}
}

func TestParseLimitFallsBackToSize(t *testing.T) {
	params := parse(t, "size=25")
	if params.Limit != 25 {
		t.Fatalf("size must serve as the limit when limit is unset, got %d", params.Limit)
	}

	params = parse(t, "limit=10&size=25")
	if params.Limit != 10 {
		t.Fatalf("limit takes precedence over size, got %d", params.Limit)
	}
}

func TestParseRejectsExcessiveLimit(t *testing.T) {
	repoErr := parseErr(t, "limit=501")
	if repoErr.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", repoErr.StatusCode)
	}
}

func TestParseSkipFromPageOrOffset(t *testing.T) {
	params := parse(t, "page=3&limit=20")
	if params.Skip != 40 {
		t.Fatalf("page 3 at limit 20 skips 40, got %d", params.Skip)
	}

	params = parse(t, "page=3&limit=20&offset=7")
	if params.Skip != 7 {
		t.Fatalf("offset takes precedence over page, got %d", params.Skip)
	}
}

func TestParseRejectsNegativeNumbers(t *testing.T) {
	for _, query := range []string{"page=-1", "limit=-5", "offset=-2", "page=abc"} {
		repoErr := parseErr(t, query)
		if repoErr.StatusCode != 400 {
			t.Fatalf("%q: expected 400, got %d", query, repoErr.StatusCode)
		}
	}
}

func TestParseSortCompactForm(t *testing.T) {
	params := parse(t, "sort=createdAt:-1,title:1")
	if params.Sort["createdAt"] != -1 || params.Sort["title"] != 1 {
		t.Fatalf("unexpected sort: %v", params.Sort)
	}

	params = parse(t, "sort=rank:5")
	if params.Sort["rank"] != 1 {
		t.Fatalf("non-negative directions normalize to ascending, got %v", params.Sort)
	}
}

func TestParseSortJSONForm(t *testing.T) {
	params := parse(t, `sort={"createdAt":-1}`)
	if params.Sort["createdAt"] != -1 {
		t.Fatalf("unexpected sort: %v", params.Sort)
	}

	if repoErr := parseErr(t, "sort={not json"); repoErr.StatusCode != 400 {
		t.Fatalf("expected 400 for malformed sort, got %d", repoErr.StatusCode)
	}

	if repoErr := parseErr(t, "sort=title"); repoErr.StatusCode != 400 {
		t.Fatalf("expected 400 for a sort entry without direction, got %d", repoErr.StatusCode)
	}
}

func TestParseFilterRewritesOperators(t *testing.T) {
	params := parse(t, `filter={"age":{"gte":21},"status":{"in":["open","done"]}}`)

	age, ok := params.Filter["age"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an operator document for age, got %v", params.Filter)
	}
	if _, rewritten := age["$gte"]; !rewritten {
		t.Fatalf("gte must be rewritten to $gte, got %v", age)
	}
	status := params.Filter["status"].(map[string]interface{})
	if _, rewritten := status["$in"]; !rewritten {
		t.Fatalf("in must be rewritten to $in, got %v", status)
	}
}

func TestParseFilterRewritesNestedOperators(t *testing.T) {
	params := parse(t, `filter={"or":[{"age":{"lt":18}},{"age":{"gt":65}}]}`)

	clauses, ok := params.Filter["$or"].([]interface{})
	if !ok {
		t.Fatalf("or must be rewritten to $or, got %v", params.Filter)
	}
	first := clauses[0].(map[string]interface{})["age"].(map[string]interface{})
	if _, rewritten := first["$lt"]; !rewritten {
		t.Fatalf("operators inside arrays must be rewritten, got %v", first)
	}
}

func TestParseFilterLeavesPlainFieldsAlone(t *testing.T) {
	params := parse(t, `filter={"title":"plan","count":3}`)
	if params.Filter["title"] != "plan" {
		t.Fatalf("plain equality fields pass through, got %v", params.Filter)
	}
}

func TestParseProjection(t *testing.T) {
	params := parse(t, `projection={"title":1,"_id":0}`)
	if params.Projection["title"] != 1 || params.Projection["_id"] != 0 {
		t.Fatalf("unexpected projection: %v", params.Projection)
	}

	if repoErr := parseErr(t, `projection={"title":1,"body":0}`); repoErr.StatusCode != 400 {
		t.Fatalf("expected 400 for mixed projection, got %d", repoErr.StatusCode)
	}
}

func TestFindOptionsConversion(t *testing.T) {
	params := parse(t, "page=2&limit=10&sort=title:1&populate=assignee&populateSelect=name+email")
	opts := params.FindOptions()
	if opts.Skip != 10 || opts.Limit != 10 {
		t.Fatalf("unexpected paging: %+v", opts)
	}
	if opts.Populate != "assignee" || opts.PopulateSelect != "name email" {
		t.Fatalf("unexpected populate: %+v", opts)
	}
	if opts.Sort["title"] != 1 {
		t.Fatalf("unexpected sort: %v", opts.Sort)
	}
}
