package constants

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationFromQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return ParsePaginationParams(c)
}

func TestParsePaginationParams_Defaults(t *testing.T) {
	p := paginationFromQuery(t, "")

	if p.Page != 1 || p.Limit != 10 || p.Offset != 0 {
		t.Errorf("Unexpected defaults: page=%d limit=%d offset=%d", p.Page, p.Limit, p.Offset)
	}
}

func TestParsePaginationParams_Bounds(t *testing.T) {
	cases := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"page=3&limit=20", 3, 20, 40},
		{"page=0&limit=0", 1, 1, 0},
		{"page=-5&limit=-1", 1, 1, 0},
		{"page=2&limit=500", 2, 100, 100},
		{"page=abc&limit=xyz", 1, 1, 0},
	}

	for _, tc := range cases {
		p := paginationFromQuery(t, tc.query)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("Query %q: got page=%d limit=%d offset=%d, want page=%d limit=%d offset=%d",
				tc.query, p.Page, p.Limit, p.Offset, tc.wantPage, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestBuildSuccessResponse(t *testing.T) {
	resp := BuildSuccessResponse("done", map[string]int{"count": 1})

	if resp[ResponseFieldSuccess] != true {
		t.Error("Expected success true")
	}
	if resp[ResponseFieldMessage] != "done" {
		t.Errorf("Unexpected message %v", resp[ResponseFieldMessage])
	}
	if _, ok := resp[ResponseFieldTimestamp]; !ok {
		t.Error("Expected timestamp field")
	}
	if _, ok := resp[ResponseFieldData]; !ok {
		t.Error("Expected data field")
	}
}

func TestBuildSuccessResponse_OmitsNilData(t *testing.T) {
	resp := BuildSuccessResponse("done", nil)

	if _, ok := resp[ResponseFieldData]; ok {
		t.Error("Expected no data field for nil data")
	}
}

func TestBuildErrorResponse(t *testing.T) {
	resp := BuildErrorResponse("failed", "details")

	if resp[ResponseFieldSuccess] != false {
		t.Error("Expected success false")
	}
	if resp[ResponseFieldErrors] != "details" {
		t.Errorf("Unexpected errors %v", resp[ResponseFieldErrors])
	}
}

func TestBuildListResponse(t *testing.T) {
	resp := BuildListResponse("fetched", 42, 2, 5, []string{"a", "b"})

	data, ok := resp[ResponseFieldData].(map[string]any)
	if !ok {
		t.Fatal("Expected data to be a map")
	}
	if data[ResponseFieldTotal] != int64(42) {
		t.Errorf("Unexpected total %v", data[ResponseFieldTotal])
	}
	if data[ResponseFieldPage] != 2 {
		t.Errorf("Unexpected page %v", data[ResponseFieldPage])
	}
	if data[ResponseFieldPageTotal] != 5 {
		t.Errorf("Unexpected page_total %v", data[ResponseFieldPageTotal])
	}
}
