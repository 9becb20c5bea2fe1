package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/answer"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/filter"
	"github.com/protoguide/protoguide/internal/domain/search/result"
	healthuc "github.com/protoguide/protoguide/internal/usecase/health"
	searchuc "github.com/protoguide/protoguide/internal/usecase/search"
)

func (h *harness) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&e))
	return e
}

func sampleResponse() searchuc.Response {
	section := "Adult"
	year := 2025
	a := &agency.Agency{ID: 7, Name: "Metro EMS", Region: "North"}
	r1 := result.New(protocol.Chunk{
		ID: 11, AgencyID: 7, Number: "P-101", Title: "Chest Pain",
		Section: &section, Content: "Give aspirin.", Year: &year,
	}, a, 0).WithScore(1)
	r2 := result.New(protocol.Chunk{
		ID: 12, AgencyID: 8, Number: "P-202", Title: "Stroke", Content: "Check pain scale.",
	}, nil, 1).WithScore(0.5)
	return searchuc.Response{
		Results:    []result.Result{r1, r2},
		Answer:     answer.Available("Give aspirin per P-101."),
		TotalCount: 2,
	}
}

func TestSearch_Success(t *testing.T) {
	h := newHarness(t)
	h.search.resp = sampleResponse()
	h.search.tokens = 120

	rr := h.do(t, http.MethodGet, "/api/search?query=chest+pain&region=North&agencyId=7&limit=10", h.token(t, "open-free"), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "120", rr.Header().Get("X-Completion-Tokens"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Give aspirin per P-101.", body["answer"])
	assert.EqualValues(t, 2, body["totalCount"])

	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.EqualValues(t, 11, first["id"])
	assert.Equal(t, "Metro EMS", first["agencyName"])
	assert.Equal(t, "P-101", first["protocolNumber"])
	assert.Equal(t, "Chest Pain", first["protocolTitle"])
	assert.Equal(t, "Adult", first["section"])
	assert.EqualValues(t, 2025, first["protocolYear"])
	assert.EqualValues(t, 1, first["relevanceScore"])

	second := results[1].(map[string]any)
	assert.Equal(t, "", second["agencyName"])
	assert.Equal(t, "", second["region"])
	_, hasSection := second["section"]
	assert.False(t, hasSection)

	assert.Equal(t, "chest pain", h.search.gotReq.Query())
	assert.Equal(t, 10, h.search.gotReq.Limit())
	assert.Equal(t, filter.KindRegionAgency, h.search.gotReq.Filter().Kind())
	assert.EqualValues(t, 1, h.search.gotID.ID)
}

func TestSearch_NullAnswer(t *testing.T) {
	h := newHarness(t)
	h.search.resp = searchuc.Response{Results: []result.Result{}, Answer: answer.Unavailable("no_results")}

	rr := h.do(t, http.MethodGet, "/api/search?query=nothing", h.token(t, "open-pro"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Completion-Tokens"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	v, present := body["answer"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Equal(t, []any{}, body["results"])
	assert.EqualValues(t, 0, body["totalCount"])
}

func TestSearch_InvalidParameters(t *testing.T) {
	tests := map[string]string{
		"empty query":      "/api/search?query=",
		"blank query":      "/api/search?query=%20%20",
		"long query":       "/api/search?query=" + strings.Repeat("a", 501),
		"malformed limit":  "/api/search?query=x&limit=ten",
		"malformed agency": "/api/search?query=x&agencyId=abc",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			rr := h.do(t, http.MethodGet, target, h.token(t, "open-free"), "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, codeValidationFailed, decodeError(t, rr).Code)
			assert.False(t, h.search.called)
		})
	}
}

func TestSearch_OutOfRangeLimitClamps(t *testing.T) {
	h := newHarness(t)
	rr := h.do(t, http.MethodGet, "/api/search?query=x&limit=5000", h.token(t, "open-free"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 100, h.search.gotReq.Limit())
}

func TestSearch_QuotaExceeded(t *testing.T) {
	h := newHarness(t)
	h.search.err = domain.ErrQuotaExceeded

	rr := h.do(t, http.MethodGet, "/api/search?query=x", h.token(t, "open-free"), "")
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	e := decodeError(t, rr)
	assert.Equal(t, "quota_exceeded", e.Code)
	assert.Equal(t, "Daily query limit reached. Upgrade to Pro for unlimited queries.", e.Message)
}

func TestSearch_StoreErrorHidesDetail(t *testing.T) {
	h := newHarness(t)
	h.search.err = domain.NewStoreError("search protocols", errors.New("pq: connection refused"))

	rr := h.do(t, http.MethodGet, "/api/search?query=x", h.token(t, "open-free"), "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	e := decodeError(t, rr)
	assert.Equal(t, codeInternalError, e.Code)
	assert.Equal(t, "internal error", e.Message)
}

func TestSearch_RequiresAuth(t *testing.T) {
	h := newHarness(t)
	rr := h.do(t, http.MethodGet, "/api/search?query=x", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, h.search.called)
}

func TestSearchStats(t *testing.T) {
	h := newHarness(t)
	h.search.stats = protocol.Stats{TotalProtocols: 120, TotalAgencies: 9, RegionsCovered: 3}

	rr := h.do(t, http.MethodGet, "/api/search/stats", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body statsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, statsResponse{TotalProtocols: 120, TotalAgencies: 9, RegionsCovered: 3}, body)
}

func TestSearchByAgency(t *testing.T) {
	h := newHarness(t)
	h.search.chunks = []protocol.Chunk{{ID: 1, AgencyID: 7, Number: "P-1", Title: "Airway"}}

	rr := h.do(t, http.MethodGet, "/api/search/agency/7", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body []chunkResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "P-1", body[0].ProtocolNumber)

	rr = h.do(t, http.MethodGet, "/api/search/agency/zero", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAgencies(t *testing.T) {
	h := newHarness(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	metro := agency.Agency{ID: 7, Name: "Metro EMS", Region: "North", CreatedAt: created}
	h.agencies.byID[7] = metro
	h.agencies.list = []agency.Agency{metro}
	h.agencies.regions = []agency.RegionSummary{{Region: "North", AgencyCount: 1, ProtocolCount: 4}}
	h.agencies.counts = []agency.WithCount{{ID: 7, Name: "Metro EMS", Region: "North", ProtocolCount: 4}}

	rr := h.do(t, http.MethodGet, "/api/agencies", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []agencyResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Metro EMS", list[0].Name)

	rr = h.do(t, http.MethodGet, "/api/agencies/regions", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var regions []regionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&regions))
	assert.Equal(t, []regionResponse{{Region: "North", AgencyCount: 1, ProtocolCount: 4}}, regions)

	rr = h.do(t, http.MethodGet, "/api/agencies/by-region?region=North", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var counts []agencyCountResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&counts))
	assert.EqualValues(t, 4, counts[0].ProtocolCount)

	rr = h.do(t, http.MethodGet, "/api/agencies/by-region", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/agencies/7", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var one agencyResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&one))
	assert.Equal(t, created, one.CreatedAt)

	rr = h.do(t, http.MethodGet, "/api/agencies/99", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, codeNotFound, decodeError(t, rr).Code)
}

func TestMe(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodGet, "/api/users/me", h.token(t, "open-free"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	var me userResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, "open-free", me.OpenID)
	assert.Equal(t, "free", me.Tier)
	assert.Equal(t, 2, me.QueryCountToday)
	assert.Equal(t, 5, me.DailyLimit)
	assert.Equal(t, 3, me.Remaining)

	rr = h.do(t, http.MethodGet, "/api/users/me", h.token(t, "open-pro"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, 1000, me.DailyLimit)
	assert.Equal(t, 0, me.QueryCountToday)
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	answerText := "Give aspirin."
	h.history.items = []history.Item{{ID: 3, QueryText: "chest pain", ResponseText: &answerText, AgencyName: "Metro EMS"}}

	rr := h.do(t, http.MethodGet, "/api/users/history", h.token(t, "open-free"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	var items []historyItemResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "chest pain", items[0].QueryText)
	assert.Equal(t, &answerText, items[0].ResponseText)
}

func TestSelectAgency(t *testing.T) {
	h := newHarness(t)
	tok := h.token(t, "open-free")

	rr := h.do(t, http.MethodPut, "/api/users/agency", tok, `{"agencyId":7}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 7, h.identities.selected)

	rr = h.do(t, http.MethodPut, "/api/users/agency", tok, `{"agencyId":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, codeBadRequest, decodeError(t, rr).Code)

	rr = h.do(t, http.MethodPut, "/api/users/agency", tok, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	h.identities.selectErr = domain.ErrNotFound
	rr = h.do(t, http.MethodPut, "/api/users/agency", tok, `{"agencyId":99}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthAndReady(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body healthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])

	rr = h.do(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	h.health.report = healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{"postgres": healthuc.CheckError},
	}
	rr = h.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/health", "", "")
	rr := h.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "protoguide_http_requests_total")
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, codeNotFound, decodeError(t, rr).Code)

	rr = h.do(t, http.MethodPost, "/api/agencies", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
