package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawny-metrics/internal/app"
	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/loader"
	"tawny-metrics/internal/prefs"
)

const testClient = "6f1c1d9e-3c52-4a49-9d0b-2f4b8a0e7c11"

var testData = fstest.MapFS{
	"board/2026.csv": {Data: []byte(
		"Name,Role,Pre-NBA,Tier,Color,Pred. Y1 Rank,Pred. Y2 Rank,Pred. Y3 Rank,Pred. Y4 Rank,Pred. Y5 Rank,Avg. Rank Y1-3,Avg. Rank Y1-5\n" +
			"AJ Dybantsa,Wing,BYU,Tier 1,0033a0,1,1,1,1,1,1,1\n" +
			"Darryn Peterson,Guard,Kansas,Tier 1,,2,2,2,2,2,2,2\n" +
			"Cameron Boozer,Big,Duke,Tier 2,,3,3,3,3,3,3,3\n" +
			"Caleb Wilson,Big,North Carolina,Tier 2,,4,5,N/A,4,4,4.5,4.2\n")},
	"history/2024.csv": {Data: []byte(
		"Name,Actual Pick,NBA Team,Pre-NBA,Role\n" +
			"Zaccharie Risacher,1,ATL,JL Bourg,Wing\n" +
			"Alex Sarr,2,WAS,Perth,Big\n" +
			"Bub Carrington,14,POR,Pittsburgh,Guard\n" +
			"Undrafted Guy,UDFA,,Somewhere,Guard\n")},
	"history/2025.csv": {Data: []byte(
		"Name,Actual Pick,NBA Team,Pre-NBA,Role\n" +
			"Cooper Flagg,1,DAL,Duke,Wing\n" +
			"Dylan Harper,2,SAS,Rutgers,Guard\n")},
	"consensus.csv": {Data: []byte(
		"Name,Role,Pre-NBA,Tier,Consensus Rank,Boards,Top 3 %,Top 5 %,Lottery %,1st Round %\n" +
			"AJ Dybantsa,Wing,BYU,1,1,40,0.85,0.95,1,1\n" +
			"Darryn Peterson,Guard,Kansas,1,2,40,45%,80%,100%,100%\n")},
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog := &app.Catalog{
		Board:     app.Dataset{Path: "board/{year}.csv", Years: []int{2026}, DefaultYear: 2026},
		History:   app.Dataset{Path: "history/{year}.csv", Years: []int{2025, 2024}, DefaultYear: 2025},
		Consensus: app.Dataset{Path: "consensus.csv"},
	}
	h := NewHandler(
		loader.New(loader.NewDirSource(testData)),
		loader.NewCache(time.Minute),
		catalog,
		prefs.New(prefs.NewMemoryStore()),
		assets.NewResolver(fstest.MapFS{"cutouts/aj-dybantsa.png": {}}),
	)
	return NewRouter(h, RouterOptions{CORSOrigins: []string{"http://localhost:3000"}})
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: testClient})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Years []int `json:"years"`
	Count int   `json:"count"`
	Rows  []struct {
		Key    string            `json:"key"`
		Rank   string            `json:"rank"`
		Fields map[string]string `json:"fields"`
	} `json:"rows"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	rec := get(t, newTestRouter(t), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetBoardRanksBeforeFiltering(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/v1/board?role=big")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode(t, rec)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Cameron Boozer", resp.Rows[0].Key)
	assert.Equal(t, "3", resp.Rows[0].Rank)
	assert.Equal(t, "Caleb Wilson", resp.Rows[1].Key)
	assert.Equal(t, "4", resp.Rows[1].Rank)
	assert.Equal(t, "N/A", resp.Rows[1].Fields["Pred. Y3 Rank"])
}

func TestGetHistorySpan(t *testing.T) {
	resp := decode(t, get(t, newTestRouter(t), "/api/v1/history?years=all"))

	assert.Equal(t, []int{2025, 2024}, resp.Years)
	var keys, ranks []string
	for _, r := range resp.Rows {
		keys = append(keys, r.Key)
		ranks = append(ranks, r.Rank)
	}
	want := []string{
		"Cooper Flagg|2025|Duke|DAL",
		"Zaccharie Risacher|2024|JL Bourg|ATL",
		"Dylan Harper|2025|Rutgers|SAS",
		"Alex Sarr|2024|Perth|WAS",
		"Bub Carrington|2024|Pittsburgh|POR",
		"Undrafted Guy|2024|Somewhere|",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("span order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"1", "1", "2", "2", "14", "N/A"}, ranks)
}

func TestGetHistoryUnknownYearFallsBack(t *testing.T) {
	resp := decode(t, get(t, newTestRouter(t), "/api/v1/history?year=1999"))
	assert.Equal(t, []int{2025}, resp.Years)
	assert.Equal(t, 2, resp.Count)
}

func TestGetHistorySearchByTeamName(t *testing.T) {
	resp := decode(t, get(t, newTestRouter(t), "/api/v1/history?years=2024,2025&q=spurs"))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Dylan Harper|2025|Rutgers|SAS", resp.Rows[0].Key)
}

func TestGetTrendFocus(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/v1/trend?focus="+url.QueryEscape("AJ Dybantsa"))
	require.Equal(t, http.StatusOK, rec.Code)

	var c struct {
		Points []struct {
			Label  string             `json:"label"`
			Values map[string]float64 `json:"values"`
		} `json:"points"`
		Series []struct {
			Key     string `json:"key"`
			Color   string `json:"color"`
			Focused bool   `json:"focused"`
		} `json:"series"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	require.Len(t, c.Points, 5)
	assert.Equal(t, "Y3", c.Points[2].Label)
	assert.NotContains(t, c.Points[2].Values, "Caleb Wilson")
	require.Len(t, c.Series, 4)
	assert.True(t, c.Series[0].Focused)
	assert.Equal(t, "#0033a0", c.Series[0].Color)
	assert.False(t, c.Series[1].Focused)
}

func TestBoardPage(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/board?expand="+url.QueryEscape("AJ Dybantsa"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "2026 Draft Board")
	assert.Contains(t, body, `data-state="expanded"`)
	assert.Contains(t, body, `data-state="collapsed"`)
	assert.Contains(t, body, `src="/assets/cutouts/aj-dybantsa.png"`)
	assert.Contains(t, body, `>DP</span>`)
	assert.Contains(t, body, `id="trend-data"`)
}

func TestHomePage(t *testing.T) {
	rec := get(t, newTestRouter(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Top of the 2026 board")
	assert.Contains(t, body, `href="/board?expand=AJ+Dybantsa&amp;year=2026"`)
}

func TestBoardPageEmptyState(t *testing.T) {
	rec := get(t, newTestRouter(t), "/board?q=zzzz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No results found")
}

func TestBoardPageIssuesClientCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestCardFragment(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/board/card?expanded=true&key="+url.QueryEscape("Cameron Boozer"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-state="expanded"`)
	// Boozer leads the two bigs in Y1 and is the only big with a Y3 projection.
	assert.Contains(t, body, "<tr><td>Y1</td><td>3</td><td>1</td></tr>")
	assert.Contains(t, body, "<tr><td>Y3</td><td>3</td><td>1</td></tr>")
	assert.NotContains(t, body, "<html")

	rec = get(t, router, "/board/card?key="+url.QueryEscape("Cameron Boozer"))
	assert.Contains(t, rec.Body.String(), `data-state="collapsed"`)
	assert.NotContains(t, rec.Body.String(), "Position rank")

	rec = get(t, router, "/board/card?key=Nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsensusPercentFormatting(t *testing.T) {
	rec := get(t, newTestRouter(t), "/consensus")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "85.0%")
	assert.Contains(t, body, "45.0%")
	assert.Contains(t, body, "rgba(37, 99, 235, 0.85)")
}

func TestHistoryHeaderSort(t *testing.T) {
	rec := get(t, newTestRouter(t), "/history?year=2024&col=Name&cdir=desc")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	order := []string{"Zaccharie Risacher", "Undrafted Guy", "Bub Carrington", "Alex Sarr"}
	last := -1
	for _, name := range order {
		i := strings.Index(body, `data-key="`+name)
		require.Greater(t, i, last, name)
		last = i
	}
	// clicking the active header flips it
	assert.Contains(t, body, "cdir=asc&amp;col=Name")
}

func TestHistoryPickHeaderDescendingKeepsUndraftedLast(t *testing.T) {
	rec := get(t, newTestRouter(t), "/history?year=2024&col="+url.QueryEscape("Actual Pick")+"&cdir=desc")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	order := []string{"Bub Carrington", "Alex Sarr", "Zaccharie Risacher", "Undrafted Guy"}
	last := -1
	for _, name := range order {
		i := strings.Index(body, `data-key="`+name)
		require.Greater(t, i, last, name)
		last = i
	}
}

func postToggle(t *testing.T, router http.Handler, tableName string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/columns/"+tableName+"/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: testClient})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestToggleColumnPersistsPerClient(t *testing.T) {
	router := newTestRouter(t)
	assert.NotContains(t, get(t, router, "/consensus").Body.String(), "Boards</a>")

	rec := postToggle(t, router, "consensus", url.Values{"column": {"Boards"}, "return": {"/consensus?q=aj"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/consensus?q=aj", rec.Header().Get("Location"))

	assert.Contains(t, get(t, router, "/consensus").Body.String(), "Boards</a>")

	// another client still sees the defaults
	req := httptest.NewRequest(http.MethodGet, "/consensus", nil)
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	assert.NotContains(t, other.Body.String(), "Boards</a>")
}

func TestToggleColumnRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	rec := postToggle(t, router, "roster", url.Values{"column": {"Boards"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postToggle(t, router, "consensus", url.Values{"column": {"Shoe Size"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postToggle(t, router, "consensus", url.Values{"column": {"Boards"}, "return": {"//evil.example/x"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/consensus", rec.Header().Get("Location"))
}

func TestParseYears(t *testing.T) {
	d := app.Dataset{Path: "h/{year}.csv", Years: []int{2025, 2024, 2023}, DefaultYear: 2025}
	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{2025}},
		{"year=2024", []int{2024}},
		{"years=2023,2025", []int{2025, 2023}},
		{"years=2023&years=2024", []int{2024, 2023}},
		{"years=all", []int{2025, 2024, 2023}},
		{"years=1990,abc", []int{2025}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/history?"+tt.query, nil)
			assert.Equal(t, tt.want, parseYears(r, d))
		})
	}
}

func TestReturnPath(t *testing.T) {
	assert.Equal(t, "/history?year=2024", returnPath("/history?year=2024", "/"))
	assert.Equal(t, "/", returnPath("https://evil.example/", "/"))
	assert.Equal(t, "/", returnPath("//evil.example", "/"))
	assert.Equal(t, "/", returnPath("", "/"))
}
