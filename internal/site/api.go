package site

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"tawny-metrics/internal/board"
	"tawny-metrics/internal/chart"
	"tawny-metrics/internal/prospect"
)

var (
	boardFields = []prospect.Field{
		prospect.Name, prospect.Role, prospect.PreNBA, prospect.League, prospect.Nationality,
		prospect.Height, prospect.Wingspan, prospect.Weight, prospect.Age, prospect.Tier, prospect.Color,
		prospect.PredY1, prospect.PredY2, prospect.PredY3, prospect.PredY4, prospect.PredY5,
		prospect.AvgRank3, prospect.AvgRank5,
	}
	historyFields   = append([]prospect.Field{prospect.ActualPick, prospect.NBATeam, prospect.DraftYear}, boardFields...)
	consensusFields = []prospect.Field{
		prospect.Name, prospect.Role, prospect.PreNBA, prospect.Tier, prospect.ConsensusRank, prospect.Boards,
		prospect.Top3Pct, prospect.Top5Pct, prospect.LotteryPct, prospect.FirstRoundPct,
	}
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type apiRow struct {
	Key    string            `json:"key"`
	Rank   prospect.Rank     `json:"rank"`
	Fields map[string]string `json:"fields"`
}

func apiRows(res board.Result, fields []prospect.Field) []apiRow {
	out := make([]apiRow, len(res.Rows))
	for i, r := range res.Rows {
		vals := make(map[string]string, len(fields))
		for _, f := range fields {
			if v := r.Get(f); v != "" {
				vals[string(f)] = v
			}
		}
		out[i] = apiRow{Key: r.Key(), Rank: res.Ranks.Of(r), Fields: vals}
	}
	return out
}

// HealthCheck reports healthy when the preference store answers.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.prefs.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "preference store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "tawny-metrics",
	})
}

// GetBoard returns the ordered draft board.
// Query params: year, q, role, sort, dir
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := parseYear(r, h.catalog.Board)
	query := h.parseQuery(r, board.DefaultSort)
	res := board.Apply(prospect.Rows(h.boardRows(ctx, year)), query)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"sort":  query.Sort,
		"rows":  apiRows(res, boardFields),
		"count": len(res.Rows),
	})
}

// GetHistory returns draft results for one year or a span.
// Query params: years (comma list or "all"), year, q, role, sort, dir
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	years := parseYears(r, h.catalog.History)
	query := h.parseQuery(r, prospect.ActualPick)
	query.Span = len(years) > 1
	res := board.Apply(prospect.Rows(h.historyRows(ctx, years)), query)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"years": years,
		"sort":  query.Sort,
		"rows":  apiRows(res, historyFields),
		"count": len(res.Rows),
	})
}

// GetConsensus returns the consensus board.
// Query params: q, role, sort, dir
func (h *Handler) GetConsensus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query := h.parseQuery(r, prospect.ConsensusRank)
	res := board.Apply(prospect.Rows(h.consensusRows(ctx)), query)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sort":  query.Sort,
		"rows":  apiRows(res, consensusFields),
		"count": len(res.Rows),
	})
}

// GetTrend returns the projection chart series of the filtered board.
// Query params: year, q, role, sort, dir, focus
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := parseYear(r, h.catalog.Board)
	res := board.Apply(prospect.Rows(h.boardRows(ctx, year)), h.parseQuery(r, board.DefaultSort))

	respondJSON(w, http.StatusOK, chart.Build(res.Rows, r.URL.Query().Get("focus")))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err != nil {
		log.Error().Err(err).Msg(message)
	}

	errResp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Error().Err(err).Msg("Error encoding error response")
	}
}
