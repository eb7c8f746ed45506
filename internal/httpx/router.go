package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orionhq/gtm-insights/internal/insights"
	"github.com/orionhq/gtm-insights/internal/store"
	"github.com/orionhq/gtm-insights/internal/utils"
)

func NewRouter(log *slog.Logger, svc *insights.Service, reg *prometheus.Registry) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Post("/insights/generate", func(w http.ResponseWriter, r *http.Request) {
		asOf := time.Now()
		if q := r.URL.Query().Get("asOf"); q != "" {
			t, err := time.Parse("2006-01-02", q)
			if err != nil {
				http.Error(w, "bad asOf (YYYY-MM-DD)", 400)
				return
			}
			asOf = t
		}
		res, err := svc.GenerateAndSave(r.Context(), asOf)
		if err != nil {
			// the failure record was persisted; report the stage alongside
			writeJSONStatus(w, 502, map[string]any{
				"status":  res.Insight.Status,
				"stage":   res.Stage,
				"error":   err.Error(),
				"timings": timingsMillis(res.Timings),
			})
			return
		}
		writeJSON(w, map[string]any{
			"date":         res.Insight.Date,
			"status":       res.Insight.Status,
			"completeness": res.Meta.Completeness,
			"tokens":       res.Tokens.Total(),
			"timings":      timingsMillis(res.Timings),
		})
	})

	mux.Get("/insights/latest", func(w http.ResponseWriter, r *http.Request) {
		ins, err := svc.Store().Latest(r.Context())
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, ins)
	})

	mux.Get("/insights/history", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				http.Error(w, "bad limit", 400)
				return
			}
			limit = n
		}
		rows, err := svc.Store().History(r.Context(), limit)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, rows)
	})

	mux.Get("/insights/{date}", func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "bad date (YYYY-MM-DD)", 400)
			return
		}
		ins, err := svc.Store().ByDate(r.Context(), date)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, ins)
	})

	return mux
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", 404)
		return
	}
	http.Error(w, err.Error(), 500)
}

func timingsMillis(t map[string]time.Duration) map[string]int64 {
	out := make(map[string]int64, len(t))
	for k, v := range t {
		out[k] = v.Milliseconds()
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, 200, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
