package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/per"
)

func simulateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		res := per.Simulate(toSimulationInputs(req))
		writeJSON(w, http.StatusOK, toSimulationResponse(res))
	}
}

func reportHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		res := per.Simulate(toSimulationInputs(req))

		var buf bytes.Buffer
		err := per.WriteReport(&buf, res, per.ReportOptions{
			ClientName:  req.ClientName,
			AdvisorName: req.AdvisorName,
			GeneratedAt: time.Now(),
		})
		if err != nil {
			logger.Error("per report failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
			writeError(w, http.StatusInternalServerError, "report_failed", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="simulation-per.pdf"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
