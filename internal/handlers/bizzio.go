package handlers

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"github.com/xelth-com/bizziosync/internal/services/importer"
)

// startImport fetches a fresh snapshot from the ERP
func (r *Router) startImport(kind bizzio.Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res, err := r.importer.StartImport(req.Context(), kind)
		if err != nil {
			log.Printf("❌ Bizzio: %s import failed: %v", kind, err)
			respondImportError(w, err)
			return
		}
		respondSuccess(w, res)
	})
}

// processBatch advances the reconciliation by one batch
func (r *Router) processBatch(kind bizzio.Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res, err := r.importer.ProcessBatch(req.Context(), kind)
		if err != nil {
			log.Printf("❌ Bizzio: %s batch failed: %v", kind, err)
			respondImportError(w, err)
			return
		}
		respondSuccess(w, map[string]interface{}{
			"kind":      res.Kind,
			"processed": res.Processed,
			"cursor":    res.Cursor,
			"total":     res.Total,
			"imported":  res.Imported,
			"created":   res.Created,
			"updated":   res.Updated,
			"failed":    res.Failed,
			"status":    res.Status,
			"message":   res.Message(),
		})
	})
}

func (r *Router) getProgress(kind bizzio.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		p, err := r.importer.Progress(req.Context(), kind)
		if err != nil {
			respondImportError(w, err)
			return
		}
		respondSuccess(w, p)
	}
}

// testConnection performs a lightweight ERP call
func (r *Router) testConnection(w http.ResponseWriter, req *http.Request) {
	if err := r.importer.TestConnection(req.Context()); err != nil {
		log.Printf("❌ Bizzio: connection test failed: %v", err)
		respondImportError(w, err)
		return
	}
	respondSuccess(w, map[string]string{"message": "Connection successful"})
}

func (r *Router) listHistory(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	entries, err := r.importer.History(req.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, entries)
}

// uninstall removes snapshots, settings and downloaded images
func (r *Router) uninstall(w http.ResponseWriter, req *http.Request) {
	if err := r.importer.Uninstall(req.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(w, map[string]string{"message": "Bizzio data removed"})
}

// respondImportError maps importer and ERP errors to HTTP statuses
func respondImportError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	respondError(w, status, message)
}

func errorStatus(err error) (int, string) {
	var apiErr *bizzio.APIError
	var transportErr *bizzio.TransportError
	var parseErr *bizzio.ParseError

	switch {
	case errors.Is(err, importer.ErrNotConfigured):
		return http.StatusPreconditionFailed, "Bizzio API credentials are not configured"
	case errors.Is(err, importer.ErrConcurrentUpdate):
		return http.StatusConflict, "Another batch is already running, try again"
	case errors.Is(err, importer.ErrUnknownKind):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, apiErr.Error()
	case errors.As(err, &transportErr):
		if isTimeout(err) {
			return http.StatusGatewayTimeout, transportErr.Error()
		}
		return http.StatusBadGateway, transportErr.Error()
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, parseErr.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
