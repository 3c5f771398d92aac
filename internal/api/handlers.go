package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/models"
)

func (s *Server) handleURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handleSave(w, r)
		return
	}
	s.handleRead(w, r)
}

// handleRead always answers 200; read failures surface in message/error.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, s.svc.Snapshot(r.Context()))
}

// handleView is the read without the cleanup write.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, s.svc.View(r.Context()))
}

func (s *Server) writeSnapshot(w http.ResponseWriter, snap links.Snapshot) {

	resp := readResponse{
		Status:        "ok",
		Data:          snap.Rankings,
		Total:         snap.Total,
		OriginalTotal: snap.OriginalTotal,
		RemovedCount:  snap.RemovedCount,
		Timestamp:     s.now().UnixMilli(),
		Message:       snap.Message,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	log := entryFrom(r.Context())

	cfg := s.svc.Config()
	if missing := cfg.MissingForWrite(); len(missing) > 0 {
		e := errs.New(errs.MissingConfig, strings.Join(missing, ", "))
		log.Error("%s", e.Error())
		writeJSON(w, e.Status(), errorBody{Status: "error", Error: e.Error(), Code: e.Code, Env: cfg.EnvStatus()})
		return
	}

	incoming, cerr := decodeSaveBody(w, r)
	if cerr != nil {
		writeError(w, cerr)
		return
	}

	res, err := s.svc.Save(r.Context(), incoming)
	if err != nil {
		e := asCoded(err, errs.StoreWrite)
		log.Error("save failed: %v", err)
		writeError(w, e)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		Status:     "success",
		Message:    res.Message,
		Added:      res.Added,
		Duplicates: res.Duplicates,
		Total:      res.Total,
		IsNewFile:  res.IsNewFile,
	})
}

func decodeSaveBody(w http.ResponseWriter, r *http.Request) ([]models.URLRecord, *errs.Error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.InvalidBody, err)
	}

	var body struct {
		URLs json.RawMessage `json:"urls"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, errs.Wrap(errs.InvalidBody, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body.URLs)), "[") {
		return nil, errs.New(errs.URLsNotArray)
	}

	// Stored documents tolerate odd elements; submissions must be objects.
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(body.URLs, &elems); err != nil {
		return nil, errs.Wrap(errs.InvalidBody, err)
	}
	for i, e := range elems {
		if e == nil {
			return nil, errs.Wrap(errs.InvalidBody, fmt.Errorf("url record %d is not an object", i))
		}
	}

	var incoming []models.URLRecord
	if err := json.Unmarshal(body.URLs, &incoming); err != nil {
		return nil, errs.Wrap(errs.InvalidBody, err)
	}
	return incoming, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	log := entryFrom(r.Context())

	if s.svc.Config().WebhookURL == "" {
		e := errs.New(errs.MissingWebhook, config.EnvWebhookURL)
		log.Error("%s", e.Error())
		writeError(w, e)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, errs.Wrap(errs.InvalidBody, err))
		return
	}

	if err := s.svc.Report(r.Context(), payload); err != nil {
		log.Error("report relay failed: %v", err)
		writeError(w, asCoded(err, errs.SinkFailed))
		return
	}

	log.Info("report relayed")
	writeJSON(w, http.StatusOK, reportResponse{Status: "success", Message: "Report sent"})
}

func asCoded(err error, fallback errs.Code) *errs.Error {
	if e, ok := errs.As(err); ok {
		return e
	}
	return errs.Wrap(fallback, err)
}
