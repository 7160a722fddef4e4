package web

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/contactimport/internal/contacts"
	"github.com/JonMunkholm/contactimport/internal/core"
	"github.com/JonMunkholm/contactimport/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string             `json:"status"`
	Imports core.LimiterStatus `json:"imports"`
}

// ContactsResponse is returned by GET /api/contacts.
type ContactsResponse struct {
	Contacts []contacts.Contact `json:"contacts"`
	Count    int                `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Imports: s.service.LimiterStatus()}
	if err := s.service.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListContacts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if list == nil {
		list = []contacts.Contact{}
	}
	writeJSON(w, http.StatusOK, ContactsResponse{Contacts: list, Count: len(list)})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, file, err := s.readImportRequest(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	preview, err := s.service.Preview(withClient(r), req)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, file, err := s.readImportRequest(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer file.Close()

	result, err := s.service.Import(withClient(r), req)
	if err != nil {
		if errors.Is(err, core.ErrTooManyImports) {
			w.Header().Set("Retry-After", "5")
		}
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ImportResult(chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ImportResult(chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ImportSummaryPage(result).Render(r.Context(), w); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
	}
}

// readImportRequest pulls the "file" part and the policy flags out of a
// multipart form. The caller closes the returned file.
func (s *Server) readImportRequest(w http.ResponseWriter, r *http.Request) (core.ImportRequest, multipart.File, error) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return core.ImportRequest{}, nil, core.ErrFileTooLarge
		}
		return core.ImportRequest{}, nil, core.ErrNoFile
	}

	policy, err := core.ParseMergePolicy(
		r.FormValue("removeDuplicates"),
		r.FormValue("updateExisting"),
		s.service.DefaultPolicy(),
	)
	if err != nil {
		return core.ImportRequest{}, nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.ImportRequest{}, nil, core.ErrNoFile
	}

	return core.ImportRequest{
		FileName: header.Filename,
		Body:     file,
		Policy:   &policy,
	}, file, nil
}
