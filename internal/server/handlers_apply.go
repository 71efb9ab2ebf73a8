package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/types"
)

// formOverhead is the request body allowance on top of the upload limits.
const formOverhead int64 = 1 << 20

// SubmitResponse is the outcome of an application submit with the dialog after it.
type SubmitResponse struct {
	apply.SubmitResult
	Dialog apply.View `json:"dialog"`
}

// handleDialog returns the visitor's dialog view.
func (s *Server) handleDialog(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, s.dialogs.For(id).View())
}

// handleSubmit validates and sends the application form.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Oversized images are reported as a field error, so allow twice the limit through.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.Apply.MaxImageBytes+formOverhead)
	if err := parseForm(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	image, err := readUpload(r, "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	form := types.ApplicationForm{
		FullName:           r.FormValue("full_name"),
		Email:              r.FormValue("email"),
		Phone:              r.FormValue("phone"),
		LinkedInProfileURL: r.FormValue("linkedin_profile_url"),
		Description:        r.FormValue("description"),
		Image:              image,
	}

	sess, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dialog := s.dialogs.For(id)
	result, err := dialog.Submit(r.Context(), form, sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	switch {
	case len(result.Errors) > 0:
		status = http.StatusBadRequest
	case result.Ignored:
		status = http.StatusAccepted
	}
	jsonResponse(w, status, SubmitResponse{SubmitResult: result, Dialog: dialog.View()})
}

// handleCloseDialog closes the visitor's dialog.
func (s *Server) handleCloseDialog(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dialog := s.dialogs.For(id)
	dialog.Close()
	jsonResponse(w, http.StatusOK, dialog.View())
}

// parseForm parses a multipart or urlencoded request body.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(formOverhead)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &ErrBadRequest{Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
	}
	return &ErrBadRequest{Message: "Invalid form data"}
}

// readUpload reads an optional file field. A missing file is not an error.
func readUpload(r *http.Request, field string) (*types.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &ErrBadRequest{Message: fmt.Sprintf("invalid %s upload", field)}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return &types.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
