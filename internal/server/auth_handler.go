package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

// RegisteredMessage is shown after a successful registration.
const RegisteredMessage = "Registration successful! Please login."

// authRemote is the part of the API used for candidate auth.
type authRemote interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.StatusResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error)
}

// RegisterResponse tells the client to switch to the login form.
type RegisterResponse struct {
	Message    string `json:"message"`
	LoginEmail string `json:"login_email"`
	SwitchTo   string `json:"switch_to"`
}

// LoginResponse carries the server message and where to go next.
type LoginResponse struct {
	Message  string           `json:"message"`
	Redirect string           `json:"redirect"`
	Session  *session.Session `json:"session"`
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	remote    authRemote
	sessions  *session.Coordinator
	gate      *apply.Gate
	dialogs   *apply.Dialogs
	candidate config.CandidateConfig
	log       *logging.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	remote authRemote,
	sessions *session.Coordinator,
	gate *apply.Gate,
	dialogs *apply.Dialogs,
	candidate config.CandidateConfig,
	log *logging.Logger,
) *AuthHandler {
	if log == nil {
		log = logging.NewNop()
	}
	return &AuthHandler{
		remote:    remote,
		sessions:  sessions,
		gate:      gate,
		dialogs:   dialogs,
		candidate: candidate,
		log:       log.With("component", "auth"),
	}
}

// Register handles candidate registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if req.CompanyFID == 0 {
		req.CompanyFID = h.candidate.CompanyFID
	}
	if req.CompanyRegFID == 0 {
		req.CompanyRegFID = h.candidate.CompanyRegFID
	}
	if req.DepartmentFID == 0 {
		req.DepartmentFID = h.candidate.DepartmentFID
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if _, err := h.remote.Register(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info("candidate registered", "email", req.LoginEmail)
	jsonResponse(w, http.StatusCreated, RegisterResponse{
		Message:    RegisteredMessage,
		LoginEmail: req.LoginEmail,
		SwitchTo:   "login",
	})
}

// Login handles candidate login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.remote.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.sessions.Login(r.Context(), id, resp.Token, userBlob(resp)); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	redirect, err := h.gate.LoginRedirect(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	sess, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	jsonResponse(w, http.StatusOK, LoginResponse{
		Message:  resp.Message,
		Redirect: redirect,
		Session:  sess,
	})
}

// Logout clears the login and closes the dialog. A pending application survives.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.sessions.Logout(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.dialogs.For(id).Close()
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Session returns the logged-in flag and user blob for the user menu.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	sess, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, sess)
}

// userBlob is the user record to keep for the session: the login data when
// present, otherwise the login response without its token.
func userBlob(resp *types.LoginResponse) json.RawMessage {
	data := bytes.TrimSpace(resp.Data)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		return resp.Data
	}
	stripped := *resp
	stripped.Token = ""
	b, err := json.Marshal(stripped)
	if err != nil {
		return nil
	}
	return b
}
