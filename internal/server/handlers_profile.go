package server

import (
	"context"
	"net/http"

	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

const (
	profileUpdatedMessage = "Profile updated successfully!"
	profileFailedMessage  = "Failed to update profile."

	// maxProfileBody bounds a profile update with its image and resume.
	maxProfileBody int64 = 16 << 20
)

type profileRemote interface {
	GetProfile(ctx context.Context, token string) (*types.Profile, error)
	UpdateProfile(ctx context.Context, token string, u types.ProfileUpdate) (*types.StatusResponse, error)
}

// ProfileHandler serves the logged-in candidate's profile.
type ProfileHandler struct {
	remote       profileRemote
	sessions     *session.Coordinator
	imageBaseURL string
	log          *logging.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(remote profileRemote, sessions *session.Coordinator, imageBaseURL string, log *logging.Logger) *ProfileHandler {
	if log == nil {
		log = logging.NewNop()
	}
	return &ProfileHandler{
		remote:       remote,
		sessions:     sessions,
		imageBaseURL: imageBaseURL,
		log:          log.With("component", "profile"),
	}
}

func (h *ProfileHandler) session(r *http.Request) (*session.Session, error) {
	id, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	sess, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, &ErrLoginRequired{}
	}
	return sess, nil
}

// Get returns the candidate profile with asset URLs resolved.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	profile, err := h.remote.GetProfile(r.Context(), sess.Token)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	profile.ProfileImgURL = types.ResolveAssetURL(h.imageBaseURL, profile.ProfileImgURL)
	profile.ResumeFileURL = types.ResolveAssetURL(h.imageBaseURL, profile.ResumeFileURL)
	jsonResponse(w, http.StatusOK, profile)
}

// Update sends the changed profile fields and files.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBody)
	if err := parseForm(r); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	update := types.ProfileUpdate{
		FullName:           r.FormValue("full_name"),
		LoginEmail:         r.FormValue("login_email"),
		LoginPassword:      r.FormValue("login_password"),
		Phone:              r.FormValue("phone"),
		ProfileSummary:     r.FormValue("profile_summary"),
		Country:            r.FormValue("country"),
		State:              r.FormValue("state"),
		City:               r.FormValue("city"),
		Pincode:            r.FormValue("pincode"),
		Location:           r.FormValue("location"),
		LinkedInProfileURL: r.FormValue("linkedin_profile_url"),
	}
	if update.ProfileImage, err = readUpload(r, "profile_img_url"); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if update.Resume, err = readUpload(r, "resume_file_url"); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := update.Validate(); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.remote.UpdateProfile(r.Context(), sess.Token, update)
	if err != nil {
		h.log.Warn("profile update failed", "session", sess.ID, "error", err)
		jsonResponse(w, HTTPStatus(err), errorBody{Error: profileFailedMessage})
		return
	}

	message := resp.Message
	if message == "" {
		message = profileUpdatedMessage
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": message})
}
