package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careers-portal/internal/api"
	"github.com/jonathan/careers-portal/internal/types"
)

func profileFields() map[string]string {
	return map[string]string{
		"full_name":   "Asha Rao",
		"login_email": "asha@example.com",
		"phone":       "9876543210",
		"city":        "Pune",
	}
}

func TestProfile_RequiresLogin(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	assert.Equal(t, http.StatusUnauthorized, v.get("/profile").Code)
	assert.Equal(t, http.StatusUnauthorized, v.multipart(http.MethodPut, "/profile", profileFields(), nil).Code)
}

func TestProfile_Get(t *testing.T) {
	remote := sampleRemote()
	remote.profile.ProfileImgURL = "uploads/asha.png"
	remote.profile.ResumeFileURL = "https://files.example.com/asha.pdf"
	s := newTestServer(t, remote)
	v := newVisitor(t, s)
	v.login()

	w := v.get("/profile")
	require.Equal(t, http.StatusOK, w.Code)

	p := decode[types.Profile](t, w)
	assert.Equal(t, "Asha Rao", p.FullName)
	assert.Equal(t, "https://cdn.example.com/uploads/asha.png", p.ProfileImgURL)
	assert.Equal(t, "https://files.example.com/asha.pdf", p.ResumeFileURL)
}

func TestProfile_GetExpiredToken(t *testing.T) {
	remote := sampleRemote()
	remote.profileErr = &api.Error{Kind: api.KindTransport, Op: api.PathCandidateGet, Status: http.StatusUnauthorized, Message: "jwt expired"}
	s := newTestServer(t, remote)
	v := newVisitor(t, s)
	v.login()

	w := v.get("/profile")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "jwt expired", decode[errorBody](t, w).Error)
}

func TestProfile_Update(t *testing.T) {
	tests := []struct {
		description string
		resp        *types.StatusResponse
		want        string
	}{
		{"server message", &types.StatusResponse{Message: "Candidate updated"}, "Candidate updated"},
		{"default message", &types.StatusResponse{}, profileUpdatedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			remote := sampleRemote()
			remote.updateResp = tt.resp
			s := newTestServer(t, remote)
			v := newVisitor(t, s)
			v.login()

			w := v.multipart(http.MethodPut, "/profile", profileFields(),
				map[string][]byte{"resume_file_url": []byte("%PDF")})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode[map[string]string](t, w)["message"])

			require.Len(t, remote.updates, 1)
			u := remote.updates[0]
			assert.Equal(t, "Pune", u.City)
			assert.Nil(t, u.ProfileImage)
			require.NotNil(t, u.Resume)
			assert.Equal(t, []byte("%PDF"), u.Resume.Data)
		})
	}
}

func TestProfile_UpdateValidation(t *testing.T) {
	remote := sampleRemote()
	s := newTestServer(t, remote)
	v := newVisitor(t, s)
	v.login()

	fields := profileFields()
	fields["linkedin_profile_url"] = "not a url"
	w := v.multipart(http.MethodPut, "/profile", fields, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a valid LinkedIn URL", decode[errorBody](t, w).Errors["linkedin_profile_url"])
	assert.Empty(t, remote.updates)
}

func TestProfile_UpdateFailure(t *testing.T) {
	remote := sampleRemote()
	remote.updateErr = &api.Error{Kind: api.KindBusiness, Op: api.PathCandidateUpdate, Message: "Phone taken"}
	s := newTestServer(t, remote)
	v := newVisitor(t, s)
	v.login()

	w := v.multipart(http.MethodPut, "/profile", profileFields(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, profileFailedMessage, decode[errorBody](t, w).Error)
}
