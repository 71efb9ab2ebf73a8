package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careers-portal/internal/types"
)

func TestRegister(t *testing.T) {
	c := newTestClient(t, "Bearer", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+PathCandidateCreate, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["login_email"])
		assert.EqualValues(t, 2, body["department_fid"])
		_, _ = io.WriteString(w, `{"status":true,"message":"Candidate created"}`)
	})

	resp, err := c.Register(context.Background(), types.RegisterRequest{
		CompanyFID: 1, CompanyRegFID: 1, DepartmentFID: 2,
		FullName: "Asha Rao", LoginEmail: "asha@example.com", LoginPassword: "secret1", Phone: "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "Candidate created", resp.Message)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, "Bearer", func(w http.ResponseWriter, r *http.Request) {
		var body types.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.LoginPassword != "secret1" {
			_, _ = io.WriteString(w, `{"status":false,"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":true,"message":"Login successful","token":"abc","data":{"id":9}}`)
	})

	resp, err := c.Login(context.Background(), types.LoginRequest{LoginEmail: "asha@example.com", LoginPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.JSONEq(t, `{"id":9}`, string(resp.Data))

	_, err = c.Login(context.Background(), types.LoginRequest{LoginEmail: "asha@example.com", LoginPassword: "wrong"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBusiness))
	assert.Equal(t, "Invalid credentials", MessageOf(err))
}

func TestGetProfile_CleansNullStrings(t *testing.T) {
	c := newTestClient(t, "Bearer", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `{"status":true,"data":{"id":9,"full_name":"Asha","phone":"null","city":null}}`)
	})

	p, err := c.GetProfile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, "Asha", p.FullName)
	assert.Empty(t, p.Phone)
}

func TestUpdateProfile_Multipart(t *testing.T) {
	c := newTestClient(t, "Bearer", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Asha Rao", r.FormValue("full_name"))
		_, hasState := r.MultipartForm.Value["state"]
		assert.False(t, hasState)

		f, hdr, err := r.FormFile("resume_file_url")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, "cv.pdf", hdr.Filename)

		_, _, err = r.FormFile("profile_img_url")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		_, _ = io.WriteString(w, `{"status":true,"message":"Updated"}`)
	})

	resp, err := c.UpdateProfile(context.Background(), "abc", types.ProfileUpdate{
		FullName:   "Asha Rao",
		LoginEmail: "asha@example.com",
		Phone:      "9876543210",
		Resume:     &types.Upload{Filename: "cv.pdf", Data: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated", resp.Message)
}
