package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careers-portal/internal/api"
	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

func validRegistration() map[string]string {
	return map[string]string{
		"full_name":      "Asha Rao",
		"login_email":    "asha@example.com",
		"login_password": "secret1",
		"phone":          "9876543210",
	}
}

func TestRegister_Success(t *testing.T) {
	remote := sampleRemote()
	s := newTestServer(t, remote)
	v := newVisitor(t, s)

	w := v.postJSON("/auth/register", validRegistration())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[RegisterResponse](t, w)
	assert.Equal(t, RegisteredMessage, resp.Message)
	assert.Equal(t, "asha@example.com", resp.LoginEmail)
	assert.Equal(t, "login", resp.SwitchTo)

	require.Len(t, remote.registered, 1)
	got := remote.registered[0]
	assert.Equal(t, int64(1), got.CompanyFID)
	assert.Equal(t, int64(1), got.CompanyRegFID)
	assert.Equal(t, int64(2), got.DepartmentFID)
	assert.Equal(t, "Asha Rao", got.FullName)
}

func TestRegister_InvalidJSON(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("invalid json")))
	w := v.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode[errorBody](t, w).Error)
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		description string
		field       string
		value       string
		message     string
	}{
		{"short name", "full_name", "A", "Full name must be at least 2 characters"},
		{"bad email", "login_email", "not-an-email", "Please enter a valid email address"},
		{"short password", "login_password", "12345", "Password must be at least 6 characters"},
		{"short phone", "phone", "12345", "Please enter a valid phone number"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			remote := sampleRemote()
			s := newTestServer(t, remote)
			v := newVisitor(t, s)

			body := validRegistration()
			body[tt.field] = tt.value
			w := v.postJSON("/auth/register", body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode[errorBody](t, w).Errors[tt.field])
			assert.Empty(t, remote.registered)
		})
	}
}

func TestRegister_BusinessFailure(t *testing.T) {
	remote := sampleRemote()
	remote.registerErr = &api.Error{Kind: api.KindBusiness, Op: api.PathCandidateCreate, Message: "Email already exists"}
	s := newTestServer(t, remote)
	v := newVisitor(t, s)

	w := v.postJSON("/auth/register", validRegistration())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Email already exists", decode[errorBody](t, w).Error)
}

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	resp := v.login()
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, apply.JobsPath, resp.Redirect)
	require.NotNil(t, resp.Session)
	assert.True(t, resp.Session.LoggedIn)

	sess := decode[session.Session](t, v.get("/auth/session"))
	assert.True(t, sess.LoggedIn)
	assert.JSONEq(t, `{"id":7,"full_name":"Asha Rao"}`, string(sess.User))
	assert.NotContains(t, v.get("/auth/session").Body.String(), "api-token")
}

func TestLogin_Failure(t *testing.T) {
	remote := sampleRemote()
	remote.loginErr = &api.Error{Kind: api.KindBusiness, Op: api.PathCandidateLogin, Message: "Invalid credentials"}
	s := newTestServer(t, remote)
	v := newVisitor(t, s)

	w := v.postJSON("/auth/login", map[string]string{"login_email": "asha@example.com", "login_password": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid credentials", decode[errorBody](t, w).Error)

	sess := decode[session.Session](t, v.get("/auth/session"))
	assert.False(t, sess.LoggedIn)
}

func TestLogin_Validation(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	w := v.postJSON("/auth/login", map[string]string{"login_email": "asha"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorBody](t, w)
	assert.Equal(t, "Please enter a valid email address", resp.Errors["login_email"])
	assert.Equal(t, "Password is required", resp.Errors["login_password"])
}

func TestLogout_KeepsPendingApplication(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)

	require.Equal(t, http.StatusOK, v.post("/jobs/2/apply").Code)
	v.login()

	w := v.post("/auth/logout")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out", decode[map[string]string](t, w)["message"])

	sess := decode[session.Session](t, v.get("/auth/session"))
	assert.False(t, sess.LoggedIn)
	assert.Empty(t, sess.User)
	require.NotNil(t, sess.Pending)
	assert.Equal(t, int64(2), sess.Pending.ID)
}

func TestLogout_ClosesDialog(t *testing.T) {
	s := newTestServer(t, sampleRemote())
	v := newVisitor(t, s)
	openDialog(t, v)

	require.Equal(t, http.StatusOK, v.post("/auth/logout").Code)
	assert.Equal(t, apply.StateClosed, decode[apply.View](t, v.get("/apply")).State)
}

func TestUserBlob(t *testing.T) {
	withData := &types.LoginResponse{Token: "t", Data: json.RawMessage(`{"id":1}`)}
	assert.JSONEq(t, `{"id":1}`, string(userBlob(withData)))

	withoutData := &types.LoginResponse{Status: true, Message: "ok", Token: "t", Data: json.RawMessage("null")}
	blob := userBlob(withoutData)
	assert.NotContains(t, string(blob), `"t"`)
	assert.Contains(t, string(blob), `"message":"ok"`)
}
