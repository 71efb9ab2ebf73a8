package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Clean(t *testing.T) {
	var resp ProfileResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":{
		"id": 5, "full_name": "Asha", "phone": "null", "city": null,
		"linkedin_profile_url": "null", "profile_summary": "Go dev"
	}}`), &resp))

	p := resp.Data.Clean()
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, "Asha", p.FullName)
	assert.Empty(t, p.Phone)
	assert.Empty(t, p.City)
	assert.Empty(t, p.LinkedInProfileURL)
	assert.Equal(t, "Go dev", p.ProfileSummary)
}

func TestResolveAssetURL(t *testing.T) {
	assert.Equal(t, "", ResolveAssetURL("https://cdn.example.com/", ""))
	assert.Equal(t, "https://x.example.com/a.png", ResolveAssetURL("https://cdn.example.com/", "https://x.example.com/a.png"))
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", ResolveAssetURL("https://cdn.example.com/", "uploads/a.png"))
}

func TestStatusResponse(t *testing.T) {
	var failed StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":false,"message":"Already applied","error":"duplicate"}`), &failed))
	assert.True(t, failed.Failed())
	assert.Equal(t, "duplicate", failed.ErrorText())

	var nested StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":false,"error":{"code":1}}`), &nested))
	assert.Empty(t, nested.ErrorText())

	var missing StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":"ok"}`), &missing))
	assert.False(t, missing.Failed())
}

func TestProfileUpdate_FieldsSkipsEmpty(t *testing.T) {
	u := ProfileUpdate{FullName: "Asha", LoginEmail: "a@example.com", City: "Pune"}
	assert.Equal(t, [][2]string{
		{"full_name", "Asha"},
		{"login_email", "a@example.com"},
		{"city", "Pune"},
	}, u.Fields())
}
