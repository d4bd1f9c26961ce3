package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
)

type fakeFacilityRepo struct {
	byKind map[string][]sqlite.Facility
	err    error

	lastKind  string
	lastTerm  string
	lastLimit int
}

func (r *fakeFacilityRepo) Search(_ context.Context, kind, term string, limit int) ([]sqlite.Facility, error) {
	r.lastKind, r.lastTerm, r.lastLimit = kind, term, limit
	if r.err != nil {
		return nil, r.err
	}
	return r.byKind[kind], nil
}

func TestSearchHealthFacilities(t *testing.T) {
	repo := &fakeFacilityRepo{byKind: map[string][]sqlite.Facility{
		sqlite.FacilityHospital: {
			{Name: "Civil Hospital", Address: "Baba-e-Urdu Rd", City: "Karachi", Phone: "021-99215740", Services: "emergency, cardiology"},
			{Name: "Jinnah Hospital", Address: "Rafiqui Shaheed Rd", City: "Karachi", Latitude: 24.85, Longitude: 67.04},
		},
	}}
	facilities := NewFacilities(repo)

	handler := facilities.GetDefinitions()[ToolSearchHealthFacilities].Handler
	result, err := handler(context.Background(), json.RawMessage(`{"query":"cardiology","limit":2}`))

	require.NoError(t, err)
	assert.Equal(t, sqlite.FacilityHospital, repo.lastKind)
	assert.Equal(t, "cardiology", repo.lastTerm)
	assert.Equal(t, 2, repo.lastLimit)
	assert.Contains(t, result, "Civil Hospital")
	assert.Contains(t, result, "phone: 021-99215740")
	assert.Contains(t, result, "services: emergency, cardiology")
	assert.Contains(t, result, "location: 24.85,67.04")
}

func TestSearchPoliceFacilitiesEmpty(t *testing.T) {
	facilities := NewFacilities(&fakeFacilityRepo{})

	handler := facilities.GetDefinitions()[ToolSearchPoliceFacilities].Handler
	result, err := handler(context.Background(), json.RawMessage(`{"query":"nowhere"}`))

	require.NoError(t, err)
	assert.Equal(t, "No matching facilities found.", result)
}

func TestSearchFacilitiesRepoError(t *testing.T) {
	facilities := NewFacilities(&fakeFacilityRepo{err: errors.New("db locked")})

	handler := facilities.GetDefinitions()[ToolSearchHealthFacilities].Handler
	_, err := handler(context.Background(), json.RawMessage(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "facility search")
}
