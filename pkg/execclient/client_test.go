package execclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmmsim/pipeline/pkg/model"
)

func TestExecuteEpisodePostsAndDecodesResult(t *testing.T) {
	var gotReq executeEpisodeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/execute_episode", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		result := model.EpisodeResult{
			EpisodeID: gotReq.Proposal.EpisodeID,
			RunID:     gotReq.RunID,
			Status:    model.ResultStatusSuccess,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(result))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	result, err := c.ExecuteEpisode(context.Background(), model.Proposal{EpisodeID: "ep_1"}, "run_1", 42, "mean_revert")
	require.NoError(t, err)

	assert.Equal(t, "ep_1", result.EpisodeID)
	assert.Equal(t, "run_1", result.RunID)
	assert.Equal(t, model.ResultStatusSuccess, result.Status)
	assert.Equal(t, int64(42), gotReq.Seed)
	assert.Equal(t, "mean_revert", gotReq.Regime)
}

func TestExecuteEpisodeReturnsErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.ExecuteEpisode(context.Background(), model.Proposal{}, "run_1", 1, "mean_revert")
	assert.Error(t, err)
}
