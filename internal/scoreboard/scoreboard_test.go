package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"house-price-gateway/internal/client"
	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ModelName
	}
	return out
}

type stubSource struct {
	info *models.ModelInfoResponse
	err  error
}

func (s stubSource) FetchModelInfo(context.Context) (*models.ModelInfoResponse, error) {
	return s.info, s.err
}

func TestRank_TieBreaks(t *testing.T) {
	ranked := Rank([]Entry{
		{ModelName: "A", R2Score: 0.91, MeanAbsoluteError: 200000},
		{ModelName: "B", R2Score: 0.91, MeanAbsoluteError: 150000},
		{ModelName: "C", R2Score: 0.95, MeanAbsoluteError: 300000},
		{ModelName: "E", R2Score: 0.80, MeanAbsoluteError: 100},
		{ModelName: "D", R2Score: 0.80, MeanAbsoluteError: 100},
	})

	assert.Equal(t, []string{"C", "B", "A", "D", "E"}, names(ranked))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	input := []Entry{{ModelName: "A", R2Score: 0.1}, {ModelName: "B", R2Score: 0.9}}
	Rank(input)
	assert.Equal(t, "A", input[0].ModelName)
}

func TestFetch_RanksUpstreamEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"active_model": "C",
			"training_date": null,
			"best_score_r2": 0.95,
			"all_results": {
				"A": {"r2_score": 0.91, "mae": 200000},
				"B": {"r2_score": 0.91, "mae": 150000},
				"C": {"r2_score": 0.95, "mae": 300000}
			}
		}`))
	}))
	defer server.Close()

	engine := client.NewEngineClient(server.URL, client.Options{}, testLogger())
	board := NewFetcher(engine, testLogger()).Fetch(context.Background())
	require.NotNil(t, board)

	assert.Equal(t, []string{"C", "B", "A"}, names(board.Entries))
	assert.Equal(t, "C", board.ActiveModelName)
	assert.Equal(t, 0.95, board.BestR2Score)
	assert.Nil(t, board.TrainingDate)
}

func TestFetch_UpstreamFailureIsAbsence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	engine := client.NewEngineClient(server.URL, client.Options{}, testLogger())
	assert.Nil(t, NewFetcher(engine, testLogger()).Fetch(context.Background()))

	failing := stubSource{err: errors.New("boom")}
	assert.Nil(t, NewFetcher(failing, testLogger()).Fetch(context.Background()))
}

func TestFetch_InconsistentActiveModelIsAbsence(t *testing.T) {
	source := stubSource{info: &models.ModelInfoResponse{
		ActiveModel: "XGBoost",
		AllResults:  map[string]models.ModelScore{"Ridge": {R2Score: 0.7, MAE: 1}},
	}}

	assert.Nil(t, NewFetcher(source, testLogger()).Fetch(context.Background()))
}

func TestFromModelInfo_EmptyResults(t *testing.T) {
	board, err := FromModelInfo(&models.ModelInfoResponse{ActiveModel: "Ridge"})
	require.NoError(t, err)
	assert.Empty(t, board.Entries)
	assert.Equal(t, "Ridge", board.ActiveModelName)
}

func TestFromModelInfo_NegativeMAE(t *testing.T) {
	_, err := FromModelInfo(&models.ModelInfoResponse{
		ActiveModel: "Ridge",
		AllResults:  map[string]models.ModelScore{"Ridge": {R2Score: 0.7, MAE: -1}},
	})
	assert.Error(t, err)
}

func TestToResponse(t *testing.T) {
	date := "2024-12-01 10:00:00"
	board := &Scoreboard{
		ActiveModelName: "C",
		TrainingDate:    &date,
		BestR2Score:     0.95,
		Entries: []Entry{
			{ModelName: "C", R2Score: 0.95, MeanAbsoluteError: 300000},
			{ModelName: "B", R2Score: 0.91, MeanAbsoluteError: 150000},
		},
	}

	resp := board.ToResponse()
	assert.Equal(t, "C", resp.ActiveModel)
	assert.Equal(t, &date, resp.TrainingDate)
	assert.Equal(t, models.ModelScore{R2Score: 0.91, MAE: 150000}, resp.AllResults["B"])
	require.Len(t, resp.Ranking, 2)
	assert.Equal(t, "C", resp.Ranking[0].ModelName)
	assert.Equal(t, "B", resp.Ranking[1].ModelName)
}

func TestToResponse_EmptyResultsKeepRankingKey(t *testing.T) {
	board, err := FromModelInfo(&models.ModelInfoResponse{ActiveModel: "Ridge"})
	require.NoError(t, err)

	data, err := json.Marshal(board.ToResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"active_model": "Ridge",
		"training_date": null,
		"best_score_r2": 0,
		"all_results": {},
		"ranking": []
	}`, string(data))
}
