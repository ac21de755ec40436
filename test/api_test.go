//go:build e2e_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/gymstats/exercises"
	gymstatsmcp "github.com/2beens/fitdash/internal/gymstats/mcp"
	"github.com/2beens/fitdash/internal/gymstats/workouts"
	"github.com/2beens/fitdash/internal/health"
	"github.com/2beens/fitdash/internal/sleep"
	"github.com/2beens/fitdash/internal/weight"
	"github.com/2beens/fitdash/pkg"
)

func (s *IntegrationTestSuite) TestHealth() {
	ctx := context.Background()

	var resp health.Response
	s.Equal(http.StatusOK, getJSON(ctx, s.T(), "", "/health", &resp))
	s.Equal("ok", resp.Status)

	var ready health.ReadyResponse
	s.Equal(http.StatusOK, getJSON(ctx, s.T(), "", "/health/ready", &ready))
	s.Equal("ok", ready.Status)
	s.Equal("ok", ready.Checks["postgres"])
	s.Equal("ok", ready.Checks["redis"])
}

func (s *IntegrationTestSuite) TestAuthRequired() {
	ctx := context.Background()

	var errResp pkg.ErrorResponse
	s.Equal(http.StatusUnauthorized, getJSON(ctx, s.T(), "", "/api/workouts", &errResp))
	s.Equal("Access token required", errResp.Error)

	errResp = pkg.ErrorResponse{}
	s.Equal(http.StatusForbidden, getJSON(ctx, s.T(), "not-a-jwt", "/api/workouts", &errResp))
	s.Equal("Invalid or expired token", errResp.Error)
}

func (s *IntegrationTestSuite) TestLogin() {
	ctx := context.Background()
	t := s.T()

	resp := postLogin(ctx, t, "wrong-password", "10.20.0.1")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.NoError(resp.Body.Close())

	token := doLogin(ctx, t)
	var list workouts.ListResponse
	s.Equal(http.StatusOK, getJSON(ctx, t, token, "/api/workouts", &list))
}

func (s *IntegrationTestSuite) TestLogin_RateLimited() {
	ctx := context.Background()
	t := s.T()

	var limited *http.Response
	for i := 0; i < 10; i++ {
		resp := postLogin(ctx, t, "wrong-password", "10.20.0.2")
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = resp
			break
		}
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
		s.NoError(resp.Body.Close())
	}
	s.Require().NotNil(limited, "login was never rate limited")
	defer limited.Body.Close()

	s.NotEmpty(limited.Header.Get("Retry-After"))
	s.Equal("5", limited.Header.Get("RateLimit-Limit"))
	s.Equal("0", limited.Header.Get("RateLimit-Remaining"))
}

func (s *IntegrationTestSuite) TestWorkouts() {
	ctx := context.Background()
	t := s.T()

	var list workouts.ListResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/workouts", &list))
	s.Equal(2, list.Total)
	s.Equal(workouts.DefaultListLimit, list.Limit)
	s.Equal(0, list.Offset)
	s.Require().Len(list.Workouts, 2)
	// newest first
	s.Equal("Leg Day", list.Workouts[0].Name)
	s.Equal(3, list.Workouts[0].TotalSets)
	s.Equal(1, list.Workouts[0].ExerciseCount)
	s.InDelta(1330.0, list.Workouts[0].TotalVolume, 0.001)
	s.Equal("Push Day", list.Workouts[1].Name)
	s.InDelta(1150.0, list.Workouts[1].TotalVolume, 0.001)

	list = workouts.ListResponse{}
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/workouts?limit=1&offset=1", &list))
	s.Equal(2, list.Total)
	s.Require().Len(list.Workouts, 1)
	s.Equal("Push Day", list.Workouts[0].Name)

	var errResp pkg.ErrorResponse
	s.Equal(http.StatusBadRequest, getJSON(ctx, t, s.token, "/api/workouts?limit=abc", &errResp))

	var detail workouts.Detail
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, fmt.Sprintf("/api/workouts/%d", s.seeded.pushDayID), &detail))
	s.Equal("Push Day", detail.Name)
	s.Equal(2, detail.TotalSets)
	s.InDelta(1150.0, detail.TotalVolume, 0.001)
	s.Require().Len(detail.Exercises, 1)
	s.Equal("Bench Press", detail.Exercises[0].ExerciseName)
	s.Require().Len(detail.Exercises[0].Sets, 2)
	s.Equal(1, detail.Exercises[0].Sets[0].SetNumber)
	s.Equal(2, detail.Exercises[0].Sets[1].SetNumber)
	s.InDelta(85.0, detail.Exercises[0].Sets[1].WeightKg, 0.001)

	errResp = pkg.ErrorResponse{}
	s.Equal(http.StatusNotFound, getJSON(ctx, t, s.token, "/api/workouts/999999", &errResp))
	s.Equal("Workout not found", errResp.Error)

	var volume workouts.VolumeResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/workouts/stats/volume-over-time?days=30&groupBy=day", &volume))
	s.Require().Len(volume.Data, 2)
	s.InDelta(1150.0, volume.Data[0].Volume, 0.001)
	s.InDelta(1330.0, volume.Data[1].Volume, 0.001)

	errResp = pkg.ErrorResponse{}
	s.Equal(http.StatusBadRequest, getJSON(ctx, t, s.token, "/api/workouts/stats/volume-over-time?groupBy=year", &errResp))
}

func (s *IntegrationTestSuite) TestExercises() {
	ctx := context.Background()
	t := s.T()

	var list exercises.ListResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/exercises", &list))
	s.Require().Len(list.Exercises, 3)
	// most recently performed first, never performed last
	s.Equal("Squat", list.Exercises[0].Name)
	s.Equal("Bench Press", list.Exercises[1].Name)
	s.Equal("Deadlift", list.Exercises[2].Name)
	s.Nil(list.Exercises[2].LastPerformed)
	s.Nil(list.Exercises[2].MaxWeight)
	s.Require().NotNil(list.Exercises[0].MaxWeight)
	s.InDelta(110.0, *list.Exercises[0].MaxWeight, 0.001)

	var history exercises.HistoryResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, fmt.Sprintf("/api/exercises/%d/history", s.seeded.squatID), &history))
	s.Equal("Squat", history.ExerciseName)
	s.Require().Len(history.History, 1)
	s.Equal(s.seeded.legDayID, history.History[0].WorkoutID)
	s.Len(history.History[0].Sets, 3)
	s.InDelta(110.0, history.History[0].MaxWeight, 0.001)
	s.InDelta(1330.0, history.History[0].TotalVolume, 0.001)

	var progress exercises.ProgressResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, fmt.Sprintf("/api/exercises/%d/progress?metric=total_volume", s.seeded.benchPressID), &progress))
	s.Equal(exercises.MetricTotalVolume, progress.Metric)
	s.Require().Len(progress.Data, 1)
	s.InDelta(1150.0, progress.Data[0].Value, 0.001)

	var errResp pkg.ErrorResponse
	s.Equal(http.StatusNotFound, getJSON(ctx, t, s.token, "/api/exercises/999999/history", &errResp))
	s.Equal("Exercise not found", errResp.Error)

	errResp = pkg.ErrorResponse{}
	s.Equal(http.StatusBadRequest, getJSON(ctx, t, s.token, fmt.Sprintf("/api/exercises/%d/progress?metric=fastest", s.seeded.squatID), &errResp))
	s.Equal("Invalid metric parameter", errResp.Error)
}

func (s *IntegrationTestSuite) TestSleep() {
	ctx := context.Background()
	t := s.T()

	var resp sleep.LogsResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/sleep", &resp))
	s.Require().Len(resp.Logs, 2)
	s.Equal("2024-03-02", resp.Logs[0].LogDate.String())
	s.Require().NotNil(resp.Stats)
	s.Equal(2, resp.Stats.TotalLogs)
	s.Require().NotNil(resp.Stats.AvgDuration)
	s.InDelta(7.0, *resp.Stats.AvgDuration, 0.001)
	s.Require().NotNil(resp.Stats.AvgQuality)
	s.InDelta(3.5, *resp.Stats.AvgQuality, 0.001)

	resp = sleep.LogsResponse{}
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/sleep?startDate=2024-03-02&endDate=2024-03-02", &resp))
	s.Require().Len(resp.Logs, 1)
	s.Equal(1, resp.Stats.TotalLogs)

	var errResp pkg.ErrorResponse
	s.Equal(http.StatusBadRequest, getJSON(ctx, t, s.token, "/api/sleep?startDate=yesterday", &errResp))
}

func (s *IntegrationTestSuite) TestWeight() {
	ctx := context.Background()
	t := s.T()

	var resp weight.LogsResponse
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/weight", &resp))
	s.Require().Len(resp.Logs, 2)
	s.Equal("2024-03-10", resp.Logs[0].LogDate.String())
	s.Require().NotNil(resp.Stats)
	s.Require().NotNil(resp.Stats.CurrentWeight)
	s.InDelta(80.5, *resp.Stats.CurrentWeight, 0.001)
	s.Require().NotNil(resp.Stats.StartWeight)
	s.InDelta(82.0, *resp.Stats.StartWeight, 0.001)
	s.Require().NotNil(resp.Stats.WeightChange)
	s.InDelta(-1.5, *resp.Stats.WeightChange, 0.001)
	s.Require().NotNil(resp.Stats.AvgBodyFat)
	s.InDelta(17.5, *resp.Stats.AvgBodyFat, 0.001)

	resp = weight.LogsResponse{}
	s.Require().Equal(http.StatusOK, getJSON(ctx, t, s.token, "/api/weight?startDate=2025-01-01", &resp))
	s.Empty(resp.Logs)
	s.Nil(resp.Stats.CurrentWeight)
	s.Nil(resp.Stats.WeightChange)
}

func (s *IntegrationTestSuite) TestUnknownRoute() {
	ctx := context.Background()

	var errResp pkg.ErrorResponse
	s.Equal(http.StatusNotFound, getJSON(ctx, s.T(), s.token, "/api/nope", &errResp))
	s.Equal("Route not found", errResp.Error)
	s.Equal("/api/nope", errResp.Path)
}

type bearerTransport struct {
	token string
}

func (bt bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+bt.token)
	return http.DefaultTransport.RoundTrip(req)
}

func (s *IntegrationTestSuite) TestMCP() {
	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{Name: "e2e-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   serverEndpoint + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: s.token}},
	}, nil)
	s.Require().NoError(err)
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	s.Require().NoError(err)
	s.Len(tools.Tools, 9)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      gymstatsmcp.ToolGetWorkout,
		Arguments: map[string]any{"workout_id": s.seeded.legDayID},
	})
	s.Require().NoError(err)
	s.False(res.IsError)
	s.Require().NotEmpty(res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	s.True(strings.Contains(text.Text, `"Leg Day"`), text.Text)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: gymstatsmcp.ToolGetSchema})
	s.Require().NoError(err)
	s.False(res.IsError)
	text, ok = res.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	s.Contains(text.Text, "sleep_logs")
}

func (s *IntegrationTestSuite) TestLoginResponseShape() {
	ctx := context.Background()

	resp := postLogin(ctx, s.T(), testPassword, "10.20.0.3")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var loginResp auth.LoginResponse
	s.Require().NoError(decodeBody(resp, &loginResp))
	s.NotEmpty(loginResp.Token)
	s.Equal(int64(3600), loginResp.ExpiresIn)
}
