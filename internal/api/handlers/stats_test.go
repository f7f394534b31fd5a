package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/handlers"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/avukatajanda/ajanda/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	t.Run("empty org reports zeros", func(t *testing.T) {
		tc, router := setupAPI(t)

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/stats", nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.StatsResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, int64(0), resp.TotalClients)
		assert.Equal(t, int64(0), resp.TotalCases)
		assert.Equal(t, int64(0), resp.ActiveCases)
		assert.Equal(t, int64(0), resp.UpcomingEvents)
	})

	t.Run("counts clients, cases and upcoming events", func(t *testing.T) {
		tc, router := setupAPI(t)

		c1 := testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "One")
		testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Two")
		testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Three")

		testutil.CreateTestCase(t, tc.DB, tc.User.ID, tc.Org.ID, c1.ID, "2026-600", models.CaseStatusActive)
		testutil.CreateTestCase(t, tc.DB, tc.User.ID, tc.Org.ID, c1.ID, "2026-601", models.CaseStatusClosed)

		now := time.Now().UTC()
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Past", now.Add(-24*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Future", now.Add(24*time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/stats", nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.StatsResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, int64(3), resp.TotalClients)
		assert.Equal(t, int64(2), resp.TotalCases)
		assert.Equal(t, int64(1), resp.ActiveCases)
		assert.Equal(t, int64(1), resp.UpcomingEvents)
	})

	t.Run("far-future events still count as upcoming", func(t *testing.T) {
		tc, router := setupAPI(t)

		now := time.Now().UTC()
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Next year", now.AddDate(1, 0, 0))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/stats", nil, tc.Token)
		rr := serve(router, req)

		var resp handlers.StatsResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, int64(1), resp.UpcomingEvents)
	})

	t.Run("counts are isolated per org", func(t *testing.T) {
		tc, router := setupAPI(t)

		testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Mine")

		otherOrg, otherUser, otherToken := tc.SecondTenant(t)
		testutil.CreateTestClient(t, tc.DB, otherUser.ID, otherOrg.ID, "Theirs A")
		testutil.CreateTestClient(t, tc.DB, otherUser.ID, otherOrg.ID, "Theirs B")

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/stats", nil, tc.Token)
		var mine handlers.StatsResponse
		testutil.ParseJSONResponse(t, serve(router, req), &mine)
		assert.Equal(t, int64(1), mine.TotalClients)

		otherReq := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/stats", nil, otherToken)
		var theirs handlers.StatsResponse
		testutil.ParseJSONResponse(t, serve(router, otherReq), &theirs)
		assert.Equal(t, int64(2), theirs.TotalClients)
	})
}
