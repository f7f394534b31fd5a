package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/dto"
	"github.com/avukatajanda/ajanda/internal/api/handlers"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/avukatajanda/ajanda/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCreate(t *testing.T) {
	t.Run("creates standalone event", func(t *testing.T) {
		tc, router := setupAPI(t)

		starts := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/events", map[string]string{
			"title":     "Client meeting",
			"type":      "meeting",
			"starts_at": starts,
			"location":  "Office",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Client meeting", resp.Title)
		assert.Equal(t, starts, resp.StartsAt)
		assert.Nil(t, resp.CaseID)
	})

	t.Run("creates event linked to own case", func(t *testing.T) {
		tc, router := setupAPI(t)

		client := testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Acme")
		kase := testutil.CreateTestCase(t, tc.DB, tc.User.ID, tc.Org.ID, client.ID, "2026-500", models.CaseStatusActive)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/events", map[string]string{
			"title":     "Hearing",
			"type":      "hearing",
			"starts_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
			"case_id":   kase.ID.String(),
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotNil(t, resp.CaseID)
		assert.Equal(t, kase.ID.String(), *resp.CaseID)
		require.NotNil(t, resp.Case)
		assert.Equal(t, "2026-500", resp.Case.CaseNumber)
	})

	t.Run("rejects case from another org", func(t *testing.T) {
		tc, router := setupAPI(t)

		otherOrg, otherUser, _ := tc.SecondTenant(t)
		otherClient := testutil.CreateTestClient(t, tc.DB, otherUser.ID, otherOrg.ID, "Theirs")
		foreign := testutil.CreateTestCase(t, tc.DB, otherUser.ID, otherOrg.ID, otherClient.ID, "2026-501", models.CaseStatusActive)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/events", map[string]string{
			"title":     "Should fail",
			"starts_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			"case_id":   foreign.ID.String(),
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Case not found in your organization", resp.Error)
	})

	t.Run("rejects missing start time", func(t *testing.T) {
		tc, router := setupAPI(t)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/events", map[string]string{
			"title": "No time",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects non-RFC3339 start time", func(t *testing.T) {
		tc, router := setupAPI(t)

		req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/events", map[string]string{
			"title":     "Bad time",
			"starts_at": "tomorrow at noon",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventList(t *testing.T) {
	t.Run("orders by start time ascending", func(t *testing.T) {
		tc, router := setupAPI(t)

		now := time.Now().UTC()
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Later", now.Add(72*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Sooner", now.Add(24*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Middle", now.Add(48*time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/events", nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 3)
		assert.Equal(t, "Sooner", resp[0].Title)
		assert.Equal(t, "Middle", resp[1].Title)
		assert.Equal(t, "Later", resp[2].Title)
	})

	t.Run("upcoming filter hides past events", func(t *testing.T) {
		tc, router := setupAPI(t)

		now := time.Now().UTC()
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Past", now.Add(-24*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Future", now.Add(24*time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/events?upcoming=true", nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Future", resp[0].Title)
	})

	t.Run("filters by date range", func(t *testing.T) {
		tc, router := setupAPI(t)

		now := time.Now().UTC()
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Early", now.Add(24*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Inside", now.Add(96*time.Hour))
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Late", now.Add(240*time.Hour))

		from := now.Add(48 * time.Hour).Format(time.RFC3339)
		to := now.Add(120 * time.Hour).Format(time.RFC3339)
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/events?from="+from+"&to="+to, nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Inside", resp[0].Title)
	})

	t.Run("filters by case", func(t *testing.T) {
		tc, router := setupAPI(t)

		client := testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Acme")
		kase := testutil.CreateTestCase(t, tc.DB, tc.User.ID, tc.Org.ID, client.ID, "2026-510", models.CaseStatusActive)

		linked := testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Linked", time.Now().Add(24*time.Hour))
		require.NoError(t, tc.DB.Model(linked).Update("case_id", kase.ID).Error)
		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Unlinked", time.Now().Add(48*time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/events?case_id="+kase.ID.String(), nil, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Linked", resp[0].Title)
	})

	t.Run("lists only own org events", func(t *testing.T) {
		tc, router := setupAPI(t)

		testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Mine", time.Now().Add(time.Hour))
		otherOrg, otherUser, _ := tc.SecondTenant(t)
		testutil.CreateTestEvent(t, tc.DB, otherUser.ID, otherOrg.ID, "Theirs", time.Now().Add(time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/events", nil, tc.Token)
		rr := serve(router, req)

		var resp []handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Mine", resp[0].Title)
	})
}

func TestEventUpdate(t *testing.T) {
	t.Run("empty case_id detaches the event", func(t *testing.T) {
		tc, router := setupAPI(t)

		client := testutil.CreateTestClient(t, tc.DB, tc.User.ID, tc.Org.ID, "Acme")
		kase := testutil.CreateTestCase(t, tc.DB, tc.User.ID, tc.Org.ID, client.ID, "2026-520", models.CaseStatusActive)
		event := testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Hearing", time.Now().Add(time.Hour))
		require.NoError(t, tc.DB.Model(event).Update("case_id", kase.ID).Error)

		req := testutil.AuthenticatedRequest(t, http.MethodPut, "/api/events/"+event.ID.String(), map[string]string{
			"case_id": "",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Nil(t, resp.CaseID)
	})

	t.Run("partial update keeps start time", func(t *testing.T) {
		tc, router := setupAPI(t)

		starts := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
		event := testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Original", starts)

		req := testutil.AuthenticatedRequest(t, http.MethodPut, "/api/events/"+event.ID.String(), map[string]string{
			"location": "Courtroom 3",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.EventResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Courtroom 3", resp.Location)
		assert.Equal(t, "Original", resp.Title)
		assert.Equal(t, starts.Format(time.RFC3339), resp.StartsAt)
	})

	t.Run("cannot update another org's event", func(t *testing.T) {
		tc, router := setupAPI(t)

		otherOrg, otherUser, _ := tc.SecondTenant(t)
		foreign := testutil.CreateTestEvent(t, tc.DB, otherUser.ID, otherOrg.ID, "Theirs", time.Now().Add(time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodPut, "/api/events/"+foreign.ID.String(), map[string]string{
			"title": "Hijacked",
		}, tc.Token)
		rr := serve(router, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEventDelete(t *testing.T) {
	t.Run("deletes own event", func(t *testing.T) {
		tc, router := setupAPI(t)

		event := testutil.CreateTestEvent(t, tc.DB, tc.User.ID, tc.Org.ID, "Doomed", time.Now().Add(time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/events/"+event.ID.String(), nil, tc.Token)
		rr := serve(router, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var count int64
		tc.DB.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("cannot delete another org's event", func(t *testing.T) {
		tc, router := setupAPI(t)

		otherOrg, otherUser, _ := tc.SecondTenant(t)
		foreign := testutil.CreateTestEvent(t, tc.DB, otherUser.ID, otherOrg.ID, "Protected", time.Now().Add(time.Hour))

		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/events/"+foreign.ID.String(), nil, tc.Token)
		rr := serve(router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		var count int64
		tc.DB.Model(&models.Event{}).Where("id = ?", foreign.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}
