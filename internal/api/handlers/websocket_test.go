package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/testutil"
	gorillaWS "github.com/gorilla/websocket"
)

func TestJobOfferFeed_RequiresToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, _, err := gorillaWS.DefaultDialer.Dial(ts.WebSocketURL(""), nil)
	assert.Error(t, err)
}

func TestJobOfferFeed_ClientLeavesDefaultDialerUntouched(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	before := gorillaWS.DefaultDialer.HandshakeTimeout
	testutil.NewWSClient(t, ts.WebSocketURL(token))
	assert.Equal(t, before, gorillaWS.DefaultDialer.HandshakeTimeout)
}

func TestJobOfferFeed_BroadcastsLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	client := testutil.NewWSClient(t, ts.WebSocketURL(token))

	offer, err := ts.Services.JobOffer.Create(ctx, recruiter, service.JobOfferInput{
		Title:        "Backend Engineer",
		Description:  "Build and operate backend services",
		SalaryRange:  "60k-80k",
		Remote:       "hybrid",
		ContractType: "full-time",
		Skills:       []string{"go"},
		Company:      service.CompanyInput{Name: "Acme", Description: "Widgets", Location: "Berlin"},
	})
	require.NoError(t, err)

	created := client.WaitForEvent(realtime.EventJobOfferCreated, 5*time.Second)
	require.NotNil(t, created.JobOffer)
	assert.Equal(t, offer.ID, created.JobOffer.ID)
	// Applicants never ride the feed.
	assert.Empty(t, created.JobOffer.Applicants)

	require.NoError(t, ts.Services.JobOffer.Delete(ctx, recruiter, offer.ID))

	deleted := client.WaitForEvent(realtime.EventJobOfferDeleted, 5*time.Second)
	assert.Equal(t, offer.ID.String(), deleted.JobOfferID)
}
