package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/testutil"
)

func offerPayload() map[string]any {
	return map[string]any{
		"title":        "Backend Engineer",
		"description":  "Build and operate backend services",
		"salaryRange":  "60k-80k",
		"remote":       "hybrid",
		"contractType": "full-time",
		"skills":       []string{"go", "postgresql"},
		"company": map[string]any{
			"name":        "Acme",
			"description": "Widgets",
			"location":    "Berlin",
		},
	}
}

func TestCreateJobOffer_RequiresRecruiter(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, userToken := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, recruiterToken := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).BuildAndLogin(t, ts)

	resp := testutil.DoRequest(t, http.MethodPost, ts.APIURL("/create-job-offer"), userToken, offerPayload())
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = testutil.DoRequest(t, http.MethodPost, ts.APIURL("/create-job-offer"), recruiterToken, offerPayload())
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var createResp struct {
		JobOffer domain.JobOffer `json:"jobOffer"`
	}
	testutil.AssertJSONResponse(t, resp, &createResp)
	assert.Equal(t, "Backend Engineer", createResp.JobOffer.Title)
}

func TestApplyToJobOffer_TwiceIsRejected(t *testing.T) {
	ts := testutil.NewTestServer(t)

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, ts.DB.DB)

	url := ts.APIURL("/apply-to-job-offer/" + offer.ID.String())

	resp := testutil.DoRequest(t, http.MethodPut, url, token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = testutil.DoRequest(t, http.MethodPut, url, token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "already applied")
}

func TestFavoriteJobOffer_Toggles(t *testing.T) {
	ts := testutil.NewTestServer(t)

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, ts.DB.DB)

	url := ts.APIURL("/add-favorite-job-offer/" + offer.ID.String())

	var favResp struct {
		Favourited bool `json:"favourited"`
	}

	resp := testutil.DoRequest(t, http.MethodPut, url, token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &favResp)
	assert.True(t, favResp.Favourited)

	resp = testutil.DoRequest(t, http.MethodPut, url, token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &favResp)
	assert.False(t, favResp.Favourited)
}

func TestEditJobOffer_NonOwnerForbidden(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, ts.DB.DB)
	_, otherToken := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).BuildAndLogin(t, ts)
	offer := testutil.NewJobOfferBuilder(owner.ID).Build(t, ts.DB.DB)

	payload := offerPayload()
	payload["title"] = "Hijacked"

	resp := testutil.DoRequest(t, http.MethodPut, ts.APIURL("/edit-job-offer/"+offer.ID.String()), otherToken, payload)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
}

func TestGetAllJobOffers_PublicAndFiltered(t *testing.T) {
	ts := testutil.NewTestServer(t)

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, ts.DB.DB)
	testutil.NewJobOfferBuilder(recruiter.ID).WithTitle("Go Developer").WithSkills("go").Build(t, ts.DB.DB)
	testutil.NewJobOfferBuilder(recruiter.ID).WithTitle("Data Analyst").WithSkills("sql").Build(t, ts.DB.DB)

	var listResp struct {
		JobOffers []domain.JobOffer `json:"jobOffers"`
	}

	// No auth required for listing.
	resp, err := http.Get(ts.APIURL("/get-all-job-offers"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &listResp)
	assert.Len(t, listResp.JobOffers, 2)

	resp, err = http.Get(ts.APIURL("/get-all-job-offers?skill=go"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertJSONResponse(t, resp, &listResp)
	require.Len(t, listResp.JobOffers, 1)
	assert.Equal(t, "Go Developer", listResp.JobOffers[0].Title)

	resp, err = http.Get(ts.APIURL("/get-all-job-offers?title=analyst"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertJSONResponse(t, resp, &listResp)
	require.Len(t, listResp.JobOffers, 1)
	assert.Equal(t, "Data Analyst", listResp.JobOffers[0].Title)
}

func TestGetApplicants_RecruiterOnly(t *testing.T) {
	ts := testutil.NewTestServer(t)

	recruiter, recruiterToken := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).BuildAndLogin(t, ts)
	_, applicantToken := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, ts.DB.DB)

	resp := testutil.DoRequest(t, http.MethodPut, ts.APIURL("/apply-to-job-offer/"+offer.ID.String()), applicantToken, nil)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	url := ts.APIURL("/get-all-applicants-of-a-job-offer/" + offer.ID.String())

	resp = testutil.DoRequest(t, http.MethodGet, url, applicantToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = testutil.DoRequest(t, http.MethodGet, url, recruiterToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var applicantsResp struct {
		Applicants []domain.Applicant `json:"applicants"`
	}
	testutil.AssertJSONResponse(t, resp, &applicantsResp)
	assert.Len(t, applicantsResp.Applicants, 1)
}
