package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/testutil"
)

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(raw))
	require.NoError(t, err)
	return resp
}

func TestRegistrationFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := postJSON(t, http.DefaultClient, ts.APIURL("/registration"), map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "password123",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var regResp struct {
		Success         bool   `json:"success"`
		ActivationToken string `json:"activationToken"`
	}
	testutil.AssertJSONResponse(t, resp, &regResp)
	assert.True(t, regResp.Success)
	require.NotEmpty(t, regResp.ActivationToken)

	code := ts.Mailer.LastActivationCode()
	require.Len(t, code, 4)

	// Wrong code is rejected and still creates nothing.
	wrongCode := "0000"
	resp = postJSON(t, http.DefaultClient, ts.APIURL("/activate-user"), map[string]string{
		"activation_token": regResp.ActivationToken,
		"activation_code":  wrongCode,
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid activation code")

	resp = postJSON(t, http.DefaultClient, ts.APIURL("/activate-user"), map[string]string{
		"activation_token": regResp.ActivationToken,
		"activation_code":  code,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var actResp struct {
		User domain.User `json:"user"`
	}
	testutil.AssertJSONResponse(t, resp, &actResp)
	assert.Equal(t, "ada@example.com", actResp.User.Email)
	assert.True(t, actResp.User.IsVerified)
}

func TestLogin_SetsCookies(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := postJSON(t, http.DefaultClient, ts.APIURL("/login-user"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.True(t, cookies["refreshToken"].HttpOnly)

	var loginResp struct {
		AccessToken string `json:"accessToken"`
	}
	testutil.AssertJSONResponse(t, resp, &loginResp)

	id, err := ts.Tokens.VerifyAccessToken(loginResp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := postJSON(t, http.DefaultClient, ts.APIURL("/login-user"), map[string]string{
		"email":    user.Email,
		"password": "not-the-password",
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid email or password")
}

func TestMe_RequiresAuthentication(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "You are not logged in")
}

func TestMe_WithBearerToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := testutil.DoRequest(t, http.MethodGet, ts.APIURL("/me"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var meResp struct {
		User domain.User `json:"user"`
	}
	testutil.AssertJSONResponse(t, resp, &meResp)
	assert.Equal(t, user.Email, meResp.User.Email)
}

// Logout invalidates the cached session, so a cookie that is still
// cryptographically valid stops working everywhere, refresh included.
func TestLogoutRevokesSessionAndRefresh(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, ts.APIURL("/login-user"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = client.Get(ts.APIURL("/me"))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = client.Get(ts.APIURL("/logout"))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = client.Get(ts.APIURL("/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)

	// Logout cleared the cookies, so the refresh has nothing to send.
	resp, err = client.Get(ts.APIURL("/refresh-token"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

// A refresh token that survives logout (e.g. a stolen copy) is refused
// because the session entry is gone.
func TestRefreshToken_AfterLogoutWithRetainedCookie(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := postJSON(t, http.DefaultClient, ts.APIURL("/login-user"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var refreshCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie)

	require.NoError(t, ts.Sessions.Delete(context.Background(), user.ID))

	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/refresh-token"), nil)
	require.NoError(t, err)
	req.AddCookie(refreshCookie)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Please login to access this resource")
}

func TestRefreshToken_UnverifiableTokenIsBadRequest(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/refresh-token"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "not-a-valid-jwt"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Could not refresh token")
}

func TestRefreshToken_WithLiveSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, ts.APIURL("/login-user"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = client.Get(ts.APIURL("/refresh-token"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var refreshResp struct {
		AccessToken string `json:"accessToken"`
	}
	testutil.AssertJSONResponse(t, resp, &refreshResp)

	id, err := ts.Tokens.VerifyAccessToken(refreshResp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, userToken := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	resp := testutil.DoRequest(t, http.MethodGet, ts.APIURL("/get-all-users"), userToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = testutil.DoRequest(t, http.MethodGet, ts.APIURL("/get-all-users"), adminToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
