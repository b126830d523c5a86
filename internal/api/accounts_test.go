package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProtectedRoutesUniformDenial(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	user := createAccount(t, srv, "plain@example.com", "secret-password", false)
	plainToken := sessionToken(t, srv, user.ID)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/info"},
		{http.MethodGet, "/auth/info/" + user.ID},
		{http.MethodGet, "/auth/all"},
		{http.MethodPost, "/auth/authorise/" + user.ID},
		{http.MethodPost, "/auth/deauthorise/" + user.ID},
	}

	// No token, garbage token, wrong scheme: always the same 403.
	tokens := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "garbage"},
		{"deleted account", sessionToken(t, srv, "usr-gone0000")},
	}

	for _, route := range routes {
		for _, tok := range tokens {
			t.Run(route.path+"/"+tok.name, func(t *testing.T) {
				w := doJSON(t, router, route.method, route.path, tok.token, nil)
				if w.Code != http.StatusForbidden {
					t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
				}
				if !strings.Contains(w.Body.String(), "access denied") {
					t.Errorf("body = %s, want uniform access denied", w.Body.String())
				}
			})
		}
	}

	// A valid session without the needed permission gets the identical
	// response on gated routes.
	for _, path := range []string{"/auth/all", "/auth/info/" + user.ID} {
		w := doJSON(t, router, http.MethodGet, path, plainToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusForbidden)
		}
		if !strings.Contains(w.Body.String(), "access denied") {
			t.Errorf("%s: body = %s, want uniform access denied", path, w.Body.String())
		}
	}
}

func TestWrongAuthorizationScheme(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	user := createAccount(t, srv, "scheme@example.com", "secret-password", false)
	token := sessionToken(t, srv, user.ID)

	// A valid token under the wrong scheme is still denied. The prefix
	// match is exact, including case.
	for _, header := range []string{"Token " + token, "bearer " + token, token} {
		req := httptest.NewRequest(http.MethodGet, "/auth/info", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("header %q: status = %d, want %d", header, w.Code, http.StatusForbidden)
		}
	}
}

func TestHandleGetAccountWithGrant(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	viewer := createAccount(t, srv, "viewer@example.com", "secret-password", false)
	target := createAccount(t, srv, "target@example.com", "secret-password", false)
	grantAuthorisation(t, srv, viewer.ID, "auth-info")

	token := sessionToken(t, srv, viewer.ID)

	w := doJSON(t, router, http.MethodGet, "/auth/info/"+target.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["id"] != target.ID {
		t.Errorf("id = %v, want %s", resp["id"], target.ID)
	}
	if strings.Contains(w.Body.String(), "argon2id") {
		t.Error("response body contains a password hash")
	}

	// Unknown target id is a business failure, not a denial.
	w = doJSON(t, router, http.MethodGet, "/auth/info/usr-missing1", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing target status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "account does not exist") {
		t.Errorf("body = %s, want account-does-not-exist message", w.Body.String())
	}
}

func TestHandleListAccounts(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	admin := createAccount(t, srv, "admin@example.com", "secret-password", true)
	createAccount(t, srv, "user1@example.com", "secret-password", false)
	createAccount(t, srv, "user2@example.com", "secret-password", false)

	// Admins hold every permission, auth-info included.
	token := sessionToken(t, srv, admin.ID)
	w := doJSON(t, router, http.MethodGet, "/auth/all", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Users []map[string]any `json:"users"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 3 || len(resp.Users) != 3 {
		t.Errorf("count = %d, users = %d, want 3", resp.Count, len(resp.Users))
	}
	if strings.Contains(w.Body.String(), "argon2id") {
		t.Error("list response contains a password hash")
	}
}

func TestGrantEnablesList(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	admin := createAccount(t, srv, "admin@example.com", "secret-password", true)
	user := createAccount(t, srv, "user@example.com", "secret-password", false)

	adminToken := sessionToken(t, srv, admin.ID)
	userToken := sessionToken(t, srv, user.ID)

	// Denied before the grant.
	if w := doJSON(t, router, http.MethodGet, "/auth/all", userToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("pre-grant status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w := doJSON(t, router, http.MethodPost, "/auth/authorise/"+user.ID, adminToken, map[string]string{
		"authorisation": "auth-info",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("grant status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["authorisation"] != "auth-info" {
		t.Errorf("authorisation = %q, want auth-info", resp["authorisation"])
	}

	// The same token works immediately; permissions are read fresh per
	// request, not baked into the session.
	if w := doJSON(t, router, http.MethodGet, "/auth/all", userToken, nil); w.Code != http.StatusOK {
		t.Errorf("post-grant status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestHandleAuthoriseFailures(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	admin := createAccount(t, srv, "admin@example.com", "secret-password", true)
	user := createAccount(t, srv, "user@example.com", "secret-password", false)
	adminToken := sessionToken(t, srv, admin.ID)

	// Non-admin caller is denied even with a valid session.
	userToken := sessionToken(t, srv, user.ID)
	if w := doJSON(t, router, http.MethodPost, "/auth/authorise/"+admin.ID, userToken, map[string]string{
		"authorisation": "auth-info",
	}); w.Code != http.StatusForbidden {
		t.Errorf("non-admin grant status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Missing body field.
	if w := doJSON(t, router, http.MethodPost, "/auth/authorise/"+user.ID, adminToken, map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	// Unknown target.
	w := doJSON(t, router, http.MethodPost, "/auth/authorise/usr-missing1", adminToken, map[string]string{
		"authorisation": "auth-info",
	})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "account does not exist") {
		t.Errorf("missing target: status = %d, body = %s", w.Code, w.Body.String())
	}

	// Double grant.
	body := map[string]string{"authorisation": "reports"}
	if w := doJSON(t, router, http.MethodPost, "/auth/authorise/"+user.ID, adminToken, body); w.Code != http.StatusOK {
		t.Fatalf("first grant status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/auth/authorise/"+user.ID, adminToken, body)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "already authorised") {
		t.Errorf("double grant: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestHandleDeauthorise(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	admin := createAccount(t, srv, "admin@example.com", "secret-password", true)
	user := createAccount(t, srv, "user@example.com", "secret-password", false)
	grantAuthorisation(t, srv, user.ID, "reports")

	adminToken := sessionToken(t, srv, admin.ID)

	w := doJSON(t, router, http.MethodPost, "/auth/deauthorise/"+user.ID, adminToken, map[string]string{
		"authorisation": "reports",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("revoke status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["authorisation"] != "reports" {
		t.Errorf("authorisation = %q, want reports", resp["authorisation"])
	}

	// Revoking again fails: the account no longer holds the grant.
	w = doJSON(t, router, http.MethodPost, "/auth/deauthorise/"+user.ID, adminToken, map[string]string{
		"authorisation": "reports",
	})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "not authorised") {
		t.Errorf("double revoke: status = %d, body = %s", w.Code, w.Body.String())
	}

	// Unknown target gets its own message.
	w = doJSON(t, router, http.MethodPost, "/auth/deauthorise/usr-missing1", adminToken, map[string]string{
		"authorisation": "reports",
	})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "account does not exist") {
		t.Errorf("missing target: status = %d, body = %s", w.Code, w.Body.String())
	}

	// Non-admin revoke is denied.
	userToken := sessionToken(t, srv, user.ID)
	if w := doJSON(t, router, http.MethodPost, "/auth/deauthorise/"+admin.ID, userToken, map[string]string{
		"authorisation": "reports",
	}); w.Code != http.StatusForbidden {
		t.Errorf("non-admin revoke status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
