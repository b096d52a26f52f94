package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bench_monitor/internal/service"
)

func postJSON(t *testing.T, s *service.Service, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(s).ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123"}
	s := &service.Service{Authorization: auth}

	w := postJSON(t, s, "/auth/sign-up", `{"username":"shift.lead","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up code=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID != 42 {
		t.Fatalf("sign-up body=%s err=%v", w.Body.String(), err)
	}
	if auth.lastSignUpUsername != "shift.lead" || auth.lastSignUpPassword != "hunter22" {
		t.Fatalf("SignUp got %q/%q", auth.lastSignUpUsername, auth.lastSignUpPassword)
	}

	w = postJSON(t, s, "/auth/sign-in", `{"username":"shift.lead","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in code=%d body=%s", w.Code, w.Body.String())
	}
	var signedIn struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signedIn); err != nil || signedIn.Token != "tok123" {
		t.Fatalf("sign-in body=%s err=%v", w.Body.String(), err)
	}
}

func TestAuthHandlers_Failures(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		body    string
		auth    *mockAuth
		code    int
		wantMsg string
	}{
		{name: "sign-up wrong types", path: "/auth/sign-up", body: `{"username":1}`, auth: &mockAuth{}, code: http.StatusBadRequest},
		{name: "sign-in missing password", path: "/auth/sign-in", body: `{"username":"tech"}`, auth: &mockAuth{}, code: http.StatusBadRequest},
		{name: "duplicate user", path: "/auth/sign-up", auth: &mockAuth{signUpErr: service.ErrUserExists}, code: http.StatusConflict, wantMsg: service.ErrUserExists.Error()},
		{name: "bad username", path: "/auth/sign-up", auth: &mockAuth{signUpErr: service.ErrInvalidUsername}, code: http.StatusBadRequest, wantMsg: service.ErrInvalidUsername.Error()},
		{name: "weak password", path: "/auth/sign-up", auth: &mockAuth{signUpErr: service.ErrWeakPassword}, code: http.StatusBadRequest, wantMsg: service.ErrWeakPassword.Error()},
		{name: "sign-up store down", path: "/auth/sign-up", auth: &mockAuth{signUpErr: errors.New("database is locked")}, code: http.StatusInternalServerError, wantMsg: errInternal},
		{name: "bad password", path: "/auth/sign-in", auth: &mockAuth{genTokenErr: service.ErrInvalidPassword}, code: http.StatusUnauthorized, wantMsg: errBadCredentials},
		{name: "unknown user", path: "/auth/sign-in", auth: &mockAuth{genTokenErr: service.ErrUserNotFound}, code: http.StatusUnauthorized, wantMsg: errBadCredentials},
		{name: "sign-in store down", path: "/auth/sign-in", auth: &mockAuth{genTokenErr: errors.New("disk I/O error")}, code: http.StatusInternalServerError, wantMsg: errInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			if body == "" {
				body = `{"username":"tech","password":"hunter22"}`
			}
			w := postJSON(t, &service.Service{Authorization: tc.auth}, tc.path, body)
			if w.Code != tc.code {
				t.Fatalf("code=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
			if tc.wantMsg != "" && errorBody(t, w) != tc.wantMsg {
				t.Fatalf("body=%s, want error %q", w.Body.String(), tc.wantMsg)
			}
		})
	}
}
