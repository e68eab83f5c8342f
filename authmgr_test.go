package electclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	context "golang.org/x/net/context"
)

//fakeLoginHandler serves the login endpoint for a single known voter
func fakeLoginHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NationalID string `json:"national_id"`
			Password   string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if req.NationalID != "123" || req.Password != "p" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(svcError{Status: "error", Error: "unauthorized"})
			return
		}

		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "tok",
			ExpiredAt:   time.Now().Add(time.Hour),
			User: UserAccount{
				NationalID: "123",
				FullName:   "Alice",
				Email:      "alice@electiontest.com",
			},
		})
	})

	return mux
}

func Test_LoginSuccess(t *testing.T) {
	ctx := context.Background()

	am, _, ss, us := createManagers(ctx, t, fakeLoginHandler(t))

	if am.IsLoggedIn() {
		t.Fatal("should not be logged in before login")
	}

	usr, err := am.Login(ctx, "123", "p")

	if err != nil {
		t.Fatal(err)
	}

	if usr.FullName != "Alice" {
		t.Fatalf("expected Alice, got %s", usr.FullName)
	}

	if !am.IsLoggedIn() {
		t.Fatal("should be logged in after login")
	}

	if us.Current().FullName != "Alice" {
		t.Fatal("identity store should hold the logged in voter")
	}

	tok, _ := ss.Token()

	if tok != "tok" {
		t.Fatal("session store should hold the access token")
	}
}

func Test_LoginBadCredentials(t *testing.T) {
	ctx := context.Background()

	am, _, ss, us := createManagers(ctx, t, fakeLoginHandler(t))

	_, err := am.Login(ctx, "123", "wrong")

	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}

	//a failed login leaves both stores untouched
	if am.IsLoggedIn() {
		t.Fatal("should not be logged in after a rejected login")
	}

	if _, ok := ss.Token(); ok {
		t.Fatal("session store should be empty after a rejected login")
	}

	if !us.Current().IsAnonymous() {
		t.Fatal("identity should remain anonymous after a rejected login")
	}
}

func Test_LoginTransientFailure(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	am, _, _, us := createManagers(ctx, t, mux)

	_, err := am.Login(ctx, "123", "p")

	if !IsTransient(err) {
		t.Fatalf("expected a transient failure, got %v", err)
	}

	if !us.Current().IsAnonymous() {
		t.Fatal("identity should remain anonymous after a transient failure")
	}
}

func Test_LogoutResetsIdentity(t *testing.T) {
	ctx := context.Background()

	am, _, _, us := createManagers(ctx, t, fakeLoginHandler(t))

	if _, err := am.Login(ctx, "123", "p"); err != nil {
		t.Fatal(err)
	}

	if err := am.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	if am.IsLoggedIn() {
		t.Fatal("should be logged out after logout")
	}

	if !am.IsLoggedOut() {
		t.Fatal("IsLoggedOut should report true after logout")
	}

	//logout resets the identity atomically, no caller-side reload needed
	if !us.Current().IsAnonymous() {
		t.Fatal("identity should reset to anonymous on logout")
	}
}

func Test_LogoutTokenNeverReattached(t *testing.T) {
	ctx := context.Background()

	var lastAuth string

	mux := http.NewServeMux()
	mux.Handle("/users/login", fakeLoginHandler(t))
	mux.HandleFunc("/api/candidates", func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get(ConstAuthHeader)
		json.NewEncoder(w).Encode([]Candidate{})
	})

	am, _, _, _ := createManagers(ctx, t, mux)

	if _, err := am.Login(ctx, "123", "p"); err != nil {
		t.Fatal(err)
	}

	rc := am.cl

	if _, err := rc.ListCandidates(ctx, 1, 10); err != nil {
		t.Fatal(err)
	}

	if lastAuth != ConstBearerPrefix+"tok" {
		t.Fatalf("expected bearer credential, got %q", lastAuth)
	}

	if err := am.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := rc.ListCandidates(ctx, 1, 10); err != nil {
		t.Fatal(err)
	}

	//the cleared token must not reappear on later requests
	if lastAuth != "" {
		t.Fatalf("expected no credential after logout, got %q", lastAuth)
	}
}
