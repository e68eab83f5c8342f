package electclient

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	lbcf "github.com/lidstromberg/config"

	context "golang.org/x/net/context"
)

//createTestConfig prepares the environment and returns a config for tests
func createTestConfig(ctx context.Context, t *testing.T, baseURL string) lbcf.ConfigSetting {
	os.Setenv("LB_DEBUGON", "false")
	os.Setenv("ELECT_BASEURL", baseURL)
	os.Setenv("ELECT_SESSFILE", filepath.Join(t.TempDir(), "sess.json"))
	os.Setenv("ELECT_TIMEOUTSEC", "5")

	return lbcf.NewConfig(ctx)
}

//createManagers builds the full client stack against a fake election service
func createManagers(ctx context.Context, t *testing.T, handler http.Handler) (*AuthMgr, *VoteMgr, *SessStore, *UserStore) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	bc := createTestConfig(ctx, t, srv.URL)

	ss, err := NewSessStore(ctx, bc)

	if err != nil {
		t.Fatal(err)
	}

	us := NewUserStore()

	rc, err := NewRestClient(ctx, bc, ss)

	if err != nil {
		t.Fatal(err)
	}

	return NewAuthMgr(rc, ss, us), NewVoteMgr(rc, us), ss, us
}
