package electclient

import (
	lblog "github.com/lidstromberg/log"

	"golang.org/x/net/context"
)

//AuthMgr coordinates login and logout across the session and user stores
type AuthMgr struct {
	cl *RestClient
	ss *SessStore
	us *UserStore
}

//AuthProvider defines the public operations of an auth manager
type AuthProvider interface {
	Login(ctx context.Context, nationalID, password string) (*UserAccount, error)
	Logout(ctx context.Context) error
	IsLoggedIn() bool
	IsLoggedOut() bool
}

//NewAuthMgr creates an auth manager over the given client and stores
func NewAuthMgr(cl *RestClient, ss *SessStore, us *UserStore) *AuthMgr {
	return &AuthMgr{
		cl: cl,
		ss: ss,
		us: us,
	}
}

//Login authenticates the voter and, on success, populates the session store
//and broadcasts the identity; on failure both stores are left untouched
func (am *AuthMgr) Login(ctx context.Context, nationalID, password string) (*UserAccount, error) {
	if EnvDebugOn {
		lblog.LogEvent("AuthMgr", "Login", "info", "start")
	}

	lr, err := am.cl.LoginUser(ctx, nationalID, password)

	if err != nil {
		return nil, err
	}

	if err := am.ss.Set(ctx, lr.AccessToken, lr.ExpiredAt); err != nil {
		return nil, err
	}

	am.us.SetCurrent(lr.User)

	if EnvDebugOn {
		lblog.LogEvent("AuthMgr", "Login", "info", "end")
	}

	return &lr.User, nil
}

//Logout clears the session store and resets the identity to the anonymous
//sentinel in the same call, so callers never observe a half-logged-out state
func (am *AuthMgr) Logout(ctx context.Context) error {
	if EnvDebugOn {
		lblog.LogEvent("AuthMgr", "Logout", "info", "start")
	}

	err := am.ss.Clear(ctx)

	//the identity resets even if the mirror removal failed; the session
	//itself is gone either way
	am.us.SetCurrent(AnonymousUser)

	if EnvDebugOn {
		lblog.LogEvent("AuthMgr", "Logout", "info", "end")
	}

	return err
}

//IsLoggedIn indicates whether a valid session exists
func (am *AuthMgr) IsLoggedIn() bool {
	return am.ss.IsValid()
}

//IsLoggedOut indicates whether no valid session exists
func (am *AuthMgr) IsLoggedOut() bool {
	return !am.IsLoggedIn()
}
