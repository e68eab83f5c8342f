package electclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	lbcf "github.com/lidstromberg/config"
	lblog "github.com/lidstromberg/log"

	jwt "github.com/golang-jwt/jwt/v4"

	"golang.org/x/net/context"
)

//SessStore holds the current bearer token and its expiry instant
type SessStore struct {
	token     string
	expiresAt time.Time
	sessFile  string
	mtx       sync.RWMutex
}

//SessProvider defines the public operations of a session store
type SessProvider interface {
	Set(ctx context.Context, token string, expiresAt time.Time) error
	Clear(ctx context.Context) error
	IsValid() bool
	Expiry() (time.Time, bool)
	Token() (string, bool)
}

//sessRecord is the durable mirror of the session, written as an atomic pair
type sessRecord struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

//NewSessStore creates a session store and restores the durable mirror if one exists
func NewSessStore(ctx context.Context, bc lbcf.ConfigSetting) (*SessStore, error) {
	preflight(ctx, bc)

	if EnvDebugOn {
		lblog.LogEvent("SessStore", "NewSessStore", "info", "start")
	}

	ss := &SessStore{
		sessFile: bc.GetConfigValue(ctx, "EnvElectSessFile"),
	}

	//the mirror is read once at process start, never polled afterwards
	if err := ss.restore(); err != nil {
		return nil, err
	}

	if EnvDebugOn {
		lblog.LogEvent("SessStore", "NewSessStore", "info", "end")
	}

	return ss, nil
}

//Set stores the token and expiry and writes the durable mirror as a pair
func (ss *SessStore) Set(ctx context.Context, token string, expiresAt time.Time) error {
	if EnvDebugOn {
		lblog.LogEvent("SessStore", "Set", "info", "start")
	}

	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	//persist first, so the store is never ahead of its mirror
	if err := ss.persist(token, expiresAt); err != nil {
		return err
	}

	ss.token = token
	ss.expiresAt = expiresAt

	if EnvDebugOn {
		lblog.LogEvent("SessStore", "Set", "info", "end")
	}

	return nil
}

//Clear removes the session and its durable mirror as a pair
func (ss *SessStore) Clear(ctx context.Context) error {
	if EnvDebugOn {
		lblog.LogEvent("SessStore", "Clear", "info", "start")
	}

	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	if err := os.Remove(ss.sessFile); err != nil && !os.IsNotExist(err) {
		return err
	}

	ss.token = ""
	ss.expiresAt = time.Time{}

	if EnvDebugOn {
		lblog.LogEvent("SessStore", "Clear", "info", "end")
	}

	return nil
}

//IsValid indicates whether a session is present and the current instant is before its expiry
//expiry is evaluated on each call, never cached
func (ss *SessStore) IsValid() bool {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	if ss.token == "" {
		return false
	}

	return time.Now().Before(ss.expiresAt)
}

//Expiry returns the expiry instant, or false if no session is present
func (ss *SessStore) Expiry() (time.Time, bool) {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	if ss.token == "" {
		return time.Time{}, false
	}

	return ss.expiresAt, true
}

//Token returns the bearer token, or false if no session is present
func (ss *SessStore) Token() (string, bool) {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	if ss.token == "" {
		return "", false
	}

	return ss.token, true
}

//persist writes the token/expiry pair to a temp file and renames it into place
func (ss *SessStore) persist(token string, expiresAt time.Time) error {
	rec := sessRecord{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	dir := filepath.Dir(ss.sessFile)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return ErrSessNotSaved
	}

	tmp, err := os.CreateTemp(dir, "sess*.tmp")
	if err != nil {
		return ErrSessNotSaved
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return ErrSessNotSaved
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return ErrSessNotSaved
	}

	//rename keeps the token/expiry pair atomic: the mirror is either the
	//old pair or the new pair, never a mix
	if err := os.Rename(tmp.Name(), ss.sessFile); err != nil {
		os.Remove(tmp.Name())
		return ErrSessNotSaved
	}

	return nil
}

//restore loads the durable mirror into the store
func (ss *SessStore) restore() error {
	data, err := os.ReadFile(ss.sessFile)

	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var rec sessRecord

	if err := json.Unmarshal(data, &rec); err != nil {
		//a corrupt mirror is treated as no session rather than a fault
		if EnvDebugOn {
			lblog.LogEvent("SessStore", "restore", "warn", err.Error())
		}
		return nil
	}

	//a token without an expiry would tear the session invariant, so try
	//to recover the expiry from the token claims before giving up
	if rec.Token != "" && rec.ExpiresAt == 0 {
		if exp, ok := tokenExpiry(rec.Token); ok {
			rec.ExpiresAt = exp.UnixMilli()
		} else {
			return nil
		}
	}

	if rec.Token == "" {
		return nil
	}

	ss.token = rec.Token
	ss.expiresAt = time.UnixMilli(rec.ExpiresAt)

	return nil
}

//tokenExpiry extracts the expiry claim from a jwt bearer token
//the client holds no verification key, so the claims are read unverified
//and are only ever used to fill a missing expiry, never to extend one
func tokenExpiry(tokenstr string) (time.Time, bool) {
	clms := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenstr, clms); err != nil {
		return time.Time{}, false
	}

	exp, ok := clms[ConstJwtExp].(float64)

	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
