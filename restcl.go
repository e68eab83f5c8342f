package electclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	lbcf "github.com/lidstromberg/config"
	lblog "github.com/lidstromberg/log"

	"golang.org/x/net/context"
)

//RestClient performs the election service operations
type RestClient struct {
	baseURL string
	hc      *http.Client
	anonhc  *http.Client
}

//ElectProvider defines the public operations of the election service client
type ElectProvider interface {
	LoginUser(ctx context.Context, nationalID, password string) (*LoginResponse, error)
	RegisterUser(ctx context.Context, nationalID, password, fullName, email string) (*UserAccount, error)
	ListCandidates(ctx context.Context, pageID, pageSize int32) ([]Candidate, error)
	SubmitVote(ctx context.Context, nationalID, candidateID string) error
	VoteStatus(ctx context.Context, nationalID string) (bool, error)
	ElectionResult(ctx context.Context) ([]Candidate, error)
	ExportResult(ctx context.Context) ([]byte, string, error)
}

//svcError is the error envelope returned by the election service
type svcError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

//bearerTripper attaches the bearer credential to outbound requests
//it reads the session store on every request and omits the header when
//no valid session exists, so a stale token is never sent
type bearerTripper struct {
	ss   *SessStore
	next http.RoundTripper
}

//RoundTrip implements http.RoundTripper
func (bt *bearerTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if !bt.ss.IsValid() {
		return bt.next.RoundTrip(req)
	}

	tok, ok := bt.ss.Token()

	if !ok {
		return bt.next.RoundTrip(req)
	}

	r2 := req.Clone(req.Context())
	r2.Header.Set(ConstAuthHeader, ConstBearerPrefix+tok)

	return bt.next.RoundTrip(r2)
}

//NewRestClient creates an election service client
func NewRestClient(ctx context.Context, bc lbcf.ConfigSetting, ss *SessStore) (*RestClient, error) {
	preflight(ctx, bc)

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "NewRestClient", "info", "start")
	}

	tsec, err := strconv.Atoi(bc.GetConfigValue(ctx, "EnvElectTimeoutSec"))

	if err != nil {
		return nil, err
	}

	rc := &RestClient{
		baseURL: bc.GetConfigValue(ctx, "EnvElectBaseURL"),
		hc: &http.Client{
			Timeout: time.Second * time.Duration(tsec),
			Transport: &bearerTripper{
				ss:   ss,
				next: http.DefaultTransport,
			},
		},
		//login and registration run before any session exists and must
		//never carry a credential
		anonhc: &http.Client{
			Timeout: time.Second * time.Duration(tsec),
		},
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "NewRestClient", "info", "end")
	}

	return rc, nil
}

//LoginUser exchanges credentials for a bearer token and the voter identity
func (rc *RestClient) LoginUser(ctx context.Context, nationalID, password string) (*LoginResponse, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "LoginUser", "info", "start")
	}

	body := map[string]string{
		"national_id": nationalID,
		"password":    password,
	}

	resp, err := rc.postJSON(ctx, rc.anonhc, "/users/login", body)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
		return nil, ErrBadCredentials
	default:
		return nil, fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	var lr LoginResponse

	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "LoginUser", "info", "end")
	}

	return &lr, nil
}

//RegisterUser creates a voter account
func (rc *RestClient) RegisterUser(ctx context.Context, nationalID, password, fullName, email string) (*UserAccount, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "RegisterUser", "info", "start")
	}

	body := map[string]string{
		"national_id": nationalID,
		"password":    password,
		"full_name":   fullName,
		"email":       email,
	}

	resp, err := rc.postJSON(ctx, rc.anonhc, "/users", body)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrVoteRejected, readSvcError(resp.Body))
	default:
		return nil, fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	var usr UserAccount

	if err := json.NewDecoder(resp.Body).Decode(&usr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "RegisterUser", "info", "end")
	}

	return &usr, nil
}

//ListCandidates returns a page of candidates
func (rc *RestClient) ListCandidates(ctx context.Context, pageID, pageSize int32) ([]Candidate, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ListCandidates", "info", "start")
	}

	path := fmt.Sprintf("/api/candidates?page_id=%d&page_size=%d", pageID, pageSize)

	resp, err := rc.get(ctx, path)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	var cands []Candidate

	if err := json.NewDecoder(resp.Body).Decode(&cands); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ListCandidates", "info", "end")
	}

	return cands, nil
}

//SubmitVote submits a candidate choice for a voter
func (rc *RestClient) SubmitVote(ctx context.Context, nationalID, candidateID string) error {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "SubmitVote", "info", "start")
	}

	body := map[string]string{
		"nationalId":  nationalID,
		"candidateId": candidateID,
	}

	resp, err := rc.postJSON(ctx, rc.hc, "/api/vote", body)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		msg := readSvcError(resp.Body)

		//the duplicate-vote refusal is terminal and must never be
		//conflated with a retryable failure
		if msg == "Already voted" {
			return ErrAlreadyVoted
		}

		return fmt.Errorf("%w: %s", ErrVoteRejected, msg)
	default:
		return fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "SubmitVote", "info", "end")
	}

	return nil
}

//VoteStatus reports whether the service holds a recorded vote for the voter
func (rc *RestClient) VoteStatus(ctx context.Context, nationalID string) (bool, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "VoteStatus", "info", "start")
	}

	body := map[string]string{
		"nationalId": nationalID,
	}

	resp, err := rc.postJSON(ctx, rc.hc, "/api/vote/status", body)

	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	var sr struct {
		Status bool `json:"status"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "VoteStatus", "info", "end")
	}

	return sr.Status, nil
}

//ElectionResult returns the per-candidate tallies for aggregation
func (rc *RestClient) ElectionResult(ctx context.Context) ([]Candidate, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ElectionResult", "info", "start")
	}

	resp, err := rc.get(ctx, "/election/result")

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	var cands []Candidate

	if err := json.NewDecoder(resp.Body).Decode(&cands); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ElectionResult", "info", "end")
	}

	return cands, nil
}

//ExportResult returns the exported result blob and its content type
func (rc *RestClient) ExportResult(ctx context.Context) ([]byte, string, error) {
	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ExportResult", "info", "start")
	}

	resp, err := rc.get(ctx, "/election/export")

	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s", ErrSvcUnavailable, readSvcError(resp.Body))
	}

	blob, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	if EnvDebugOn {
		lblog.LogEvent("RestCl", "ExportResult", "info", "end")
	}

	return blob, resp.Header.Get("Content-Type"), nil
}

//postJSON sends a json body and classifies transport failures
func (rc *RestClient) postJSON(ctx context.Context, cl *http.Client, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.baseURL+path, bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.Do(req)

	if err != nil {
		//cancellation is the caller's doing, not a service failure
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	return resp, nil
}

//get sends a get request and classifies transport failures
func (rc *RestClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.baseURL+path, nil)

	if err != nil {
		return nil, err
	}

	resp, err := rc.hc.Do(req)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrSvcUnavailable, err)
	}

	return resp, nil
}

//readSvcError extracts the error message from a service error envelope
func readSvcError(r io.Reader) string {
	var se svcError

	if err := json.NewDecoder(r).Decode(&se); err != nil {
		return "no detail"
	}

	if se.Error == "" {
		return "no detail"
	}

	return se.Error
}
