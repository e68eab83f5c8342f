package electclient

import "errors"

//errors
var (
	//ErrBadCredentials occurs if the login was rejected by the election service
	ErrBadCredentials = errors.New("login was rejected, check national id and password")
	//ErrNotLoggedIn occurs if a protected operation runs without an authenticated voter
	ErrNotLoggedIn = errors.New("no authenticated voter, please login")
	//ErrAlreadyVoted occurs if the election service already holds a vote for the voter
	ErrAlreadyVoted = errors.New("a vote has already been recorded for this voter")
	//ErrVoteInFlight occurs if a vote submission is issued while another is outstanding
	ErrVoteInFlight = errors.New("a vote submission is already in progress")
	//ErrVoteRejected occurs if the election service refused the vote for a reason other than a duplicate
	ErrVoteRejected = errors.New("the vote was refused by the election service")
	//ErrSvcUnavailable error message
	ErrSvcUnavailable = errors.New("the election service is unavailable, please retry")
	//ErrSessNotSaved occurs if the durable session mirror could not be written
	ErrSessNotSaved = errors.New("the session could not be persisted")
	//ErrStoreTornDown occurs if the user store is used after teardown
	ErrStoreTornDown = errors.New("the user store has been torn down")
)

//IsTransient indicates whether the failure is safe to retry by re-invocation
func IsTransient(err error) bool {
	return errors.Is(err, ErrSvcUnavailable)
}
