package electclient

import "time"

//UserAccount is the voter identity represented by the client
type UserAccount struct {
	NationalID        string    `json:"national_id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	PasswordChangedAt time.Time `json:"password_changed_at,omitempty"`
	CreateAt          time.Time `json:"create_at,omitempty"`
}

//AnonymousUser is the sentinel identity for the unauthenticated state
var AnonymousUser = UserAccount{
	NationalID: ConstAnonymousID,
	FullName:   ConstAnonymousName,
}

//IsAnonymous indicates whether the account is the unauthenticated sentinel
func (usr UserAccount) IsAnonymous() bool {
	return usr.NationalID == ConstAnonymousID || usr.FullName == ConstAnonymousName
}

//Candidate is an election candidate snapshot as served by the election service
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dob       string    `json:"dob"`
	BioLink   string    `json:"bio_link"`
	ImageURL  string    `json:"image_url"`
	Policy    string    `json:"policy"`
	VoteCount int32     `json:"vote_count"`
	CreateAt  time.Time `json:"create_at,omitempty"`
}

//LoginResponse is the login result returned by the election service
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiredAt   time.Time   `json:"expired_at"`
	User        UserAccount `json:"user"`
}

//VoteAttempt is one in-flight submission of a candidate choice by a voter
type VoteAttempt struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voterid"`
	CandidateID string    `json:"candidateid"`
	SubmittedAt time.Time `json:"submittedat"`
}

//VoteReceipt confirms a vote accepted by the election service
type VoteReceipt struct {
	AttemptID   string    `json:"attemptid"`
	VoterID     string    `json:"voterid"`
	CandidateID string    `json:"candidateid"`
	RecordedAt  time.Time `json:"recordedat"`
}

//ElectionResultRow is a chart-ready tally row derived from candidate vote counts
type ElectionResultRow struct {
	Name       string  `json:"name"`
	Value      int32   `json:"value"`
	Percentage float64 `json:"percentage"`
}

//ChartPoint is a name/value pair for chart consumers
type ChartPoint struct {
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

//VoteState is the read-only vote status of a voter
type VoteState int

//vote states
const (
	//VoteStatusUnknown indicates the status could not be determined
	VoteStatusUnknown VoteState = iota
	//HasNotVoted indicates the service holds no vote for the voter
	HasNotVoted
	//HasVoted indicates the service holds a recorded vote for the voter
	HasVoted
)

//String returns the display form of the vote state
func (vs VoteState) String() string {
	switch vs {
	case HasNotVoted:
		return "notvoted"
	case HasVoted:
		return "voted"
	default:
		return "unknown"
	}
}
