package electclient

import (
	"sync"
	"time"

	lblog "github.com/lidstromberg/log"

	"github.com/google/uuid"

	"golang.org/x/net/context"
)

//VoteMgr submits votes on behalf of the current identity
type VoteMgr struct {
	cl       *RestClient
	us       *UserStore
	inflight *VoteAttempt
	mtx      sync.Mutex
}

//VoteProvider defines the public operations of a vote manager
type VoteProvider interface {
	Vote(ctx context.Context, candidateID string) (*VoteReceipt, error)
	VoteStatus(ctx context.Context, nationalID string) (VoteState, error)
}

//NewVoteMgr creates a vote manager over the given client and user store
func NewVoteMgr(cl *RestClient, us *UserStore) *VoteMgr {
	return &VoteMgr{
		cl: cl,
		us: us,
	}
}

//Vote submits the current voter's candidate choice
//at most one attempt is in flight per manager; a second call issued while
//one is outstanding is rejected immediately with ErrVoteInFlight
func (vm *VoteMgr) Vote(ctx context.Context, candidateID string) (*VoteReceipt, error) {
	if EnvDebugOn {
		lblog.LogEvent("VoteMgr", "Vote", "info", "start")
	}

	usr := vm.us.Current()

	if usr.IsAnonymous() {
		return nil, ErrNotLoggedIn
	}

	att := &VoteAttempt{
		ID:          uuid.New().String(),
		VoterID:     usr.NationalID,
		CandidateID: candidateID,
		SubmittedAt: time.Now(),
	}

	vm.mtx.Lock()

	if vm.inflight != nil {
		vm.mtx.Unlock()
		return nil, ErrVoteInFlight
	}

	vm.inflight = att
	vm.mtx.Unlock()

	defer func() {
		vm.mtx.Lock()
		if vm.inflight == att {
			vm.inflight = nil
		}
		vm.mtx.Unlock()
	}()

	if err := vm.cl.SubmitVote(ctx, att.VoterID, att.CandidateID); err != nil {
		return nil, err
	}

	rcpt := &VoteReceipt{
		AttemptID:   att.ID,
		VoterID:     att.VoterID,
		CandidateID: att.CandidateID,
		RecordedAt:  time.Now(),
	}

	if EnvDebugOn {
		lblog.LogEvent("VoteMgr", "Vote", "info", "end")
	}

	return rcpt, nil
}

//VoteStatus probes whether the given voter already has a recorded vote
//failures report VoteStatusUnknown, never HasNotVoted
func (vm *VoteMgr) VoteStatus(ctx context.Context, nationalID string) (VoteState, error) {
	if EnvDebugOn {
		lblog.LogEvent("VoteMgr", "VoteStatus", "info", "start")
	}

	voted, err := vm.cl.VoteStatus(ctx, nationalID)

	if err != nil {
		return VoteStatusUnknown, err
	}

	if EnvDebugOn {
		lblog.LogEvent("VoteMgr", "VoteStatus", "info", "end")
	}

	if voted {
		return HasVoted, nil
	}

	return HasNotVoted, nil
}
