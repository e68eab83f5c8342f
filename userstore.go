package electclient

import (
	"sync"

	lblog "github.com/lidstromberg/log"
)

//UserStore broadcasts the current voter identity to any number of subscribers
type UserStore struct {
	current UserAccount
	feeds   map[int]*userFeed
	nextID  int
	down    bool
	mtx     sync.Mutex
}

//UserProvider defines the public operations of a user store
type UserProvider interface {
	SetCurrent(usr UserAccount)
	Current() UserAccount
	Subscribe() (<-chan UserAccount, func())
	Teardown()
}

//userFeed is one subscriber's ordered delivery queue
type userFeed struct {
	ch      chan UserAccount
	pending []UserAccount
	kick    chan struct{}
	done    chan struct{}
	stop    sync.Once
}

//terminate ends the feed exactly once
func (uf *userFeed) terminate() {
	uf.stop.Do(func() {
		close(uf.done)
	})
}

//NewUserStore creates a user store holding the anonymous sentinel identity
func NewUserStore() *UserStore {
	return &UserStore{
		current: AnonymousUser,
		feeds:   make(map[int]*userFeed),
	}
}

//Current returns the last identity value synchronously
func (us *UserStore) Current() UserAccount {
	us.mtx.Lock()
	defer us.mtx.Unlock()

	return us.current
}

//SetCurrent replaces the current identity and queues it to every feed
//last-write-wins; subscribers observe values in call order
func (us *UserStore) SetCurrent(usr UserAccount) {
	us.mtx.Lock()
	defer us.mtx.Unlock()

	if us.down {
		if EnvDebugOn {
			lblog.LogEvent("UserStore", "SetCurrent", "warn", ErrStoreTornDown.Error())
		}
		return
	}

	us.current = usr

	for _, uf := range us.feeds {
		uf.pending = append(uf.pending, usr)

		select {
		case uf.kick <- struct{}{}:
		default:
		}
	}
}

//Subscribe returns a feed of every subsequent identity value, starting with
//the current one, and a cancel function which ends the feed
func (us *UserStore) Subscribe() (<-chan UserAccount, func()) {
	if EnvDebugOn {
		lblog.LogEvent("UserStore", "Subscribe", "info", "start")
	}

	uf := &userFeed{
		ch:   make(chan UserAccount),
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	us.mtx.Lock()

	if us.down {
		us.mtx.Unlock()
		close(uf.ch)
		return uf.ch, func() {}
	}

	id := us.nextID
	us.nextID++

	//replay-of-one: the queue is seeded under the same lock that orders
	//SetCurrent, so the feed is the exact suffix from registration onward
	uf.pending = append(uf.pending, us.current)
	us.feeds[id] = uf

	us.mtx.Unlock()

	go us.deliver(id, uf)

	if EnvDebugOn {
		lblog.LogEvent("UserStore", "Subscribe", "info", "end")
	}

	return uf.ch, uf.terminate
}

//Teardown terminates every feed and makes the store single-use
func (us *UserStore) Teardown() {
	if EnvDebugOn {
		lblog.LogEvent("UserStore", "Teardown", "info", "start")
	}

	us.mtx.Lock()

	if us.down {
		us.mtx.Unlock()
		return
	}

	us.down = true

	fds := make([]*userFeed, 0, len(us.feeds))

	for _, uf := range us.feeds {
		fds = append(fds, uf)
	}

	us.mtx.Unlock()

	for _, uf := range fds {
		uf.terminate()
	}

	if EnvDebugOn {
		lblog.LogEvent("UserStore", "Teardown", "info", "end")
	}
}

//deliver drains a feed's queue into its channel in order
func (us *UserStore) deliver(id int, uf *userFeed) {
	defer func() {
		us.mtx.Lock()
		delete(us.feeds, id)
		us.mtx.Unlock()

		close(uf.ch)
	}()

	for {
		us.mtx.Lock()
		pend := uf.pending
		uf.pending = nil
		us.mtx.Unlock()

		for _, usr := range pend {
			select {
			case uf.ch <- usr:
			case <-uf.done:
				return
			}
		}

		select {
		case <-uf.kick:
		case <-uf.done:
			return
		}
	}
}
