package topology

import (
	"fmt"
	"sync"
)

// Group simulates a distributed run inside one process. Each participant
// obtains its own Member and calls collectives from its own goroutine.
//
// Broadcasts are matched by sequence: the n-th Broadcast of every member
// belongs to round n, so repeated collectives never mix values.
type Group struct {
	size int

	mu     sync.Mutex
	cond   *sync.Cond
	rounds map[int]*round
}

// round is the shared result of one broadcast.
type round struct {
	value     int
	published bool
	leader    int
	seen      int
}

// NewGroup creates a simulated run with size participants.
// Sizes below 1 are treated as 1.
func NewGroup(size int) *Group {
	if size < 1 {
		size = 1
	}
	g := &Group{
		size:   size,
		rounds: make(map[int]*round),
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Size returns the number of participants.
func (g *Group) Size() int {
	return g.size
}

// Member returns the topology handle for rank. It panics if rank is out of
// range, since a wrong rank is a wiring bug in the caller.
func (g *Group) Member(rank int) *Member {
	if rank < 0 || rank >= g.size {
		panic(fmt.Sprintf("topology: rank %d out of range [0,%d)", rank, g.size))
	}
	return &Member{group: g, rank: rank}
}

// Members returns one handle per rank, in rank order.
func (g *Group) Members() []*Member {
	members := make([]*Member, g.size)
	for i := range members {
		members[i] = g.Member(i)
	}
	return members
}

// Member is one participant of a Group. A Member must only be used from a
// single goroutine.
type Member struct {
	group *Group
	rank  int
	seq   int
}

// Compile-time interface check.
var _ Topology = (*Member)(nil)

// Rank implements Topology.
func (m *Member) Rank() int { return m.rank }

// Size implements Topology.
func (m *Member) Size() int { return m.group.size }

// Distributed implements Topology. A group is distributed even with one
// member, matching a parallel run started on a single process.
func (m *Member) Distributed() bool { return true }

// Broadcast implements Topology.
func (m *Member) Broadcast(value, leader int) (int, error) {
	if leader < 0 || leader >= m.group.size {
		return 0, ErrInvalidRank
	}

	g := m.group
	seq := m.seq
	m.seq++

	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rounds[seq]
	if !ok {
		r = &round{leader: leader}
		g.rounds[seq] = r
	}
	if r.leader != leader {
		return 0, fmt.Errorf("broadcast round %d: leader mismatch (%d vs %d)", seq, r.leader, leader)
	}

	if m.rank == leader {
		r.value = value
		r.published = true
		g.cond.Broadcast()
	}
	for !r.published {
		g.cond.Wait()
	}

	result := r.value
	r.seen++
	if r.seen == g.size {
		delete(g.rounds, seq)
	}
	return result, nil
}
