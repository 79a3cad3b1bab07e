// Package topology describes the distributed run a collection participates in.
//
// A run is a fixed-size group of cooperating participants. Each participant
// knows its own rank, the group size, and can take part in a broadcast from a
// designated leader. The only collective the collection issues is Broadcast,
// used to publish the outcome of directory creation.
package topology

import "errors"

// Leader is the rank that performs singleton actions by convention.
const Leader = 0

// ErrInvalidRank indicates a rank outside [0, size).
var ErrInvalidRank = errors.New("rank out of range")

// Topology is the view a single participant has of its distributed run.
type Topology interface {
	// Rank returns this participant's id in [0, Size()).
	Rank() int

	// Size returns the number of participants.
	Size() int

	// Distributed reports whether the run spans more than a single,
	// independent process. A serial topology never blocks in Broadcast.
	Distributed() bool

	// Broadcast is a collective call. The participant whose rank equals
	// leader supplies value; every participant, leader included, returns
	// the leader's value. Followers block until the leader has published.
	Broadcast(value, leader int) (int, error)
}

// Serial is the topology of a single, non-distributed process.
type Serial struct{}

// Compile-time interface check.
var _ Topology = Serial{}

// Rank always returns 0.
func (Serial) Rank() int { return 0 }

// Size always returns 1.
func (Serial) Size() int { return 1 }

// Distributed always returns false.
func (Serial) Distributed() bool { return false }

// Broadcast returns value unchanged.
func (Serial) Broadcast(value, leader int) (int, error) {
	if leader != 0 {
		return 0, ErrInvalidRank
	}
	return value, nil
}
