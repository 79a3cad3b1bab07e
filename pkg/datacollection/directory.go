package datacollection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// DirectoryCoordinator creates output directories exactly once per run.
//
// The leader of a distributed topology performs the creation and broadcasts
// the outcome; followers wait for the broadcast before returning, so no
// participant writes into a directory that does not exist yet. Without a
// distributed topology the caller creates the directory itself.
type DirectoryCoordinator struct {
	// Mkdir creates a directory. Defaults to os.MkdirAll.
	Mkdir func(path string, perm os.FileMode) error
}

// Ensure makes sure path exists on every participant of topo.
// An existing directory counts as success.
func (d DirectoryCoordinator) Ensure(path string, topo topology.Topology) error {
	distributed := topo != nil && topo.Distributed()

	var cause error
	failed := 0
	if !distributed || topo.Rank() == topology.Leader {
		if cause = d.mkdir(path); cause != nil {
			failed = 1
		}
	}

	if distributed {
		outcome, err := topo.Broadcast(failed, topology.Leader)
		if err != nil {
			return fmt.Errorf("%w: broadcast directory status: %v", ErrWrite, err)
		}
		failed = outcome
	}

	if failed != 0 {
		if cause == nil {
			cause = errors.New("leader failed to create directory")
		}
		return fmt.Errorf("%w: create directory %s: %v", ErrWrite, path, cause)
	}
	return nil
}

func (d DirectoryCoordinator) mkdir(path string) error {
	mkdir := d.Mkdir
	if mkdir == nil {
		mkdir = os.MkdirAll
	}
	err := mkdir(path, 0o777)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	return err
}
