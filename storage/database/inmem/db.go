// Package inmemdb provides map-backed repositories for tests and the
// standalone preview player.
package inmemdb

import (
	"sync"

	"github.com/somolms/somo/core/attempt"
	"github.com/somolms/somo/core/content"
)

type DB struct {
	mutex sync.RWMutex

	packages     map[string]*content.Package // keyed by ID
	attempts     map[string]*attempt.Attempt // keyed by ID
	interactions map[string][]attempt.Interaction
	objectives   map[string][]attempt.Objective
}

func NewDB() *DB {
	return &DB{
		packages:     make(map[string]*content.Package),
		attempts:     make(map[string]*attempt.Attempt),
		interactions: make(map[string][]attempt.Interaction),
		objectives:   make(map[string][]attempt.Objective),
	}
}
