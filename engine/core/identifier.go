package core

import (
	"fmt"
	"sync"
)

var identifierMutex sync.Mutex
var owners []interface{}

// IdentifierAquireNewID returns the lowest free id and records owner as its
// holder.
func IdentifierAquireNewID(owner interface{}) uint32 {
	identifierMutex.Lock()
	defer identifierMutex.Unlock()

	for i := range owners {
		// Existing free spot. Take it.
		if owners[i] == nil {
			owners[i] = owner
			return uint32(i)
		}
	}

	// No free slot. The new id is the old length.
	owners = append(owners, owner)
	return uint32(len(owners) - 1)
}

// IdentifierReleaseID makes id available again.
func IdentifierReleaseID(id uint32) error {
	identifierMutex.Lock()
	defer identifierMutex.Unlock()

	if int(id) >= len(owners) {
		return fmt.Errorf("identifier_release_id: id '%d' out of range (max=%d). Nothing was done", id, len(owners))
	}

	// Just zero out the entry, making it available for use.
	owners[id] = nil
	return nil
}
