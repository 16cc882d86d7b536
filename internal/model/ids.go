package model

import (
	"fmt"

	"fortio.org/safecast"
)

// ContainerID identifies a container in a Tree arena.
type ContainerID uint32

const (
	// NoContainerID marks the absence of a container reference.
	NoContainerID ContainerID = 0
)

// IsValid reports whether the ID refers to an allocated container.
func (id ContainerID) IsValid() bool { return id != NoContainerID }

func toContainerID(index int) (ContainerID, error) {
	value, err := safecast.Conv[uint32](index)
	if err != nil {
		return NoContainerID, fmt.Errorf("container id overflow: %w", err)
	}
	return ContainerID(value), nil
}
