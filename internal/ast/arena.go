package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind by value. IDs are 1-based so that the
// zero ID of every node type means "absent".
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Push stores v and returns its ID.
func (a *Arena[T]) Push(v T) uint32 {
	a.items = append(a.items, v)
	id, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("ast: arena of %T full: %w", v, err))
	}
	return id
}

// Get returns the node with id, or nil for 0 and unknown IDs. The pointer
// stays valid only until the next Push.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || int(id) > len(a.items) {
		return nil
	}
	return &a.items[id-1]
}

func (a *Arena[T]) Len() uint32 { return uint32(len(a.items)) }
