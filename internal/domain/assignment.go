package domain

// Unassigned marks an assignment entry whose agent received no resource in
// that dimension. It is never a valid resource index.
const Unassigned = -1

// Allocation is the (topic, slot) pair held by one agent.
type Allocation struct {
	Topic int `json:"topic"`
	Slot  int `json:"slot"`
}

// Resource returns the resource index held in dim.
func (a Allocation) Resource(dim Dimension) int {
	if dim == DimensionSlot {
		return a.Slot
	}
	return a.Topic
}

// Assignment maps agent id (the slice index) to its allocation.
type Assignment []Allocation

// NewAssignment returns an assignment for n agents with every entry set to
// Unassigned in both dimensions.
func NewAssignment(n int) Assignment {
	a := make(Assignment, n)
	for i := range a {
		a[i] = Allocation{Topic: Unassigned, Slot: Unassigned}
	}
	return a
}

// Set stores resource for agent in dim.
func (a Assignment) Set(agent int, dim Dimension, resource int) {
	if dim == DimensionSlot {
		a[agent].Slot = resource
		return
	}
	a[agent].Topic = resource
}

// Complete reports whether every agent holds a resource in both dimensions.
func (a Assignment) Complete() bool {
	return a.FirstUnassigned() == nil
}

// FirstUnassigned returns an *UnassignedError for the lowest agent id still
// holding the sentinel, topics checked before slots, or nil.
func (a Assignment) FirstUnassigned() *UnassignedError {
	for agent, alloc := range a {
		if alloc.Topic == Unassigned {
			return NewUnassignedError(agent, DimensionTopic)
		}
		if alloc.Slot == Unassigned {
			return NewUnassignedError(agent, DimensionSlot)
		}
	}
	return nil
}

// Injective reports whether no two agents share a topic and no two agents
// share a slot. Unassigned entries are ignored.
func (a Assignment) Injective() bool {
	topics := make(map[int]struct{}, len(a))
	slots := make(map[int]struct{}, len(a))
	for _, alloc := range a {
		if alloc.Topic != Unassigned {
			if _, dup := topics[alloc.Topic]; dup {
				return false
			}
			topics[alloc.Topic] = struct{}{}
		}
		if alloc.Slot != Unassigned {
			if _, dup := slots[alloc.Slot]; dup {
				return false
			}
			slots[alloc.Slot] = struct{}{}
		}
	}
	return true
}

// Unused counts resources in dim that no agent holds.
func (a Assignment) Unused(s Sizing, dim Dimension) int {
	held := make(map[int]struct{}, len(a))
	for _, alloc := range a {
		if r := alloc.Resource(dim); r != Unassigned {
			held[r] = struct{}{}
		}
	}
	return s.Universe(dim) - len(held)
}
