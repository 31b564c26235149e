package cpu

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Machine is the bring-up registry for cores. Cores can be brought up at any
// point during the lifetime of the machine, so the registry is a concurrent
// map rather than a fixed array.
type Machine struct {
	nextID atomic.Uint64
	cores  *xsync.MapOf[CoreID, *Core]
}

// NewMachine creates an empty machine with no cores brought up.
func NewMachine() *Machine {
	return &Machine{
		cores: xsync.NewMapOf[CoreID, *Core](),
	}
}

// BringUp initializes a new core and registers it with the machine. The
// returned core starts outside any critical section with interrupts enabled.
func (m *Machine) BringUp() *Core {
	id := CoreID(m.nextID.Add(1))
	c := newCore(id)
	m.cores.Store(id, c)
	return c
}

// Core looks up a core by its identity.
func (m *Machine) Core(id CoreID) (*Core, bool) {
	return m.cores.Load(id)
}

// Cores returns all cores currently brought up. The order is unspecified.
func (m *Machine) Cores() []*Core {
	out := make([]*Core, 0, m.cores.Size())
	m.cores.Range(func(_ CoreID, c *Core) bool {
		out = append(out, c)
		return true
	})
	return out
}

// NumCores returns the number of cores brought up so far.
func (m *Machine) NumCores() int {
	return m.cores.Size()
}
