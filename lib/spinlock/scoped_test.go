package spinlock

import (
	"testing"

	"github.com/osdev-go/ksync/lib/cpu"
)

// TestGuardRoundTrip verifies that a guard leaves the lock locked for its
// lifetime and unlocked after Release, for normal and early-return paths.
func TestGuardRoundTrip(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk SpinLock[uint32]

	normal := func() {
		g := NewScopedLock(&lk, c)
		defer g.Release()
		if !lk.IsLocked() {
			t.Fatal("lock should be held inside the guarded scope")
		}
		if !g.HaveLock() {
			t.Fatal("guard should report holding the lock")
		}
	}

	earlyReturn := func(bail bool) {
		g := NewScopedLock(&lk, c)
		defer g.Release()
		if bail {
			return
		}
		t.Fatal("unreachable")
	}

	normal()
	if lk.IsLocked() {
		t.Fatal("lock should be released after normal scope exit")
	}

	earlyReturn(true)
	if lk.IsLocked() {
		t.Fatal("lock should be released after early return")
	}
	if c.InCritical() {
		t.Fatal("core left inside a critical section")
	}
}

// TestGuardReleaseOnPanic verifies that a deferred Release runs during
// panic unwinding.
func TestGuardReleaseOnPanic(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk SpinLock[uint32]

	func() {
		defer func() { _ = recover() }()
		g := NewScopedLock(&lk, c)
		defer g.Release()
		panic("boom")
	}()

	if lk.IsLocked() {
		t.Fatal("lock should be released after panic unwinding")
	}
}

// TestGuardMove verifies that moving a guard leaves the source inert and
// the destination solely responsible, with no double release.
func TestGuardMove(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk SpinLock[uint32]

	src := NewScopedLock(&lk, c)
	dst := src.Move()

	if src.HaveLock() {
		t.Fatal("moved-from guard should not report holding the lock")
	}
	if !dst.HaveLock() {
		t.Fatal("destination guard should hold the lock")
	}

	// The source's release must perform nothing.
	src.Release()
	if !lk.IsLocked() {
		t.Fatal("release on a moved-from guard must not unlock")
	}

	dst.Release()
	if lk.IsLocked() {
		t.Fatal("destination release should unlock")
	}

	// Releasing both again must not unlock anything out from under a
	// subsequent holder.
	prev := lk.Lock(c)
	src.Release()
	dst.Release()
	if !lk.IsLocked() {
		t.Fatal("stale guards released a lock they no longer hold")
	}
	lk.Unlock(c, prev)
}

// TestGuardManualSplit verifies that Unlock then Lock on a guard mid-scope
// behaves like two sequential guard scopes.
func TestGuardManualSplit(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk SpinLock[uint32]

	g := NewScopedLock(&lk, c)
	if !lk.IsLocked() {
		t.Fatal("lock should be held after construction")
	}

	g.Unlock()
	if lk.IsLocked() {
		t.Fatal("lock should be free between sub-regions")
	}
	if g.HaveLock() {
		t.Fatal("guard should not report holding between sub-regions")
	}
	if c.InCritical() {
		t.Fatal("critical section should be left between sub-regions")
	}

	g.Lock()
	if !lk.IsLocked() {
		t.Fatal("lock should be held in the second sub-region")
	}

	g.Release()
	if lk.IsLocked() {
		t.Fatal("lock should be free after the guard is released")
	}
}

// TestGuardOverRecursiveLock verifies the guard works with the recursive
// lock, including under an existing ownership level.
func TestGuardOverRecursiveLock(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk RecursiveSpinLock

	outer := lk.Lock(c)

	g := NewScopedLock(&lk, c)
	if !lk.OwnLock(c) {
		t.Fatal("core should own the lock inside the guard")
	}
	g.Release()

	// The outer ownership level must survive the guard's release.
	if !lk.IsLocked() {
		t.Fatal("guard release dropped an ownership level it did not take")
	}
	lk.Unlock(c, outer)
	if lk.IsLocked() {
		t.Fatal("lock should be free after the outer release")
	}
}

// TestGuardViolations verifies the fatal diagnostics on guard misuse.
func TestGuardViolations(t *testing.T) {
	m := cpu.NewMachine()
	c := m.BringUp()

	var lk SpinLock[uint32]

	mustPanic(t, "guard without lock", func() {
		NewScopedLock(nil, c)
	})
	mustPanic(t, "guard without processor", func() {
		NewScopedLock(&lk, nil)
	})

	g := NewScopedLock(&lk, c)
	mustPanic(t, "double lock", func() {
		g.Lock()
	})
	g.Unlock()
	mustPanic(t, "double unlock", func() {
		g.Unlock()
	})
	g.Lock()

	moved := g.Move()
	mustPanic(t, "lock on disengaged guard", func() {
		g.Lock()
	})
	mustPanic(t, "unlock on disengaged guard", func() {
		g.Unlock()
	})
	moved.Release()
}
