package spinlock

import (
	"sync/atomic"
	"unsafe"
)

// Word is the set of unsigned integer widths usable as a lock state word.
// A uint64 word must be 64-bit aligned on 32-bit platforms; keeping it the
// first field of the lock struct satisfies this.
type Word interface {
	~uint32 | ~uint64
}

// The helpers below dispatch to the matching sync/atomic operation for the
// word width. The size switch is resolved at compile time per instantiation.

func loadWord[T Word](p *T) T {
	if unsafe.Sizeof(*p) == 4 {
		return T(atomic.LoadUint32((*uint32)(unsafe.Pointer(p))))
	}
	return T(atomic.LoadUint64((*uint64)(unsafe.Pointer(p))))
}

func storeWord[T Word](p *T, v T) {
	if unsafe.Sizeof(*p) == 4 {
		atomic.StoreUint32((*uint32)(unsafe.Pointer(p)), uint32(v))
		return
	}
	atomic.StoreUint64((*uint64)(unsafe.Pointer(p)), uint64(v))
}

func swapWord[T Word](p *T, v T) T {
	if unsafe.Sizeof(*p) == 4 {
		return T(atomic.SwapUint32((*uint32)(unsafe.Pointer(p)), uint32(v)))
	}
	return T(atomic.SwapUint64((*uint64)(unsafe.Pointer(p)), uint64(v)))
}

func casWord[T Word](p *T, old, new T) bool {
	if unsafe.Sizeof(*p) == 4 {
		return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(p)), uint32(old), uint32(new))
	}
	return atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(p)), uint64(old), uint64(new))
}
