//go:build amd64

package bitmap

import (
	"golang.org/x/sys/cpu"
)

// Capability reports the widest vector extension available on this CPU. The
// query is pure and answers the same for the life of the process; the mask
// kernels themselves are portable SWAR and correct regardless.
func Capability() string {
	switch {
	case cpu.X86.HasAVX2:
		return "avx2"
	case cpu.X86.HasSSE42:
		return "sse4.2"
	}
	return "swar"
}
