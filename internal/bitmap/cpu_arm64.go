//go:build arm64

package bitmap

import (
	"golang.org/x/sys/cpu"
)

// Capability reports the widest vector extension available on this CPU.
func Capability() string {
	if cpu.ARM64.HasASIMD {
		return "neon"
	}
	return "swar"
}
