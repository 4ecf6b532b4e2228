//go:build !amd64 && !arm64

package bitmap

// Capability reports the widest vector extension available on this CPU.
func Capability() string {
	return "swar"
}
