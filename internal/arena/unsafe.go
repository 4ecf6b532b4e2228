package arena

import "unsafe"

// asString reinterprets arena-owned bytes as a string without copying. The
// arena never writes to handed-out slices, so the immutability contract of
// string holds.
func asString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
