// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

// swizzleBGRA converts RGBA pixels to BGRA, reusing dst when it is large
// enough.
func swizzleBGRA(dst, rgba []byte) []byte {
	if cap(dst) < len(rgba) {
		dst = make([]byte, len(rgba))
	}
	dst = dst[:len(rgba)]
	for i := 0; i+3 < len(rgba); i += 4 {
		dst[i] = rgba[i+2]
		dst[i+1] = rgba[i+1]
		dst[i+2] = rgba[i]
		dst[i+3] = rgba[i+3]
	}
	return dst
}
