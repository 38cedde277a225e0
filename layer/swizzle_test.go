// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"bytes"
	"testing"
)

func TestSwizzleBGRA(t *testing.T) {
	rgba := []byte{1, 2, 3, 4, 10, 20, 30, 40}
	got := swizzleBGRA(nil, rgba)
	want := []byte{3, 2, 1, 4, 30, 20, 10, 40}
	if !bytes.Equal(got, want) {
		t.Errorf("swizzleBGRA() = %v, want %v", got, want)
	}

	buf := make([]byte, 0, 16)
	if got := swizzleBGRA(buf, rgba); &got[0] != &buf[:1][0] {
		t.Error("swizzleBGRA did not reuse a large enough buffer")
	}
}
