// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

/*
#include <stdint.h>

static void fc_notify(void (*cb)(int32_t), int32_t code) {
	cb(code);
}
*/
import "C"

// notify calls the host's status callback.
func notify(cb *[0]byte, code int32) {
	C.fc_notify(cb, C.int32_t(code))
}
