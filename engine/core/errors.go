package core

import (
	"errors"
)

var (
	// ErrDeviceLost means the GPU device or its connection became unusable.
	// Fatal to the current rendering session; every GPU-side resource,
	// including the frame ring, must be torn down and rebuilt.
	ErrDeviceLost = errors.New("device lost")

	// ErrResourceExhausted means a fixed-capacity GPU resource cannot hold
	// the requested item count. Buffer sizes are fixed at ring construction
	// time, so this is a configuration error, not a retryable condition.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrWaitFailure means a blocking wait on the completion tracker could
	// not be serviced. Callers treat it exactly like ErrDeviceLost.
	ErrWaitFailure = errors.New("wait failure")

	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
)
