package serviceerr

import "errors"

// ErrTransportFailure marks a login attempt that never produced an
// application-level answer: a network error or a non-2xx response from the
// identity endpoint.
var ErrTransportFailure = errors.New("login request failed")

// ErrInvalidCredentials marks a 200 response with an empty body, which is the
// identity endpoint's way of signalling an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMalformedResponse marks a 200 response with a non-empty body that carries
// no usable token pair.
var ErrMalformedResponse = errors.New("malformed authentication response")

var ErrNoCachedCredential = errors.New("no cached credential")
var ErrNoHandler = errors.New("no handler for redirect url")

// ErrBiometricRejected marks a biometric gate outcome other than granted. The
// wrapping message names the concrete outcome.
var ErrBiometricRejected = errors.New("biometric gate rejected")
