package ipmi

import "fmt"

// StatusCode is the RMCP+ Open Session Response / RAKP status byte.
// Zero means success; all other values are protocol-level rejections.
type StatusCode uint8

const (
	StatusNoErrors                       StatusCode = 0x00
	StatusInsufficientResources           StatusCode = 0x01
	StatusInvalidSessionID                StatusCode = 0x02
	StatusInvalidPayloadType              StatusCode = 0x03
	StatusInvalidAuthAlgorithm            StatusCode = 0x04
	StatusInvalidIntegrityAlgorithm       StatusCode = 0x05
	StatusNoMatchingAuthPayload           StatusCode = 0x06
	StatusNoMatchingIntegrityPayload      StatusCode = 0x07
	StatusInactiveSessionID               StatusCode = 0x08
	StatusInvalidRole                     StatusCode = 0x09
	StatusUnauthorizedRoleRequested       StatusCode = 0x0A
	StatusInsufficientResourcesForRole    StatusCode = 0x0B
	StatusInvalidNameLength               StatusCode = 0x0C
	StatusUnauthorizedName                StatusCode = 0x0D
	StatusUnauthorizedGUID                StatusCode = 0x0E
	StatusInvalidIntegrityCheckValue      StatusCode = 0x0F
	StatusInvalidConfidentialityAlgorithm StatusCode = 0x10
	StatusNoCipherSuiteMatch              StatusCode = 0x11
	StatusIllegalParameter                StatusCode = 0x12
)

func (s StatusCode) String() string {
	if s == StatusNoErrors {
		return "NoErrors"
	}
	return fmt.Sprintf("StatusCode(0x%02X)", uint8(s))
}

// WrongLengthError reports a byte slice that is too short to hold the
// structure being parsed.
type WrongLengthError struct {
	Structure string
	Want      int
	Got       int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("ipmi: %s: wrong length: want at least %d bytes, got %d", e.Structure, e.Want, e.Got)
}

// UnsupportedMessageClassError is returned when an RMCP header's message
// class field is not one of ASF/IPMI/OEM.
type UnsupportedMessageClassError struct {
	Class byte
}

func (e *UnsupportedMessageClassError) Error() string {
	return fmt.Sprintf("ipmi: unsupported RMCP message class 0x%02X", e.Class)
}

// UnsupportedAuthTypeError is returned when an IPMI session header's
// AuthType field is not one of the known values.
type UnsupportedAuthTypeError struct {
	AuthType byte
}

func (e *UnsupportedAuthTypeError) Error() string {
	return fmt.Sprintf("ipmi: unsupported auth type 0x%02X", e.AuthType)
}

// UnsupportedPayloadTypeError is returned when a v2.0 session header's
// payload type field does not match a known payload.
type UnsupportedPayloadTypeError struct {
	PayloadType byte
}

func (e *UnsupportedPayloadTypeError) Error() string {
	return fmt.Sprintf("ipmi: unsupported payload type 0x%02X", e.PayloadType)
}

// BadChecksumError is returned when an IPMI message checksum does not
// validate on parse.
type BadChecksumError struct {
	Which string
	Want  uint8
	Got   uint8
}

func (e *BadChecksumError) Error() string {
	return fmt.Sprintf("ipmi: %s invalid: got 0x%02X, want 0x%02X", e.Which, e.Got, e.Want)
}

// BadIntegrityTrailerError is returned when an encrypted v2.0 packet's
// HMAC-SHA256-128 integrity trailer does not match.
type BadIntegrityTrailerError struct{}

func (e *BadIntegrityTrailerError) Error() string {
	return "ipmi: integrity trailer authentication failed"
}

// UsernameOver255Error is returned when a RAKP1 username exceeds the
// one-byte length field's range.
type UsernameOver255Error struct {
	Length int
}

func (e *UsernameOver255Error) Error() string {
	return fmt.Sprintf("ipmi: username of length %d exceeds maximum of 255", e.Length)
}

// UnsupportedVersionError is returned by Discovery when the BMC's channel
// authentication capabilities indicate it only supports IPMI v1.5.
type UnsupportedVersionError struct{}

func (e *UnsupportedVersionError) Error() string {
	return "ipmi: BMC does not advertise IPMI v2.0 / RMCP+ support"
}

// FailedToOpenSessionError wraps a non-zero Open Session Response status.
type FailedToOpenSessionError struct {
	Code StatusCode
}

func (e *FailedToOpenSessionError) Error() string {
	return fmt.Sprintf("ipmi: RMCP+ open session failed: %v", e.Code)
}

// FailedToValidateRAKP2Error is returned when the RAKP2 key-exchange auth
// code does not match the value this client computes locally.
type FailedToValidateRAKP2Error struct{}

func (e *FailedToValidateRAKP2Error) Error() string {
	return "ipmi: RAKP2 key exchange authentication code mismatch"
}

// MismatchedKeyExchangeAuthCodeError is returned when RAKP4's integrity
// check value does not match the value this client computes locally.
type MismatchedKeyExchangeAuthCodeError struct{}

func (e *MismatchedKeyExchangeAuthCodeError) Error() string {
	return "ipmi: RAKP4 integrity check value mismatch"
}

// SessionNotEstablishedError is returned by SendRawRequest when called
// before EstablishConnection has completed successfully.
type SessionNotEstablishedError struct{}

func (e *SessionNotEstablishedError) Error() string {
	return "ipmi: session is not established yet"
}

// NoResponseError is returned when no datagram arrives within the
// configured read timeout. The session is left intact; the caller may
// retry.
type NoResponseError struct {
	Stage string
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("ipmi: no response from BMC (stage: %s)", e.Stage)
}

// UnknownNetFnError, UnknownCommandError, UnknownLUNError,
// UnknownPrivilegeError and UnknownAlgorithmError round out the semantic
// taxonomy of spec.md Section 7; they are returned by the typed decoders in
// this package when an on-wire value cannot be mapped to a named constant
// this library understands, as opposed to being a framing error.
type UnknownNetFnError struct{ Value uint8 }

func (e *UnknownNetFnError) Error() string { return fmt.Sprintf("ipmi: unknown NetFn 0x%02X", e.Value) }

type UnknownAlgorithmError struct {
	Kind  string
	Value uint8
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("ipmi: unknown %s algorithm 0x%02X", e.Kind, e.Value)
}
