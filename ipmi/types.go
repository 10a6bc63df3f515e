package ipmi

import "fmt"

// AddrType distinguishes an I²C slave address from a software ID in an
// IPMI message's responder/requester address byte (bit 0).
type AddrType uint8

const (
	SlaveAddress AddrType = 0
	SoftwareID   AddrType = 1
)

// Address is a packed IPMI address byte: the low bit carries AddrType, the
// remaining 7 bits carry the numeric address/ID.
type Address uint8

// NewAddress packs a numeric address/ID and its type into an Address byte.
func NewAddress(t AddrType, value uint8) Address {
	return Address((value << 1) | uint8(t&1))
}

func (a Address) Type() AddrType { return AddrType(a & 1) }
func (a Address) Value() uint8   { return uint8(a) >> 1 }

// Well-known addresses.
const (
	BMCSlaveAddress          Address = Address(0x20 << 1) // AddrType bit 0 => SlaveAddress
	RemoteConsoleSoftwareID  Address = Address((0x81 << 1) | 1)
)

// LUN is the 2-bit Logical Unit Number field accompanying a NetFn or
// sequence byte.
type LUN uint8

const (
	LunBMC  LUN = 0b00
	LunOem1 LUN = 0b01
	LunSms  LUN = 0b10
	LunOem2 LUN = 0b11
)

// NetFn is the 6-bit Network Function routing code. Request codes are
// even; the matching response code is the request code with bit 0 set.
type NetFn uint8

const (
	NetFnChassisReq   NetFn = 0x00
	NetFnChassisRsp   NetFn = 0x01
	NetFnBridgeReq    NetFn = 0x02
	NetFnBridgeRsp    NetFn = 0x03
	NetFnSensorReq    NetFn = 0x04
	NetFnSensorRsp    NetFn = 0x05
	NetFnAppReq       NetFn = 0x06
	NetFnAppRsp       NetFn = 0x07
	NetFnFirmwareReq  NetFn = 0x08
	NetFnFirmwareRsp  NetFn = 0x09
	NetFnStorageReq   NetFn = 0x0A
	NetFnStorageRsp   NetFn = 0x0B
	NetFnTransportReq NetFn = 0x0C
	NetFnTransportRsp NetFn = 0x0D
)

// IsRequest reports whether the NetFn's parity marks it as a request
// (even) as opposed to a response (odd).
func (n NetFn) IsRequest() bool { return n&1 == 0 }

// Response returns the response NetFn paired with a request NetFn.
func (n NetFn) Response() NetFn { return n | 1 }

func (n NetFn) String() string {
	names := map[NetFn]string{
		NetFnChassisReq: "ChassisReq", NetFnChassisRsp: "ChassisRsp",
		NetFnBridgeReq: "BridgeReq", NetFnBridgeRsp: "BridgeRsp",
		NetFnSensorReq: "SensorEventReq", NetFnSensorRsp: "SensorEventRsp",
		NetFnAppReq: "AppReq", NetFnAppRsp: "AppRsp",
		NetFnFirmwareReq: "FirmwareReq", NetFnFirmwareRsp: "FirmwareRsp",
		NetFnStorageReq: "StorageReq", NetFnStorageRsp: "StorageRsp",
		NetFnTransportReq: "TransportReq", NetFnTransportRsp: "TransportRsp",
	}
	if s, ok := names[n]; ok {
		return s
	}
	return fmt.Sprintf("NetFn(0x%02X)", uint8(n))
}

// CompletionCode is the single byte at offset 6 of a response payload
// reporting per-command outcome. Values other than CompletedNormally are
// data returned verbatim to the caller, not errors of this library.
type CompletionCode uint8

const (
	CompletedNormally          CompletionCode = 0x00
	NodeBusy                   CompletionCode = 0xC0
	InvalidCommand             CompletionCode = 0xC1
	InvalidCommandForLUN       CompletionCode = 0xC2
	Timeout                    CompletionCode = 0xC3
	OutOfSpace                 CompletionCode = 0xC4
	ReservationCanceled        CompletionCode = 0xC5
	RequestDataTruncated       CompletionCode = 0xC6
	RequestDataLengthInvalid   CompletionCode = 0xC7
	RequestDataFieldExceeded   CompletionCode = 0xC8
	ParameterOutOfRange        CompletionCode = 0xC9
	CannotReturnRequestedBytes CompletionCode = 0xCA
	RequestedDataNotPresent    CompletionCode = 0xCB
	InvalidDataField           CompletionCode = 0xCC
	CommandIllegal             CompletionCode = 0xCD
	CommandResponseNotProvided CompletionCode = 0xCE
	DuplicatedRequest          CompletionCode = 0xCF
	SDRInUpdateMode            CompletionCode = 0xD0
	DeviceInFirmwareUpdateMode CompletionCode = 0xD1
	BMCInitializing            CompletionCode = 0xD2
	DestinationUnavailable     CompletionCode = 0xD3
	InsufficientPrivilege      CompletionCode = 0xD4
	CommandNotSupported        CompletionCode = 0xD5
	CommandDisabled            CompletionCode = 0xD6
	UnspecifiedError           CompletionCode = 0xFF
)

func (c CompletionCode) String() string {
	switch {
	case c == CompletedNormally:
		return "CompletedNormally"
	case c >= 0x01 && c <= 0x7E:
		return fmt.Sprintf("OEM(0x%02X)", uint8(c))
	case c >= 0x80 && c <= 0xBE:
		return fmt.Sprintf("CommandCode(0x%02X)", uint8(c))
	default:
		if name, ok := completionCodeNames[c]; ok {
			return name
		}
		return fmt.Sprintf("Reserved(0x%02X)", uint8(c))
	}
}

var completionCodeNames = map[CompletionCode]string{
	NodeBusy: "NodeBusy", InvalidCommand: "InvalidCommand",
	InvalidCommandForLUN: "InvalidCommandForLUN", Timeout: "Timeout",
	OutOfSpace: "OutOfSpace", ReservationCanceled: "ReservationCanceled",
	RequestDataTruncated: "RequestDataTruncated", RequestDataLengthInvalid: "RequestDataLengthInvalid",
	RequestDataFieldExceeded: "RequestDataFieldExceeded", ParameterOutOfRange: "ParameterOutOfRange",
	CannotReturnRequestedBytes: "CannotReturnRequestedBytes", RequestedDataNotPresent: "RequestedDataNotPresent",
	InvalidDataField: "InvalidDataField", CommandIllegal: "CommandIllegal",
	CommandResponseNotProvided: "CommandResponseNotProvided", DuplicatedRequest: "DuplicatedRequest",
	SDRInUpdateMode: "SDRInUpdateMode", DeviceInFirmwareUpdateMode: "DeviceInFirmwareUpdateMode",
	BMCInitializing: "BMCInitializing", DestinationUnavailable: "DestinationUnavailable",
	InsufficientPrivilege: "InsufficientPrivilege", CommandNotSupported: "CommandNotSupported",
	CommandDisabled: "CommandDisabled", UnspecifiedError: "UnspecifiedError",
}

// Privilege is an IPMI channel privilege level.
type Privilege uint8

const (
	PrivilegeReserved      Privilege = 0
	PrivilegeCallback      Privilege = 1
	PrivilegeUser          Privilege = 2
	PrivilegeOperator      Privilege = 3
	PrivilegeAdministrator Privilege = 4
	PrivilegeOEM           Privilege = 5
)

func (p Privilege) String() string {
	names := [...]string{"Reserved", "Callback", "User", "Operator", "Administrator", "OEM"}
	if int(p) < len(names) {
		return names[p]
	}
	return fmt.Sprintf("Privilege(0x%02X)", uint8(p))
}

// AuthType discriminates an IPMI session header's variant: RmcpPlus
// selects the v2.0 header, anything else selects v1.5.
type AuthType uint8

const (
	AuthTypeNone          AuthType = 0x00
	AuthTypeMD2           AuthType = 0x01
	AuthTypeMD5           AuthType = 0x02
	AuthTypePasswordOrKey AuthType = 0x04
	AuthTypeOEM           AuthType = 0x05
	AuthTypeRMCPPlus      AuthType = 0x06
)

func (a AuthType) valid() bool {
	switch a {
	case AuthTypeNone, AuthTypeMD2, AuthTypeMD5, AuthTypePasswordOrKey, AuthTypeOEM, AuthTypeRMCPPlus:
		return true
	}
	return false
}

// PayloadType is the 6-bit v2.0 session-header payload type field.
type PayloadType uint8

const (
	PayloadTypeIPMI            PayloadType = 0x00
	PayloadTypeSOL             PayloadType = 0x01
	PayloadTypeOEM             PayloadType = 0x02
	PayloadTypeOpenSessionReq  PayloadType = 0x10
	PayloadTypeOpenSessionResp PayloadType = 0x11
	PayloadTypeRAKP1           PayloadType = 0x12
	PayloadTypeRAKP2           PayloadType = 0x13
	PayloadTypeRAKP3           PayloadType = 0x14
	PayloadTypeRAKP4           PayloadType = 0x15
)

func (p PayloadType) valid() bool {
	switch p {
	case PayloadTypeIPMI, PayloadTypeSOL, PayloadTypeOEM,
		PayloadTypeOpenSessionReq, PayloadTypeOpenSessionResp,
		PayloadTypeRAKP1, PayloadTypeRAKP2, PayloadTypeRAKP3, PayloadTypeRAKP4:
		return true
	}
	return false
}

// AuthAlgorithm identifies the RAKP authentication algorithm negotiated
// during Open Session.
type AuthAlgorithm uint8

const (
	AuthAlgorithmNone       AuthAlgorithm = 0x00
	AuthAlgorithmHMACSHA1   AuthAlgorithm = 0x01
	AuthAlgorithmHMACMD5    AuthAlgorithm = 0x02
	AuthAlgorithmHMACSHA256 AuthAlgorithm = 0x03
)

func (a AuthAlgorithm) isOEM() bool { return a >= 0xC0 }

// IntegrityAlgorithm identifies the per-packet integrity trailer
// algorithm.
type IntegrityAlgorithm uint8

const (
	IntegrityAlgorithmNone          IntegrityAlgorithm = 0x00
	IntegrityAlgorithmHMACSHA1_96   IntegrityAlgorithm = 0x01
	IntegrityAlgorithmHMACMD5_128   IntegrityAlgorithm = 0x02
	IntegrityAlgorithmMD5_128       IntegrityAlgorithm = 0x03
	IntegrityAlgorithmHMACSHA256_128 IntegrityAlgorithm = 0x04
)

func (a IntegrityAlgorithm) isOEM() bool { return a >= 0xC0 }

// ConfidentialityAlgorithm identifies the per-packet encryption algorithm.
type ConfidentialityAlgorithm uint8

const (
	ConfidentialityAlgorithmNone      ConfidentialityAlgorithm = 0x00
	ConfidentialityAlgorithmAESCBC128 ConfidentialityAlgorithm = 0x01
	ConfidentialityAlgorithmRC4_128   ConfidentialityAlgorithm = 0x02
	ConfidentialityAlgorithmRC4_40    ConfidentialityAlgorithm = 0x03
)

func (a ConfidentialityAlgorithm) isOEM() bool { return a >= 0x30 }

// CipherSuite is a negotiated (auth, integrity, confidentiality) algorithm
// triple, identified on the wire by SuiteID.
type CipherSuite struct {
	SuiteID          uint8
	Auth             AuthAlgorithm
	Integrity        IntegrityAlgorithm
	Confidentiality  ConfidentialityAlgorithm
}

// NullCipherSuite is the fallback used when no cipher suite record parses:
// no authentication, no integrity, no confidentiality.
var NullCipherSuite = CipherSuite{
	SuiteID:         0,
	Auth:            AuthAlgorithmNone,
	Integrity:       IntegrityAlgorithmNone,
	Confidentiality: ConfidentialityAlgorithmNone,
}

// AlgorithmName renders a negotiated algorithm code as a human-readable
// name for logging and the status introspection endpoint (statusserver);
// kind selects which of the three algorithm families value belongs to.
func AlgorithmName(kind string, value uint8) string {
	var names map[uint8]string
	switch kind {
	case "auth":
		names = map[uint8]string{
			uint8(AuthAlgorithmNone): "None", uint8(AuthAlgorithmHMACSHA1): "HmacSha1",
			uint8(AuthAlgorithmHMACMD5): "HmacMd5", uint8(AuthAlgorithmHMACSHA256): "HmacSha256",
		}
	case "integrity":
		names = map[uint8]string{
			uint8(IntegrityAlgorithmNone): "None", uint8(IntegrityAlgorithmHMACSHA1_96): "HmacSha1_96",
			uint8(IntegrityAlgorithmHMACMD5_128): "HmacMd5_128", uint8(IntegrityAlgorithmMD5_128): "Md5_128",
			uint8(IntegrityAlgorithmHMACSHA256_128): "HmacSha256_128",
		}
	case "confidentiality":
		names = map[uint8]string{
			uint8(ConfidentialityAlgorithmNone): "None", uint8(ConfidentialityAlgorithmAESCBC128): "AesCbc128",
			uint8(ConfidentialityAlgorithmRC4_128): "Rc4_128", uint8(ConfidentialityAlgorithmRC4_40): "Rc4_40",
		}
	default:
		return fmt.Sprintf("%s(0x%02X)", kind, value)
	}
	if name, ok := names[value]; ok {
		return name
	}
	if value >= 0xC0 {
		return fmt.Sprintf("OEM(0x%02X)", value)
	}
	return fmt.Sprintf("%s(0x%02X)", kind, value)
}
