package ipmi

import "encoding/binary"

// OpenSessionRequest is the RMCP+ Open Session Request payload (32 bytes),
// spec.md 3/6. Grounded on the teacher's openSession (go-sol/session.go),
// which built this payload inline with hardcoded offsets; this rewrite
// makes it a standalone type with its own Encode, generalized to carry
// whichever cipher suite the session layer selects instead of a single
// hardcoded SHA1/None/None triple.
type OpenSessionRequest struct {
	MessageTag             uint8
	MaxPrivilege            Privilege
	RemoteConsoleSessionID uint32
	Auth                   AuthAlgorithm
	Integrity              IntegrityAlgorithm
	Confidentiality        ConfidentialityAlgorithm
}

func (r OpenSessionRequest) Encode() []byte {
	buf := make([]byte, 32)
	buf[0] = r.MessageTag
	buf[1] = uint8(r.MaxPrivilege) & 0x0F
	binary.LittleEndian.PutUint32(buf[4:8], r.RemoteConsoleSessionID)

	buf[8] = 0x00
	buf[11] = 0x08
	buf[12] = uint8(r.Auth)

	buf[16] = 0x01
	buf[19] = 0x08
	buf[20] = uint8(r.Integrity)

	buf[24] = 0x02
	buf[27] = 0x08
	buf[28] = uint8(r.Confidentiality)
	return buf
}

// OpenSessionResponse is the RMCP+ Open Session Response payload (36
// bytes).
type OpenSessionResponse struct {
	MessageTag             uint8
	Status                 StatusCode
	MaxPrivilege           Privilege
	RemoteConsoleSessionID uint32
	ManagedSystemSessionID uint32
	Auth                   AuthAlgorithm
	Integrity              IntegrityAlgorithm
	Confidentiality        ConfidentialityAlgorithm
}

func DecodeOpenSessionResponse(data []byte) (OpenSessionResponse, error) {
	if len(data) < 36 {
		return OpenSessionResponse{}, &WrongLengthError{Structure: "OpenSessionResponse", Want: 36, Got: len(data)}
	}
	return OpenSessionResponse{
		MessageTag:             data[0],
		Status:                 StatusCode(data[1]),
		MaxPrivilege:           Privilege(data[2] & 0x0F),
		RemoteConsoleSessionID: binary.LittleEndian.Uint32(data[4:8]),
		ManagedSystemSessionID: binary.LittleEndian.Uint32(data[8:12]),
		Auth:                   AuthAlgorithm(data[16]),
		Integrity:              IntegrityAlgorithm(data[24]),
		Confidentiality:        ConfidentialityAlgorithm(data[32]),
	}, nil
}

// RAKPMessage1 is the remote-console-to-managed-system RAKP1 payload.
type RAKPMessage1 struct {
	MessageTag             uint8
	ManagedSystemSessionID uint32
	RemoteConsoleRandom    [16]byte
	InheritRole            bool
	MaxPrivilege           Privilege
	Username               string
}

func (r RAKPMessage1) Encode() ([]byte, error) {
	if len(r.Username) > 255 {
		return nil, &UsernameOver255Error{Length: len(r.Username)}
	}
	buf := make([]byte, 28+len(r.Username))
	buf[0] = r.MessageTag
	binary.LittleEndian.PutUint32(buf[4:8], r.ManagedSystemSessionID)
	copy(buf[8:24], r.RemoteConsoleRandom[:])
	buf[24] = RoleByte(r.InheritRole, r.MaxPrivilege)
	buf[27] = uint8(len(r.Username))
	copy(buf[28:], r.Username)
	return buf, nil
}

// RoleByte packs inherit_role and the requested privilege into the single
// byte RAKP1/SIK derivation/RAKP3 all embed (spec.md 9.2). With
// inheritRole=true and maxPrivilege=Administrator this produces 0x14, the
// value spec.md's source hard-codes; this library instead derives it so any
// other (inheritRole, maxPrivilege) combination still encodes correctly.
func RoleByte(inheritRole bool, maxPrivilege Privilege) uint8 {
	var inherit uint8
	if inheritRole {
		inherit = 1
	}
	return join(inherit, uint8(maxPrivilege), 4)
}

// RAKPMessage2 is the managed-system-to-remote-console RAKP2 payload.
type RAKPMessage2 struct {
	MessageTag             uint8
	Status                 StatusCode
	RemoteConsoleSessionID uint32
	ManagedSystemRandom    [16]byte
	ManagedSystemGUID      [16]byte
	KeyExchangeAuthCode    []byte // optional, length depends on negotiated auth algorithm
}

func DecodeRAKPMessage2(data []byte) (RAKPMessage2, error) {
	if len(data) < 8 {
		return RAKPMessage2{}, &WrongLengthError{Structure: "RAKPMessage2", Want: 8, Got: len(data)}
	}
	m := RAKPMessage2{
		MessageTag: data[0],
		Status:     StatusCode(data[1]),
	}
	m.RemoteConsoleSessionID = binary.LittleEndian.Uint32(data[4:8])
	if m.Status != StatusNoErrors {
		return m, nil
	}
	if len(data) < 40 {
		return RAKPMessage2{}, &WrongLengthError{Structure: "RAKPMessage2", Want: 40, Got: len(data)}
	}
	copy(m.ManagedSystemRandom[:], data[8:24])
	copy(m.ManagedSystemGUID[:], data[24:40])
	if len(data) > 40 {
		m.KeyExchangeAuthCode = append([]byte(nil), data[40:]...)
	}
	return m, nil
}

// RAKPMessage3 is the remote-console-to-managed-system RAKP3 payload.
type RAKPMessage3 struct {
	MessageTag             uint8
	Status                 StatusCode
	ManagedSystemSessionID uint32
	AuthCode               []byte
}

func (r RAKPMessage3) Encode() []byte {
	buf := make([]byte, 8+len(r.AuthCode))
	buf[0] = r.MessageTag
	buf[1] = uint8(r.Status)
	binary.LittleEndian.PutUint32(buf[4:8], r.ManagedSystemSessionID)
	copy(buf[8:], r.AuthCode)
	return buf
}

// RAKPMessage4 is the managed-system-to-remote-console RAKP4 payload.
type RAKPMessage4 struct {
	MessageTag                uint8
	Status                    StatusCode
	ManagementConsoleSessionID uint32
	IntegrityCheckValue       []byte
}

func DecodeRAKPMessage4(data []byte) (RAKPMessage4, error) {
	if len(data) < 8 {
		return RAKPMessage4{}, &WrongLengthError{Structure: "RAKPMessage4", Want: 8, Got: len(data)}
	}
	m := RAKPMessage4{
		MessageTag: data[0],
		Status:     StatusCode(data[1]),
	}
	m.ManagementConsoleSessionID = binary.LittleEndian.Uint32(data[4:8])
	if len(data) > 8 {
		m.IntegrityCheckValue = append([]byte(nil), data[8:]...)
	}
	return m, nil
}
