package session

import (
	"bytes"
	"testing"

	"ipmiclient/ipmi"
)

func TestRoleByteScenarioE(t *testing.T) {
	t.Parallel()
	if got := ipmi.RoleByte(true, ipmi.PrivilegeAdministrator); got != 0x14 {
		t.Fatalf("role byte = 0x%02X, want 0x14", got)
	}
}

func TestPasswordKeyPadsTo20Bytes(t *testing.T) {
	t.Parallel()
	key := passwordKey("")
	if len(key) != 20 {
		t.Fatalf("length = %d, want 20", len(key))
	}
	for _, b := range key {
		if b != 0 {
			t.Fatalf("empty password should pad with zero bytes, got %v", key)
		}
	}
	key2 := passwordKey("root")
	if len(key2) != 20 || !bytes.HasPrefix(key2, []byte("root")) {
		t.Fatalf("password key = %v, want 20 bytes starting with 'root'", key2)
	}
}

func TestDeriveSIKIsDeterministic(t *testing.T) {
	t.Parallel()
	pk := passwordKey("")
	var rc, rm [16]byte
	role := ipmi.RoleByte(true, ipmi.PrivilegeAdministrator)

	a := deriveSIK(pk, rc, rm, role, "root")
	b := deriveSIK(pk, rc, rm, role, "root")
	if !bytes.Equal(a, b) {
		t.Fatal("deriveSIK should be a pure function of its inputs")
	}
	if len(a) != 32 {
		t.Fatalf("SIK length = %d, want 32", len(a))
	}
}

func TestDeriveSIKDiffersOnDifferentInputs(t *testing.T) {
	t.Parallel()
	pk := passwordKey("")
	var rc, rm [16]byte
	role := ipmi.RoleByte(true, ipmi.PrivilegeAdministrator)

	a := deriveSIK(pk, rc, rm, role, "root")
	rm[0] = 0x01
	b := deriveSIK(pk, rc, rm, role, "root")
	if bytes.Equal(a, b) {
		t.Fatal("different managed-system randoms must not derive the same SIK")
	}
}

func TestDeriveK1AndK2Differ(t *testing.T) {
	t.Parallel()
	sik := deriveSIK(passwordKey("hunter2"), [16]byte{1}, [16]byte{2}, 0x14, "admin")
	k1 := deriveK1(sik)
	k2 := deriveK2(sik)
	if bytes.Equal(k1, k2) {
		t.Fatal("K1 and K2 must differ (derived from different fixed-byte buffers)")
	}
	if len(k1) != 32 || len(k2) != 32 {
		t.Fatalf("K1/K2 length = %d/%d, want 32/32", len(k1), len(k2))
	}
}

func TestRAKP3AuthCodeDeterministicAndSensitive(t *testing.T) {
	t.Parallel()
	pk := passwordKey("hunter2")
	var rm [16]byte
	a := rakp3AuthCode(pk, rm, 0x11223344, 0x14, "admin")
	b := rakp3AuthCode(pk, rm, 0x11223344, 0x14, "admin")
	if !bytes.Equal(a, b) {
		t.Fatal("rakp3AuthCode should be deterministic")
	}
	c := rakp3AuthCode(pk, rm, 0x99999999, 0x14, "admin")
	if bytes.Equal(a, c) {
		t.Fatal("different remote console session ids must produce different auth codes")
	}
}

func TestRAKP4ExpectedIntegrityCheckIs16Bytes(t *testing.T) {
	t.Parallel()
	sik := deriveSIK(passwordKey(""), [16]byte{}, [16]byte{}, 0x14, "root")
	var rc, guid [16]byte
	got := rakp4ExpectedIntegrityCheck(sik, rc, 0x1, guid)
	if len(got) != 16 {
		t.Fatalf("length = %d, want 16", len(got))
	}
}

func TestRAKP2ExpectedAuthCodeSensitiveToGUID(t *testing.T) {
	t.Parallel()
	pk := passwordKey("hunter2")
	var rm, rc [16]byte
	var guidA, guidB [16]byte
	guidB[0] = 0xFF

	a := rakp2ExpectedAuthCode(pk, rm, 1, 2, rc, guidA, 0x14, "admin")
	b := rakp2ExpectedAuthCode(pk, rm, 1, 2, rc, guidB, 0x14, "admin")
	if bytes.Equal(a, b) {
		t.Fatal("different managed system GUIDs must produce different expected auth codes")
	}
}
