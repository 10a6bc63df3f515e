package statusserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipmiclient/ipmi"
)

type fakeProvider struct {
	established bool
	cipher      ipmi.CipherSuite
	cipherOK    bool
	rc, ms      uint32
	idsOK       bool
	since       time.Duration
	priv        ipmi.Privilege
	privOK      bool
	sent, erred uint64
}

func (f *fakeProvider) Established() bool                                { return f.established }
func (f *fakeProvider) CipherSuite() (ipmi.CipherSuite, bool)             { return f.cipher, f.cipherOK }
func (f *fakeProvider) SessionIDs() (uint32, uint32, bool)                { return f.rc, f.ms, f.idsOK }
func (f *fakeProvider) EstablishedSince() time.Duration                   { return f.since }
func (f *fakeProvider) CachedPrivilege() (ipmi.Privilege, bool)           { return f.priv, f.privOK }
func (f *fakeProvider) RequestCounts() (uint64, uint64)                   { return f.sent, f.erred }

func TestHandleHealthzReportsUnavailableWhenNotEstablished(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", &fakeProvider{established: false})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleHealthzReportsOKWhenEstablished(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", &fakeProvider{established: true})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandleSessionReturnsFullSnapshot(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{
		established: true,
		cipher: ipmi.CipherSuite{
			SuiteID:         3,
			Auth:            ipmi.AuthAlgorithmHMACSHA256,
			Integrity:       ipmi.IntegrityAlgorithmHMACSHA256_128,
			Confidentiality: ipmi.ConfidentialityAlgorithmAESCBC128,
		},
		cipherOK: true,
		rc:       0x1111,
		ms:       0x2222,
		idsOK:    true,
		since:    5 * time.Second,
		priv:     ipmi.PrivilegeAdministrator,
		privOK:   true,
		sent:     10,
		erred:    1,
	}
	s := New("127.0.0.1:0", provider)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap sessionSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !snap.Established {
		t.Fatal("established = false, want true")
	}
	if snap.RemoteConsoleSession != 0x1111 || snap.ManagedSystemSession != 0x2222 {
		t.Fatalf("session ids = %x/%x, want 1111/2222", snap.RemoteConsoleSession, snap.ManagedSystemSession)
	}
	if snap.CachedPrivilege != "Administrator" {
		t.Fatalf("cached privilege = %q, want Administrator", snap.CachedPrivilege)
	}
	if snap.RequestsSent != 10 || snap.RequestsErrored != 1 {
		t.Fatalf("request counts = %d/%d, want 10/1", snap.RequestsSent, snap.RequestsErrored)
	}
	if snap.Auth == "" || snap.Integrity == "" || snap.Confidentiality == "" {
		t.Fatalf("algorithm names left empty: %+v", snap)
	}
}

func TestHandleSessionOmitsCipherWhenNoneNegotiated(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", &fakeProvider{established: false})

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var snap sessionSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap.Established {
		t.Fatal("established = true, want false")
	}
	if snap.Auth != "" || snap.Integrity != "" || snap.Confidentiality != "" {
		t.Fatalf("expected empty algorithm fields, got %+v", snap)
	}
}
