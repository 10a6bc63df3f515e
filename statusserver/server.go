// Package statusserver is an optional read-only HTTP introspection endpoint
// over a Client's session state (SPEC_FULL.md 4.12): a /healthz liveness
// check and a /session JSON snapshot. It is additive debug plumbing, not
// part of the RMCP+/RAKP core.
//
// Grounded on the teacher's server.Server/New and handleListServers
// (server/server.go, server/handlers.go): a struct wrapping a
// *mux.Router built in New, with one handler per route returning JSON.
// This rewrite drops the teacher's fleet-wide server list, SOL log
// browsing, and MAC-address lookup table (all Non-goals here) and keeps
// only the router-plus-JSON-handler shape, repointed at a single Client's
// negotiated session state.
package statusserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ipmiclient/ipmi"
)

// StatusProvider is the read-only view of session state this server
// exposes. *ipmiclient.Client satisfies it via the methods in status.go.
type StatusProvider interface {
	Established() bool
	CipherSuite() (ipmi.CipherSuite, bool)
	SessionIDs() (remoteConsole, managedSystem uint32, ok bool)
	EstablishedSince() time.Duration
	CachedPrivilege() (ipmi.Privilege, bool)
	RequestCounts() (sent, errored uint64)
}

// Server wraps a *mux.Router exposing read-only session state.
type Server struct {
	router   *mux.Router
	provider StatusProvider
	http     *http.Server
}

// New builds a Server reading state from provider, routed the way the
// teacher's server.New wires handlers onto a fresh mux.Router.
func New(addr string, provider StatusProvider) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		provider: provider,
	}
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	s.http = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// ListenAndServe blocks serving the router, mirroring the teacher's
// http.Server-per-instance pattern (server/server.go).
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Close shuts the HTTP server down.
func (s *Server) Close() error {
	return s.http.Close()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.provider.Established() {
		http.Error(w, "session not established", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// sessionSnapshot is the JSON body returned by GET /session.
type sessionSnapshot struct {
	Established          bool   `json:"established"`
	Auth                 string `json:"auth,omitempty"`
	Integrity            string `json:"integrity,omitempty"`
	Confidentiality      string `json:"confidentiality,omitempty"`
	RemoteConsoleSession uint32 `json:"remote_console_session_id,omitempty"`
	ManagedSystemSession uint32 `json:"managed_system_session_id,omitempty"`
	EstablishedForSeconds float64 `json:"established_for_seconds,omitempty"`
	CachedPrivilege      string `json:"cached_privilege,omitempty"`
	RequestsSent         uint64 `json:"requests_sent"`
	RequestsErrored      uint64 `json:"requests_errored"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := sessionSnapshot{Established: s.provider.Established()}
	if cipher, ok := s.provider.CipherSuite(); ok {
		snap.Auth = ipmi.AlgorithmName("auth", uint8(cipher.Auth))
		snap.Integrity = ipmi.AlgorithmName("integrity", uint8(cipher.Integrity))
		snap.Confidentiality = ipmi.AlgorithmName("confidentiality", uint8(cipher.Confidentiality))
	}
	if rc, ms, ok := s.provider.SessionIDs(); ok {
		snap.RemoteConsoleSession = rc
		snap.ManagedSystemSession = ms
	}
	snap.EstablishedForSeconds = s.provider.EstablishedSince().Seconds()
	if priv, ok := s.provider.CachedPrivilege(); ok {
		snap.CachedPrivilege = priv.String()
	}
	snap.RequestsSent, snap.RequestsErrored = s.provider.RequestCounts()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
