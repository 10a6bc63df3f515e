// Command ipmi-cli dials a BMC, authenticates, sends one raw IPMI request
// and prints the parsed response (SPEC_FULL.md 4.13). It is the module's
// external demo entry point; spec.md's own core places CLI behavior out of
// scope ("not part of the core"), so only the wiring here is new.
//
// Grounded on the teacher's main.go: flag-based config path, logrus text
// formatter, config.Load with flag overrides layered on top. Dropped from
// the teacher's shape: file-rotated logging (logs.Writer, a SOL-console
// transcript concern this spec excludes), the BMH discovery scanner, and
// the multi-server SOL manager — all Non-goals here.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ipmiclient"
	"ipmiclient/config"
	"ipmiclient/ipmi"
	"ipmiclient/metrics"
	"ipmiclient/statusserver"
)

var version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	address := flag.String("address", "", "BMC address, host or host:port (default port 623)")
	username := flag.String("username", "", "IPMI username")
	password := flag.String("password", "", "IPMI password")
	netFn := flag.Uint("net-fn", 0, "request NetFn (e.g. 0x06 for App)")
	command := flag.Uint("command", 0, "request command code")
	dataHex := flag.String("data", "", "request data, as hex")
	statusAddr := flag.String("status-addr", "", "if set, serve a read-only status endpoint on this address")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Infof("ipmi-cli %s", version)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	applyFlagOverrides(cfg, *address, *username, *password, *netFn, *command, *dataHex, *statusAddr)

	if cfg.BMC.Address == "" || cfg.BMC.Username == "" {
		log.Fatal("an -address and -username (directly or via -config) are required")
	}

	data, err := hex.DecodeString(cfg.Request.DataHex)
	if err != nil {
		log.Fatalf("invalid -data hex: %v", err)
	}

	reg := prometheusRegistryOrNil()
	client, err := ipmiclient.New(cfg.BMC.Address, ipmiclient.WithMetrics(reg))
	if err != nil {
		log.Fatalf("connect to %s: %v", cfg.BMC.Address, err)
	}
	defer client.Close()
	client.SetReadTimeout(cfg.BMC.ReadTimeout)

	if cfg.StatusHTTP.Enabled {
		srv := statusserver.New(cfg.StatusHTTP.Addr, client)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				log.Warnf("status server stopped: %v", err)
			}
		}()
		log.Infof("status endpoint listening on %s", cfg.StatusHTTP.Addr)
	}

	if err := client.EstablishConnection(cfg.BMC.Username, cfg.BMC.Password); err != nil {
		log.Fatalf("establish connection: %v", err)
	}
	defer client.CloseSession()

	resp, err := client.SendRawRequest(ipmi.NetFn(cfg.Request.NetFn), cfg.Request.Command, data)
	if err != nil {
		log.Fatalf("send raw request: %v", err)
	}

	fmt.Printf("completion_code=%v data=%s\n", resp.CompletionCode, hex.EncodeToString(resp.Data))
}

func applyFlagOverrides(cfg *config.Config, address, username, password string, netFn, command uint, dataHex, statusAddr string) {
	if address != "" {
		cfg.BMC.Address = address
	}
	if username != "" {
		cfg.BMC.Username = username
	}
	if password != "" {
		cfg.BMC.Password = password
	}
	if netFn != 0 {
		cfg.Request.NetFn = uint8(netFn)
	}
	if command != 0 {
		cfg.Request.Command = uint8(command)
	}
	if dataHex != "" {
		cfg.Request.DataHex = dataHex
	}
	if statusAddr != "" {
		cfg.StatusHTTP.Enabled = true
		cfg.StatusHTTP.Addr = statusAddr
	}
}

// prometheusRegistryOrNil returns nil: the demo CLI does not itself expose
// a /metrics endpoint, so WithMetrics is given a nil collector, which is a
// documented no-op (metrics.Collector's nil-receiver methods).
func prometheusRegistryOrNil() *metrics.Collector {
	return nil
}
