// Package ipmiclient implements an IPMI v2.0 / RMCP+ client: the RMCP and
// IPMI wire codecs (package ipmi), the RAKP session state machine (package
// session), a UDP transport (package transport), and this package's Client
// façade tying the three together behind the boundary spec.md 4.9 names.
//
// A minimal session looks like:
//
//	c, err := ipmiclient.New("bmc.example.com:623")
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.EstablishConnection("admin", "secret"); err != nil { ... }
//	resp, err := c.SendRawRequest(ipmi.NetFnChassisReq, 0x01, nil)
package ipmiclient
