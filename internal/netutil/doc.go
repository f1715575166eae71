// Package netutil holds the connectivity probe and port helpers.
//
// ProbeHost encodes the one difference between the address a server binds
// to and the address a client dials: the "any interface" address 0.0.0.0 is
// probed through loopback. CanConnect is the short-lived TCP probe used to
// detect occupants, readiness and shutdown. PortRegistry hands out free
// ports without giving the same port to two concurrent callers.
package netutil
