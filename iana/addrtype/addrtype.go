// Package addrtype defines the Kerberos host-address type constants.
package addrtype

const (
	INET    = 2
	CHAOS   = 5
	XNS     = 6
	ISO     = 7
	DDP     = 16
	INET6   = 24
	ADDRPORT = 256
	IPPORT  = 257
)
