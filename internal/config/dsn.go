package config

import (
	"net"
	"net/url"
	"strconv"
)

// joinHostPort brackets IPv6 hosts.
func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// urlEscape keeps passwords like "pa:ss@word" from breaking the DSN.
func urlEscape(s string) string {
	return url.QueryEscape(s)
}
