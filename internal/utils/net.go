package utils

import (
	"fmt"
	"net"
)

// CheckListenAddr reports whether addr can be bound for TCP right now.
func CheckListenAddr(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen address %s is unavailable: %w", addr, err)
	}
	return ln.Close()
}
