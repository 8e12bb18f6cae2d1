// Command chesscore-uci runs the engine as a UCI-speaking process over
// stdin/stdout, for use by any GUI or tournament manager that drives
// engines through that protocol.
package main

import (
	"flag"

	"github.com/chesscore/chesscore/internal/uci"
)

func main() {
	flag.Parse()

	protocol := uci.New()
	protocol.Run()
}
