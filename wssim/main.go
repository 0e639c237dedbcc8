// Command wssim runs working-set virtual memory simulations.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/wssim/wssim/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
