// Command rankboard-demo walks a class roster through a full sort and a
// series of score updates, printing the board after every step.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
