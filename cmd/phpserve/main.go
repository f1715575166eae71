// Command phpserve runs php's built-in web server in the foreground until it
// is interrupted, then kills the server and every process it spawned.
//
//	phpserve --docroot ./public --router ./public/index.php --port 8080
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
