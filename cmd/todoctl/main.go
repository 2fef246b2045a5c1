// Command todoctl is the operator tool for the todo service: schema migrations
// and password hashes for seeding users by hand.
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
