// sitectl builds the static site and manages staff accounts and inquiries.
package main

import (
	"os"

	"beginnings/cmd/sitectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
