// Command loftctl is a terminal client for the loft management API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mamadbah2/loftkeeper/pkg/clients/loftapi"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if errors.Is(err, loftapi.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "login required: run `loftctl login` and export LOFT_TOKEN")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
