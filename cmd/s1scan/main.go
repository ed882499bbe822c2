// s1scan entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/s1tools/s1scan/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var ec *cmd.ExitCodeError
		if errors.As(err, &ec) {
			fmt.Fprintf(os.Stderr, "%s\n", ec.Msg)
			os.Exit(ec.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
