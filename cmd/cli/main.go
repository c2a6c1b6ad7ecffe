// logwindow - log time window filter
//
// logwindow prints the lines of log files whose leading timestamp falls
// inside a time window.
package main

import (
	"os"

	"github.com/ccollicutt/logwindow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
