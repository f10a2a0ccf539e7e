// logtally - access log statistics
//
// logtally parses nginx-style access logs and reports per-source request
// counts, response sizes and the most frequent resources, statuses, clients
// and referers.
package main

import (
	"os"

	"github.com/ccollicutt/logtally/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
