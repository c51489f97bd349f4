// secparse - record dump filter and summarizer
//
// secparse normalizes moquery text, XML and JSON dumps into entries, filters
// and sorts them, and summarizes event, audit and fault records.
package main

import (
	"os"

	"github.com/ccollicutt/secparse/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
