// Command solc is the SOL25 compiler front-end: lexer, parser,
// semantic analyzer, and XML emitter wired behind a single CLI entry
// point.
package main

import (
	"os"

	"github.com/sol25lang/solc/cmd/solc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
