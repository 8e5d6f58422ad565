package main

import (
	"github.com/periodica-press/deposit/cmd"

	// Register format plugins
	_ "github.com/periodica-press/deposit/format/crossref"
	_ "github.com/periodica-press/deposit/format/doaj"
	_ "github.com/periodica-press/deposit/format/jats"
	_ "github.com/periodica-press/deposit/format/yamlrec"
)

func main() {
	cmd.Execute()
}
