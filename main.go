package main

import (
	"github.com/pgschema/pgschema/cmd"
)

func main() {
	cmd.Execute()
}
