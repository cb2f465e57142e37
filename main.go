package main

import (
	"fmt"
	"os"

	"financetrack/cmd/categorize"
	"financetrack/cmd/migrate"
	"financetrack/cmd/root"
	"financetrack/cmd/serve"
)

func init() {
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(migrate.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
