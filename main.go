package main

import (
	"os"

	"github.com/andreistan26/doltool/cmd"
	"github.com/andreistan26/doltool/pkg/log"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
