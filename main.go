package main

import (
	"fmt"
	"os"

	"github.com/dkrupke/flachtex/cmd"
)

func main() {
	if err := cmd.RootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(3) // cobra only returns argument/flag errors here
	}
}
