package main

import (
	"fmt"
	"os"

	"github.com/kubernetes-incubator/kube-aws-network/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if e, ok := err.(*cmd.ExitError); ok {
			fmt.Fprintln(os.Stderr, e.Error())
			os.Exit(e.Code)
		}
		os.Exit(1)
	}
}
