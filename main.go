package main

import "github.com/cohortlab/rfmctl/cmd"

func main() {
	cmd.Execute()
}
