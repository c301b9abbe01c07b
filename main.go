package main

import "github.com/iksnae/complaint-desk/cmd"

func main() {
	cmd.Execute()
}
