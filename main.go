package main

import "stocktake-manager/cmd"

func main() {
	cmd.Execute()
}
