package main

import "github.com/svalle/synu/cmd"

func main() {
	cmd.Execute()
}
