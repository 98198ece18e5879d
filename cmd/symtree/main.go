package main

import "github.com/lexcodex/symtree/app/cmd"

func main() {
	cmd.Execute()
}
