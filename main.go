package main

import "github.com/osdev-go/ksync/cmd"

func main() {
	cmd.Execute()
}
