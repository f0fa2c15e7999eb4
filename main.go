package main

import "github.com/DaniruKun/cascadecam/cmd"

func main() {
	cmd.Execute()
}
