package main

import "github.com/nguyentranbao-ct/marketplace/cmd"

func main() {
	cmd.Execute()
}
