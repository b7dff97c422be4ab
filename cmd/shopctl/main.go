package main

import "shop-admin/cmd/shopctl/commands"

func main() {
	commands.Execute()
}
