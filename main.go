package main

import "github.com/GoldenFealla/SyncPlayerGo/internal/cmd"

func main() {
	cmd.Execute()
}
