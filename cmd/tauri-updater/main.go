package main

import "github.com/okcodes/tauri-updater/cmd/tauri-updater/cmd"

func main() {
	cmd.Execute()
}
