package main

import "empdash/internal/app/server"

func main() {
	server.Run()
}
