package main

import "leaveportal/internal/app/server"

func main() {
	server.Run()
}
