package main

import "edulearn_backend/internal/app"

func main() {
	app.Run()
}
