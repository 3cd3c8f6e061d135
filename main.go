package main

import "github.com/highfiveapp/highfive_backend/cmd"

func main() {
	cmd.Execute()
}
