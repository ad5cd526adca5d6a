package main

import "github.com/llehouerou/taplist/cmd"

func main() {
	cmd.Execute()
}
