package main

import "github.com/AsimAftab/SalesSphere-Backend-sub001/cmd"

func main() {
	cmd.Execute()
}
