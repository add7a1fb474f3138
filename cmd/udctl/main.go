package main

import "github.com/yusufnuru/undrift/cmd/udctl/arg"

func main() {
	arg.Execute()
}
