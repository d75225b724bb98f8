package main

import (
	"os"

	"github.com/zidan444/blog-app/service"
)

func main() {
	os.Exit(service.Execute())
}
