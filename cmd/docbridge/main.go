// Command docbridge queries MongoDB collections and GridFS buckets with
// REST-style filters.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kart-io/docbridge/internal/docbridge"
)

func main() {
	docbridge.NewApp().Run()
}
