// FoodShare CLI: browse donations and manage requests from the command line
//
// Usage:
//
//	foodshare config set-server http://localhost:3000
//	foodshare foods list --search rice --order desc
//	foodshare foods top
//	foodshare requests list --food <food-id>
//	foodshare requests accept <request-id>
//	foodshare dashboard donor@example.com
package main

import (
	"fmt"
	"os"

	"github.com/foodshare/foodshare/cmd/foodshare/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
