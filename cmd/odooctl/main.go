// Command odooctl is a small admin tool over the SDK: it checks a server,
// inspects model schemas, runs arbitrary model methods and keeps API keys
// in the OS keyring.
package main

import (
	"github.com/shamank/odoo-sdk-go/internal/cli"
)

func main() {
	cli.Execute()
}
