// Command token issues a bearer token for the report archive endpoints,
// signed with JWT_SECRET.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"backend-stridelog/internal/auth"
	"backend-stridelog/internal/config"
)

var loadConfig = config.Load

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("token: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stdout)
	subject := fs.String("subject", "", "token subject, e.g. an operator name")
	ttl := fs.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("-subject is required")
	}

	token, err := auth.IssueToken(loadConfig().JWTSecret, *subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}
