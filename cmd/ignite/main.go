// Command ignite is a command-line client for talking to a running
// ignite-server over the wire protocol: set, get, and rm subcommands
// against a single key.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ignitedb/ignite/pkg/client"
	"github.com/ignitedb/ignite/pkg/options"
)

const dialTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ignite:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("ignite", pflag.ContinueOnError)
	addr := flags.String("addr", options.DefaultAddr, "address of the ignite server")
	if err := flags.Parse(args); err != nil {
		return err
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: ignite [--addr host:port] <set|get|rm> ...")
	}

	c, err := client.Connect(*addr, dialTimeout)
	if err != nil {
		return err
	}
	defer c.Close()

	switch rest[0] {
	case "set":
		if len(rest) != 3 {
			return fmt.Errorf("usage: ignite set <key> <value>")
		}
		return c.Set(rest[1], rest[2])
	case "get":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ignite get <key>")
		}
		value, ok, err := c.Get(rest[1])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Key not found")
			return nil
		}
		fmt.Println(value)
		return nil
	case "rm":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ignite rm <key>")
		}
		if err := c.Remove(rest[1]); err != nil {
			if client.IsKeyNotFound(err) {
				fmt.Fprintln(os.Stderr, "Key not found")
				os.Exit(1)
			}
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q", rest[0])
	}
}
