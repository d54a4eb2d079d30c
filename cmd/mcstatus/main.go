// Command mcstatus is a thin demonstration front-end over the mcstatus
// library. The CLI itself is out of scope for the library's design; this
// exists only to exercise the dialect methods from a terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/0xkowalskidev/mcstatus"
)

func main() {
	var (
		timeout = flag.Duration("timeout", 5*time.Second, "query timeout")
		dialect = flag.String("dialect", "modern", "modern, netty, legacy, beta, query-basic, query-full, bedrock")
		port    = flag.Uint("port", mcstatus.DefaultJavaPort, "server port")
		asJSON  = flag.Bool("json", false, "print JSON instead of text")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mcstatus [options] <host>")
		os.Exit(1)
	}
	host := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conf := mcstatus.NewConfWithPort(host, uint16(*port))

	result, err := query(ctx, conf, *dialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "encode error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("%+v\n", result)
}

func query(ctx context.Context, conf mcstatus.Conf, dialect string) (interface{}, error) {
	switch dialect {
	case "modern":
		return conf.GetServerStatus(ctx)
	case "netty":
		return conf.GetNettyServerStatus(ctx)
	case "legacy":
		return conf.GetLegacyServerStatus(ctx)
	case "beta":
		return conf.GetBetaLegacyServerStatus(ctx)
	case "query-basic":
		return conf.QueryBasic(ctx)
	case "query-full":
		return conf.QueryFull(ctx)
	case "bedrock":
		return conf.GetBedrockRaknetStatus(ctx)
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
}
