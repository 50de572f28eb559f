// Command accountctl calls the account service over gRPC.
//
//	accountctl -addr localhost:50051 register <email> <password> <role>
//	accountctl login <email> <password>
//	accountctl reset <email> <new-password>
//	accountctl -token <jwt> whoami
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"clinic-api/internal/rpc"
)

var errUsage = errors.New("usage: accountctl [-addr host:port] [-token jwt] register|login|reset|whoami args...")

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	token := flag.String("token", "", "bearer token for whoami")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := run(ctx, rpc.NewClient(conn), *token, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *rpc.Client, token string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch {
	case cmd == "register" && len(args) == 3:
		id, err := c.Register(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, id)
	case cmd == "login" && len(args) == 2:
		tok, err := c.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tok)
	case cmd == "reset" && len(args) == 2:
		if err := c.ResetPassword(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "password reset")
	case cmd == "whoami" && len(args) == 0:
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
		id, role, err := c.WhoAmI(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", id, role)
	default:
		return errUsage
	}
	return nil
}
