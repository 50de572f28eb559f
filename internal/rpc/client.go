package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls AccountService over any connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, email, password, role string) (string, error) {
	out, err := c.call(ctx, MethodRegister, map[string]any{"email": email, "password": password, "role": role})
	if err != nil {
		return "", err
	}
	return str(out, "account_id"), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	out, err := c.call(ctx, MethodLogin, map[string]any{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	return str(out, "token"), nil
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	_, err := c.call(ctx, MethodResetPassword, map[string]any{"email": email, "newPassword": newPassword})
	return err
}

// WhoAmI expects the bearer token in ctx's outgoing metadata.
func (c *Client) WhoAmI(ctx context.Context) (accountID, role string, err error) {
	out, err := c.call(ctx, MethodWhoAmI, map[string]any{})
	if err != nil {
		return "", "", err
	}
	return str(out, "account_id"), str(out, "role"), nil
}
