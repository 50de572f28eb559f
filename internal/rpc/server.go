// Package rpc exposes the account service over gRPC. Messages are
// google.protobuf.Struct values keyed like the HTTP JSON bodies, so no
// generated stubs are needed.
package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"clinic-api/internal/logging"
	"clinic-api/internal/middleware"
	"clinic-api/internal/service"
)

const ServiceName = "clinic.v1.AccountService"

const (
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodResetPassword = "/" + ServiceName + "/ResetPassword"
	MethodWhoAmI        = "/" + ServiceName + "/WhoAmI"
)

type AccountServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WhoAmI(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type Server struct {
	accounts service.Accounts
	log      logging.Logger
}

var _ AccountServiceServer = (*Server)(nil)

func NewServer(accounts service.Accounts, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{accounts: accounts, log: log.With("component", "rpc")}
}

// NewGRPCServer wires the interceptors and registers s. rl may be nil.
func NewGRPCServer(s AccountServiceServer, tokens middleware.TokenParser, rl *middleware.RateLimiter, opts ...grpc.ServerOption) *grpc.Server {
	var chain []grpc.UnaryServerInterceptor
	if rl != nil {
		chain = append(chain, middleware.RateLimit(rl, MethodRegister, MethodLogin, MethodResetPassword))
	}
	chain = append(chain, middleware.Auth(tokens, MethodWhoAmI))

	srv := grpc.NewServer(append(opts, grpc.ChainUnaryInterceptor(chain...))...)
	Register(srv, s)
	return srv
}

func Register(r grpc.ServiceRegistrar, s AccountServiceServer) {
	r.RegisterService(&serviceDesc, s)
}

func (s *Server) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.accounts.Register(ctx, service.RegisterInput{
		Email:    str(in, "email"),
		Password: str(in, "password"),
		Role:     str(in, "role"),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return structpb.NewStruct(map[string]any{"account_id": id})
}

func (s *Server) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	tok, err := s.accounts.Login(ctx, service.LoginInput{
		Email:    str(in, "email"),
		Password: str(in, "password"),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return structpb.NewStruct(map[string]any{"token": tok})
}

func (s *Server) ResetPassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	err := s.accounts.ResetPassword(ctx, service.ResetInput{
		Email:       str(in, "email"),
		NewPassword: str(in, "newPassword"),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func (s *Server) WhoAmI(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	c, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no token")
	}
	return structpb.NewStruct(map[string]any{"account_id": c.AccountID, "role": c.Role})
}

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func (s *Server) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return status.Error(codes.InvalidArgument, "missing required field")
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	default:
		s.log.Error(ctx, "rpc failed", "err", err)
		return status.Error(codes.Internal, "internal error")
	}
}

type unaryCall func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(method string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, icpt grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(AccountServiceServer)
		if icpt == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return icpt(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*structpb.Struct))
		})
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: handler(MethodRegister, AccountServiceServer.Register)},
		{MethodName: "Login", Handler: handler(MethodLogin, AccountServiceServer.Login)},
		{MethodName: "ResetPassword", Handler: handler(MethodResetPassword, AccountServiceServer.ResetPassword)},
		{MethodName: "WhoAmI", Handler: handler(MethodWhoAmI, AccountServiceServer.WhoAmI)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clinic/v1/account.proto",
}
