package rpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"clinic-api/internal/auth"
	"clinic-api/internal/middleware"
	"clinic-api/internal/rpc"
	"clinic-api/internal/service"
	"clinic-api/internal/store/storetest"
)

type env struct {
	client *rpc.Client
	store  *storetest.Memory
	tokens *auth.Issuer
}

func setup(t *testing.T, rl *middleware.RateLimiter) *env {
	t.Helper()
	iss, err := auth.NewIssuer("rpc-secret", time.Hour)
	require.NoError(t, err)
	st := storetest.NewMemory()
	svc := service.NewAccountService(st, iss, bcrypt.MinCost, nil)

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewGRPCServer(rpc.NewServer(svc, nil), iss, rl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &env{client: rpc.NewClient(conn), store: st, tokens: iss}
}

func TestRegisterLoginWhoAmI(t *testing.T) {
	e := setup(t, nil)
	ctx := context.Background()

	id, err := e.client.Register(ctx, "grpc@clinic.io", "pw", "doctor")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tok, err := e.client.Login(ctx, "grpc@clinic.io", "pw")
	require.NoError(t, err)

	claims, err := e.tokens.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AccountID)
	assert.Equal(t, "doctor", claims.Role)

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
	gotID, role, err := e.client.WhoAmI(authed)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "doctor", role)
}

func TestWhoAmIRequiresToken(t *testing.T) {
	e := setup(t, nil)
	_, _, err := e.client.WhoAmI(context.Background())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestErrorCodes(t *testing.T) {
	e := setup(t, nil)
	ctx := context.Background()
	_, err := e.client.Register(ctx, "codes@clinic.io", "pw", "patient")
	require.NoError(t, err)

	_, err = e.client.Register(ctx, "", "pw", "patient")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = e.client.Register(ctx, "codes@clinic.io", "pw", "patient")
	assert.Equal(t, codes.Internal, status.Code(err))
	st, _ := status.FromError(err)
	assert.Equal(t, "internal error", st.Message())

	_, err = e.client.Login(ctx, "nobody@clinic.io", "pw")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = e.client.Login(ctx, "codes@clinic.io", "wrong")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = e.client.ResetPassword(ctx, "nobody@clinic.io", "x")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestResetPassword(t *testing.T) {
	e := setup(t, nil)
	ctx := context.Background()
	_, err := e.client.Register(ctx, "reset@clinic.io", "old", "patient")
	require.NoError(t, err)

	require.NoError(t, e.client.ResetPassword(ctx, "reset@clinic.io", "new"))

	_, err = e.client.Login(ctx, "reset@clinic.io", "new")
	assert.NoError(t, err)
	_, err = e.client.Login(ctx, "reset@clinic.io", "old")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRateLimited(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	defer rl.Close()
	e := setup(t, rl)
	ctx := context.Background()

	_, err := e.client.Login(ctx, "nobody@clinic.io", "pw")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = e.client.Login(ctx, "nobody@clinic.io", "pw")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}
