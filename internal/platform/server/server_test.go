package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func dialHealth(t *testing.T, storeServing bool) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := New("bufconn", storeServing, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("server did not stop")
		}
	})

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestServer_HealthReportsStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		serving bool
		want    healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "database", serving: true, want: healthpb.HealthCheckResponse_SERVING},
		{name: "sample data", serving: false, want: healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := dialHealth(t, tt.serving)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: StoreService})
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if resp.GetStatus() != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, resp.GetStatus())
			}

			overall, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if overall.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				t.Fatalf("process must report SERVING, got %v", overall.GetStatus())
			}
		})
	}
}
