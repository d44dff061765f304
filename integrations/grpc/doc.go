// Package firebasegrpc provides gRPC server interceptors that authenticate
// calls carrying Firebase ID tokens.
//
// Both unary and streaming interceptors read the token from the
// "authorization" metadata entry ("Bearer <token>"), verify it with the shared
// core and make the claims available in the call context.
//
// # Basic Usage
//
//	import (
//	    firebasegrpc "github.com/securetoken/go-firebase-middleware/integrations/grpc"
//	    "google.golang.org/grpc"
//	)
//
//	func main() {
//	    interceptor, err := firebasegrpc.New(
//	        firebasegrpc.WithVerifier(verifier),
//	        firebasegrpc.WithConfigSource(store),
//	        firebasegrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    server := grpc.NewServer(
//	        grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	        grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	    )
//	}
//
// # Accessing Claims
//
//	func (s *server) GetProfile(ctx context.Context, req *pb.Request) (*pb.Profile, error) {
//	    uid, ok := firebasegrpc.Subject(ctx)
//	    if !ok {
//	        return nil, status.Error(codes.Internal, "no subject")
//	    }
//	    ...
//	}
//
// # Error Handling
//
// Rejected calls fail with codes.Unauthenticated. The status message is
// "<label>: <detail>", for example "expired: Signature has expired", matching
// the JSON body the HTTP middleware returns.
package firebasegrpc
