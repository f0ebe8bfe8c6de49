// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solvegraph/pubgrub"
)

// Full method paths on the remote registry service. There is no generated
// client here: requests and replies are plain structpb.Struct values sent
// through ClientConn.Invoke, so the service only needs to speak a stable
// field layout rather than share a compiled .proto with this client.
const (
	getVersionsMethod     = "/pubgrub.registry.Registry/GetVersions"
	getDependenciesMethod = "/pubgrub.registry.Registry/GetDependencies"
)

// GRPCSource is a pubgrub.Source backed by a remote registry reached over
// gRPC. Each call is tagged with a fresh request ID for correlation in the
// remote's access logs.
type GRPCSource struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// DialGRPCSource dials target (e.g. "registry.internal:9443") and returns a
// Source that queries it for versions and dependencies. The connection uses
// insecure transport credentials; callers that need TLS should dial their
// own *grpc.ClientConn and use NewGRPCSource instead.
func DialGRPCSource(target string) (*GRPCSource, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing registry %s: %w", target, err)
	}
	return NewGRPCSource(conn), nil
}

// NewGRPCSource wraps an already-established connection.
func NewGRPCSource(conn *grpc.ClientConn) *GRPCSource {
	return &GRPCSource{conn: conn, timeout: 10 * time.Second}
}

// Close tears down the underlying connection.
func (g *GRPCSource) Close() error {
	return g.conn.Close()
}

func (g *GRPCSource) call(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply := &structpb.Struct{}
	if err := g.conn.Invoke(ctx, method, req, reply); err != nil {
		return nil, fmt.Errorf("invoking %s: %w", method, err)
	}
	return reply, nil
}

// GetVersions queries the remote registry for all versions of name.
func (g *GRPCSource) GetVersions(name pubgrub.Name) ([]pubgrub.Version, error) {
	req, err := structpb.NewStruct(map[string]any{
		"package":    name.Value(),
		"request_id": uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("building GetVersions request: %w", err)
	}

	reply, err := g.call(context.Background(), getVersionsMethod, req)
	if err != nil {
		return nil, err
	}

	raw := reply.Fields["versions"].GetListValue()
	if raw == nil {
		return nil, fmt.Errorf("registry reply for %s missing versions list", name.Value())
	}
	versions := make([]pubgrub.Version, 0, len(raw.Values))
	for _, v := range raw.Values {
		versions = append(versions, parseVersion(v.GetStringValue()))
	}
	return versions, nil
}

// GetDependencies queries the remote registry for the dependency terms of
// name@version.
func (g *GRPCSource) GetDependencies(name pubgrub.Name, version pubgrub.Version) ([]pubgrub.Term, error) {
	req, err := structpb.NewStruct(map[string]any{
		"package":    name.Value(),
		"version":    version.String(),
		"request_id": uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("building GetDependencies request: %w", err)
	}

	reply, err := g.call(context.Background(), getDependenciesMethod, req)
	if err != nil {
		return nil, err
	}

	raw := reply.Fields["dependencies"].GetListValue()
	if raw == nil {
		return nil, fmt.Errorf("registry reply for %s@%s missing dependencies list", name.Value(), version)
	}

	terms := make([]pubgrub.Term, 0, len(raw.Values))
	for _, v := range raw.Values {
		entry := v.GetStructValue()
		if entry == nil {
			continue
		}
		depName := entry.Fields["name"].GetStringValue()
		condition := entry.Fields["condition"].GetStringValue()
		set, err := pubgrub.ParseVersionRange(condition)
		if err != nil {
			return nil, fmt.Errorf("parsing dependency condition %q for %s: %w", condition, depName, err)
		}
		terms = append(terms, pubgrub.NewTerm(pubgrub.MakeName(depName), pubgrub.NewVersionSetCondition(set)))
	}
	return terms, nil
}

var _ pubgrub.Source = (*GRPCSource)(nil)
