package bridge

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/knob/internal/adapters/cachefile" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/knob/internal/core/ports"
)

// NodeID is the unique identifier for the cache bridge Graft node.
const NodeID graft.ID = "engine.bridge"

func init() {
	graft.Register(graft.Node[*Bridge]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cachefile.NodeID},
		Run: func(ctx context.Context) (*Bridge, error) {
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			return New(store), nil
		},
	})
}
