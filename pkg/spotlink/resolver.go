package spotlink

import (
	"context"
	"fmt"
)

// FallbackMethod is the method name reported when every extraction strategy
// failed and the identifier placeholder was used.
const FallbackMethod = "identifier"

// Resolver runs extraction strategies in priority order until one produces
// usable metadata. It never fails: when every strategy errors out, a
// placeholder title is synthesized from the raw identifier so downstream
// matching always receives a non-empty title.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver over the given strategies, tried in order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// DefaultStrategies returns the standard network extraction chain:
// oEmbed lookup, embed-page scrape, canonical-page scrape.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewOEmbedStrategy(),
		NewEmbedStrategy(),
		NewPageStrategy(),
	}
}

// Resolve produces the best available metadata for ref, degrading gracefully
// through the strategy chain. The returned method names the strategy that
// produced the result. Individual strategy failures are swallowed; later
// strategies are only attempted when earlier ones fail.
func (r *Resolver) Resolve(ctx context.Context, ref *MediaReference) (md *TrackMetadata, method string) {
	for _, strategy := range r.strategies {
		extracted, err := strategy.Extract(ctx, ref)
		if err != nil || extracted == nil {
			continue
		}
		return extracted, strategy.Name()
	}

	return &TrackMetadata{
		Title: fmt.Sprintf("%s_%s", ref.Kind, ref.ID),
	}, FallbackMethod
}
