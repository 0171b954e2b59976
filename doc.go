// Package rx contains a minimal, demand-aware publish/subscribe protocol
// and the [Create] primitive for building a [Publisher]
// out of imperative code that pushes values by hand.
//
// A [Publisher] does nothing until a [Subscriber] subscribes.
// The subscriber receives a [Subscription] first,
// through which it requests [Demand] or cancels.
// Values are only delivered while there is outstanding demand,
// and a single [Completion] ends the stream.
//
// Subpackages adapt common sources into publishers:
// [github.com/gordian-engine/rx/rxpubsub] for in-process streams and channels,
// and [github.com/gordian-engine/rx/rxquic] for QUIC datagrams.
package rx
