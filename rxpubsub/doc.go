// Package rxpubsub adapts in-application publish-subscribe sources
// into [rx.Publisher] values.
//
// The [Stream] type simplifies the pattern of
// a single writer with many concurrent readers,
// who all need to observe the same sequence of values.
// [FromStream] exposes a stream as a publisher,
// and [FromChannel] does the same for an ordinary channel.
package rxpubsub
