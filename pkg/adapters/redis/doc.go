/*
Package redis carries behavior invocations between halves through Redis.

The receiving node runs a Listener, which subscribes to
"<prefix>split:<source>" and advertises its behaviors in the set
"<prefix>behaviors:<source>". The sending node's Link resolves behaviors
against that set, publishes JSON invocations and, when an ack is requested,
waits on "<prefix>ack:<id>" with BLPOP.
*/
package redis
