// Package sink holds bus subscribers that carry key messages out of the
// process.
//
// JSONLines writes every message as one JSON object per line. Script hands
// every message to a Lua on_key callback and reloads the script when its
// file changes. Both implement event.Handler and expect payloads of type
// event.Event[publish.KeyMessage]; anything else is ignored.
package sink
