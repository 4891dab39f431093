// Package topic provides hierarchical topic names and wildcard matching for
// the message bus.
//
// Topics use dot-notation. The key bridge publishes on two flat topics by
// default ("keydown" and "keyup"); deployments that share a bus usually
// namespace them, e.g. "keyboard.keydown".
//
// Two wildcards are supported in subscription patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	keyboard.*    matches keyboard.keydown, keyboard.keyup
//	**.keyup      matches keyup, keyboard.keyup, robot.keyboard.keyup
//	**            matches everything
package topic
