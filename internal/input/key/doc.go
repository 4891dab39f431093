// Package key provides the key event types shared by the input sources,
// the tracker and the publisher.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Code: Identifies a keyboard key using SDL 1.2 key symbol numbering
//   - Modifier: A bitmask of held modifier keys using SDL KMOD_* values
//   - RawEvent: One event as delivered by an input library
//   - Event: A reportable press or release with a capture timestamp
//
// # Wire Compatibility
//
// Codes and modifiers keep the numbering of the SDL 1.2 keyboard API so that
// published messages carry the same values as the keyboard_msgs/Key messages
// consumed downstream. Printable keys use their lower-case ASCII value
// ('a' is 97); Shift is reported through the modifier mask.
package key
