// Package payload turns the loosely shaped JSON the jukebox server emits into
// canonical now-playing snapshots.
//
// The server reports the same logical data under many field names and at
// several nesting levels depending on endpoint and version. Rather than a
// cascade of conditionals, each field is resolved from an ordered alias table
// (see rules.go); the first alias that yields a usable value wins.
//
// Nothing in this package returns an error for a decodable payload. Unknown
// shapes degrade to an empty snapshot.
package payload
