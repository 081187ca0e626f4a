package payload

// MillisecondThreshold is the value above which a resolved duration or
// position is assumed to be in milliseconds and divided by 1000.
//
// This is a heuristic, not a type tag: a track shorter than ten seconds that
// the server reports in milliseconds is read as seconds, and a track longer
// than ~2h46m reported in seconds is read as milliseconds. Values parsed from
// clock strings are always seconds and are exempt.
const MillisecondThreshold = 10000

// SourceKeys lists the objects searched for progress fields, in priority
// order. The empty key is the payload root.
var SourceKeys = []string{
	"",
	"playing",
	"tag",
	"data",
	"nowPlaying",
	"current",
}

// DurationAliases lists the field names tried for the track duration.
var DurationAliases = []string{
	"durationSeconds",
	"duration",
	"durationMs",
	"lengthSeconds",
	"length",
	"lengthMs",
	"totalSeconds",
	"total",
	"totalMs",
	"trackLength",
	"trackLengthMs",
	"trackDuration",
	"trackDurationMs",
}

// CurrentAliases lists the field names tried for the play position.
var CurrentAliases = []string{
	"currentSeconds",
	"current",
	"currentMs",
	"currentTime",
	"elapsedTime",
	"elapsedTimeMs",
	"positionSeconds",
	"positionMs",
	"elapsedSeconds",
	"elapsed",
	"elapsedMs",
	"progressSeconds",
	"progressMs",
	"time",
	"timeMs",
}

// RatioAliases lists the field names tried for a fractional position when no
// explicit position resolves. Values may be 0-1 or 0-100.
var RatioAliases = []string{
	"position",
	"progress",
	"positionRatio",
	"progressRatio",
	"positionPercent",
	"progressPercent",
}
