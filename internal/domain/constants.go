package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// DataFilePermissions is the permission for cache/data files (rw-r--r--)
	DataFilePermissions = 0o644
)

// Confidence thresholds for the tier cascade. Empirically chosen; the
// config file can override them.
const (
	// DefaultConfidentThreshold: at or above this, the TF-IDF result is trusted.
	DefaultConfidentThreshold = 0.65
	// DefaultUncertainThreshold: below this, the statistical match alone is
	// too weak and the classifier should be consulted.
	DefaultUncertainThreshold = 0.35
	// DefaultFloorThreshold: absolute floor below which the best TF-IDF
	// guess is discarded and the call is a miss.
	DefaultFloorThreshold = 0.15
	// DefaultMatchTopK is how many ranked candidates the matcher returns.
	DefaultMatchTopK = 3
)

// Volume and gesture defaults.
const (
	// DefaultVolumeSteps is the step count when no amount is given.
	DefaultVolumeSteps = 2
	// EmphasisVolumeSteps is the step count for "a lot" / "much more".
	EmphasisVolumeSteps = 5
	// MaxVolumeSteps approximates "max volume" with relative key presses;
	// the device volume primitive is relative, not absolute.
	MaxVolumeSteps = 15
	// MaxScrollRepeat caps repeated scroll gestures per command.
	MaxScrollRepeat = 10
	// DefaultTapJitter randomizes tap coordinates by up to this many pixels.
	DefaultTapJitter = 5
)

// Timeout and duration constants
const (
	// DefaultClassifierTimeout bounds one tier-2 classification call.
	DefaultClassifierTimeout = 30 * time.Second
	// DefaultAdbTimeout bounds one adb invocation.
	DefaultAdbTimeout = 15 * time.Second
	// DefaultClassifierMaxTokens keeps tier-2 replies short; the expected
	// output is a single small JSON object.
	DefaultClassifierMaxTokens = 60
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
