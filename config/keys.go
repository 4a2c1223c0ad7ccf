package config

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Settings file keys
const (
	FileSchemeKey     = "file_scheme"
	InputPathKey      = "input_path"
	OutputPathKey     = "output_path"
	EncryptColumnsKey = "encrypt_columns"
	DelimiterKey      = "delimiter"
	NullValueKey      = "null_value"
	EmptyValueKey     = "empty_value"
	InputNilValueKey  = "input_nil_value"
	CommentKey        = "comment"
	LazyQuotesKey     = "lazy_quotes"
	HeaderKey         = "header"
	CompressionKey    = "compression"
	WorkersKey        = "workers"
	PartitionSizeKey  = "partition_size"
	LogLevelKey       = "log_level"
	LogFileKey        = "log_file"
)

// Keys which every settings file must provide
var requiredKeys = mapset.NewThreadUnsafeSet[string](
	FileSchemeKey, InputPathKey, OutputPathKey, EncryptColumnsKey,
)

// Keys which a settings file may provide
var optionalKeys = mapset.NewThreadUnsafeSet[string](
	DelimiterKey, NullValueKey, EmptyValueKey, InputNilValueKey, CommentKey, LazyQuotesKey, HeaderKey,
	CompressionKey, WorkersKey, PartitionSizeKey, LogLevelKey, LogFileKey,
)

var allowedKeys = requiredKeys.Union(optionalKeys)

// Defaults for optional keys
const (
	DefaultDelimiter     = ','
	DefaultSentinel      = "\u0000"
	DefaultCompression   = "none"
	DefaultPartitionSize = 1024
	DefaultLogLevel      = "warn"
)
