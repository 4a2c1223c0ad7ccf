package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-sif/redact/digest"
	errors "github.com/go-sif/redact/errors"
	iutil "github.com/go-sif/redact/internal/util"
	"github.com/go-sif/redact/storage"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Read loads a settings file without validating it. The format is chosen by the
// file's extension, and files without one are read as JSON.
func Read(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if len(filepath.Ext(path)) == 0 {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, &errors.ConfigurationError{Reason: fmt.Sprintf("cannot read settings file %s", path), Err: err}
	}
	return v, nil
}

// Load reads and validates a settings file
func Load(path string) (*Settings, error) {
	v, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Resolve(v)
}

// Resolve validates raw settings. Every problem found is reported in a single
// ConfigurationError. No input or output location is touched.
func Resolve(v *viper.Viper) (*Settings, error) {
	var merr *multierror.Error
	fail := func(format string, args ...interface{}) {
		merr = multierror.Append(merr, fmt.Errorf(format, args...))
	}

	unknown := mapset.NewThreadUnsafeSet[string]()
	for _, key := range v.AllKeys() {
		if !allowedKeys.Contains(key) {
			unknown.Add(key)
		}
	}
	if unknown.Cardinality() > 0 {
		keys := unknown.ToSlice()
		fail("unknown settings [%s]", strings.Join(sortStrings(keys), ", "))
	}
	for _, key := range sortStrings(requiredKeys.ToSlice()) {
		if !v.IsSet(key) {
			fail("missing required setting %s", key)
		}
	}

	s := &Settings{}
	var err error
	if v.IsSet(FileSchemeKey) {
		if s.pathScheme, err = requiredString(v, FileSchemeKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if _, err := storage.NormalizeScheme(s.pathScheme); err != nil {
			fail("%s: %v", FileSchemeKey, err)
		}
	}
	if v.IsSet(InputPathKey) {
		if s.inputPath, err = requiredString(v, InputPathKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if v.IsSet(OutputPathKey) {
		if s.outputPath, err = requiredString(v, OutputPathKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if v.IsSet(EncryptColumnsKey) {
		if s.encryptColumns, err = columnList(v, EncryptColumnsKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	s.delimiter = DefaultDelimiter
	if v.IsSet(DelimiterKey) {
		if delim, err := optionalString(v, DelimiterKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if utf8.RuneCountInString(delim) != 1 {
			fail("%s must be a single character, was %q", DelimiterKey, delim)
		} else if r, _ := utf8.DecodeRuneInString(delim); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			fail("%s cannot be %q", DelimiterKey, delim)
		} else {
			s.delimiter = r
		}
	}
	s.nullValue = DefaultSentinel
	if v.IsSet(NullValueKey) {
		if s.nullValue, err = optionalString(v, NullValueKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	s.emptyValue = DefaultSentinel
	if v.IsSet(EmptyValueKey) {
		if s.emptyValue, err = optionalString(v, EmptyValueKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if v.IsSet(InputNilValueKey) {
		if s.inputNilValue, err = optionalString(v, InputNilValueKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	for key, sentinel := range map[string]string{NullValueKey: s.nullValue, EmptyValueKey: s.emptyValue} {
		if strings.ContainsRune(sentinel, s.delimiter) {
			fail("%s %q contains the delimiter %q", key, sentinel, s.delimiter)
		}
		if digest.UsesDigestAlphabet(sentinel) {
			s.warnings = append(s.warnings, fmt.Sprintf("%s %q could be mistaken for a digest", key, sentinel))
		}
	}
	if s.nullValue == s.emptyValue {
		msg := fmt.Sprintf("%s and %s are both %q, so nil and empty cells cannot be told apart in the output", NullValueKey, EmptyValueKey, s.nullValue)
		if v.IsSet(NullValueKey) || v.IsSet(EmptyValueKey) {
			s.warnings = append(s.warnings, msg)
		} else {
			s.notices = append(s.notices, msg)
		}
	}
	if v.IsSet(CommentKey) {
		if comment, err := optionalString(v, CommentKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if utf8.RuneCountInString(comment) != 1 {
			fail("%s must be a single character, was %q", CommentKey, comment)
		} else if r, _ := utf8.DecodeRuneInString(comment); r == s.delimiter || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			fail("%s cannot be %q", CommentKey, comment)
		} else {
			s.comment = r
		}
	}
	if v.IsSet(LazyQuotesKey) {
		lazyQuotes, ok := v.Get(LazyQuotesKey).(bool)
		if !ok {
			fail("%s must be true or false", LazyQuotesKey)
		}
		s.lazyQuotes = lazyQuotes
	}
	if v.IsSet(HeaderKey) {
		header, ok := v.Get(HeaderKey).(bool)
		if !ok {
			fail("%s must be true or false", HeaderKey)
		}
		s.header = header
	}
	s.compression = DefaultCompression
	if v.IsSet(CompressionKey) {
		if s.compression, err = optionalString(v, CompressionKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if s.compression != "none" && s.compression != "lz4" {
			fail("%s must be \"none\" or \"lz4\", was %q", CompressionKey, s.compression)
		}
	}
	if v.IsSet(WorkersKey) {
		if s.workers, err = intValue(v, WorkersKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if s.workers < 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", WorkersKey, errors.InvalidWorkerCountError{Count: s.workers}))
		}
	}
	s.partitionSize = DefaultPartitionSize
	if v.IsSet(PartitionSizeKey) {
		if s.partitionSize, err = intValue(v, PartitionSizeKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if s.partitionSize < 1 {
			fail("%s must be at least 1, was %d", PartitionSizeKey, s.partitionSize)
		}
	}
	s.logLevel = DefaultLogLevel
	if v.IsSet(LogLevelKey) {
		if s.logLevel, err = optionalString(v, LogLevelKey); err != nil {
			merr = multierror.Append(merr, err)
		} else if _, err := logrus.ParseLevel(s.logLevel); err != nil {
			fail("%s: %v", LogLevelKey, err)
		}
	}
	if v.IsSet(LogFileKey) {
		if s.logFile, err = optionalString(v, LogFileKey); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	// locations can only be resolved once their parts are known to be valid
	if merr.ErrorOrNil() == nil {
		if s.input, err = storage.ParseLocation(s.pathScheme, s.inputPath); err != nil {
			fail("%s: %v", InputPathKey, err)
		}
		if s.output, err = storage.ParseLocation(s.pathScheme, s.outputPath); err != nil {
			fail("%s: %v", OutputPathKey, err)
		}
		if merr.ErrorOrNil() == nil && within(s.input, s.output) {
			fail("%s %s would be overwritten by %s %s", InputPathKey, s.input.String(), OutputPathKey, s.output.String())
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		merr.ErrorFormat = formatProblems
		return nil, &errors.ConfigurationError{Reason: "invalid settings", Err: merr}
	}
	return s, nil
}

// formatProblems lists every problem found in a settings file, one per line
func formatProblems(errs []error) string {
	return strings.TrimSuffix(fmt.Sprintf("%d problem(s)\n%s", len(errs), iutil.FormatMultiError(errs)), "\n")
}

// within returns true iff a Location is the same as, or beneath, a directory.
// An output directory may sit inside the input directory, since only files
// directly inside the input directory are read.
func within(loc storage.Location, dir storage.Location) bool {
	if loc.Scheme != dir.Scheme || loc.Bucket != dir.Bucket {
		return false
	}
	return loc.Key == dir.Key || strings.HasPrefix(loc.Key, dir.Prefix())
}

func requiredString(v *viper.Viper, key string) (string, error) {
	val, err := optionalString(v, key)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(val)) == 0 {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return val, nil
}

func optionalString(v *viper.Viper, key string) (string, error) {
	val, ok := v.Get(key).(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return val, nil
}

// columnList reads a non-empty list of unique, non-empty column names
func columnList(v *viper.Viper, key string) ([]string, error) {
	raw, ok := v.Get(key).([]interface{})
	if !ok {
		if strs, isStrs := v.Get(key).([]string); isStrs {
			raw = make([]interface{}, len(strs))
			for i, str := range strs {
				raw[i] = str
			}
		} else {
			return nil, fmt.Errorf("%s must be a list of column names", key)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s must not be empty", key)
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	cols := make([]string, 0, len(raw))
	for i, item := range raw {
		col, ok := item.(string)
		if !ok || len(col) == 0 {
			return nil, fmt.Errorf("%s[%d] must be a non-empty column name", key, i)
		}
		if !seen.Add(col) {
			return nil, fmt.Errorf("%s lists %s more than once", key, col)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// intValue reads a whole number. JSON numbers arrive as float64.
func intValue(v *viper.Viper, key string) (int, error) {
	switch val := v.Get(key).(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%s must be a whole number, was %v", key, val)
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}
