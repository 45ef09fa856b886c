package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/suite"
)

// LoggerTestSuite tests the log package
type LoggerTestSuite struct {
	suite.Suite
	originalLogger zerolog.Logger
	testOutput     *bytes.Buffer
}

// SetupTest runs before each test
func (s *LoggerTestSuite) SetupTest() {
	s.originalLogger = Logger
	s.testOutput = &bytes.Buffer{}
	Configure(s.testOutput, zerolog.DebugLevel, true)
}

// TearDownTest runs after each test
func (s *LoggerTestSuite) TearDownTest() {
	Logger = s.originalLogger
	log.Logger = s.originalLogger
}

// TestLevelsWritten tests each helper emits at its level
func (s *LoggerTestSuite) TestLevelsWritten() {
	Debug().Msg("debug test")
	Info().Msg("info test")
	Warn().Msg("warn test")
	Error().Msg("error test")

	lines := strings.Split(strings.TrimSpace(s.testOutput.String()), "\n")
	s.Require().Len(lines, 4)

	levels := make([]string, 0, len(lines))
	for _, line := range lines {
		var event map[string]interface{}
		s.Require().NoError(json.Unmarshal([]byte(line), &event))
		s.Equal("hostcheck", event["app"])
		levels = append(levels, event["level"].(string))
	}
	s.Equal([]string{"debug", "info", "warn", "error"}, levels)
}

// TestLogWithFields tests logging with additional fields
func (s *LoggerTestSuite) TestLogWithFields() {
	Info().Str("collector", "ping").Msg("test message with fields")

	output := s.testOutput.String()
	s.Contains(output, "test message with fields")
	s.Contains(output, `"collector":"ping"`)
}

// TestSetLevelFilters tests that raising the level drops lower events
func (s *LoggerTestSuite) TestSetLevelFilters() {
	SetLevel(zerolog.WarnLevel)

	Info().Msg("hidden")
	Warn().Msg("shown")

	output := s.testOutput.String()
	s.NotContains(output, "hidden")
	s.Contains(output, "shown")
}

// TestConfigureAppliesLevel tests that Configure sets the package and global level
func (s *LoggerTestSuite) TestConfigureAppliesLevel() {
	Configure(s.testOutput, zerolog.ErrorLevel, true)
	s.Equal(zerolog.ErrorLevel, Logger.GetLevel())
	s.Equal(zerolog.ErrorLevel, log.Logger.GetLevel())

	Warn().Msg("dropped")
	s.Empty(s.testOutput.String())
}

// TestConsoleOutput tests the human readable writer
func (s *LoggerTestSuite) TestConsoleOutput() {
	Configure(s.testOutput, zerolog.InfoLevel, false)
	Info().Msg("console message")

	output := s.testOutput.String()
	s.Contains(output, "console message")
	s.NotContains(output, `"message"`)
}

// TestParseLevel tests level name parsing
func (s *LoggerTestSuite) TestParseLevel() {
	level, err := ParseLevel("")
	s.NoError(err)
	s.Equal(zerolog.WarnLevel, level)

	level, err = ParseLevel(" DEBUG ")
	s.NoError(err)
	s.Equal(zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	s.Error(err)
}

// TestLoggerInitialization tests the package default
func (s *LoggerTestSuite) TestLoggerInitialization() {
	level := s.originalLogger.GetLevel()
	s.True(level >= zerolog.DebugLevel && level <= zerolog.FatalLevel)
}

// TestSuite runs the logger test suite
func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
