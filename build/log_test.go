package build

import (
	"bytes"
	"path/filepath"
	"testing"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, subsystems ...string) (*SubLoggerManager,
	*bytes.Buffer) {

	t.Helper()

	var b bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.NoTimestamps = true

	mgr := NewSubLoggerManager(cfg, &b)
	for _, subsystem := range subsystems {
		mgr.RegisterSubLogger(
			subsystem, mgr.GenSubLogger(subsystem, nil),
		)
	}

	return mgr, &b
}

// TestParseAndSetDebugLevels checks the global and per subsystem level
// syntax.
func TestParseAndSetDebugLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		level  string
		levels map[string]btclogv1.Level
		valid  bool
	}{
		{
			name:  "global",
			level: "debug",
			levels: map[string]btclogv1.Level{
				"CKPT": btclog.LevelDebug,
				"GARD": btclog.LevelDebug,
			},
			valid: true,
		},
		{
			name:  "global and subsystem",
			level: "warn,CKPT=trace",
			levels: map[string]btclogv1.Level{
				"CKPT": btclog.LevelTrace,
				"GARD": btclog.LevelWarn,
			},
			valid: true,
		},
		{
			name:  "subsystem only",
			level: "GARD=off",
			levels: map[string]btclogv1.Level{
				"GARD": btclog.LevelOff,
			},
			valid: true,
		},
		{
			name:  "invalid global",
			level: "loud",
		},
		{
			name:  "unknown subsystem",
			level: "info,XXXX=debug",
		},
		{
			name:  "invalid subsystem level",
			level: "info,CKPT=loud",
		},
		{
			name:  "malformed pair",
			level: "info,CKPT=debug=trace",
		},
		{
			name: "empty",
		},
		{
			name:  "pair without level",
			level: "info,CKPT",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			mgr, _ := newTestManager(t, "CKPT", "GARD")
			err := ParseAndSetDebugLevels(test.level, mgr)
			if !test.valid {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			loggers := mgr.SubLoggers()
			for subsystem, level := range test.levels {
				require.Equal(
					t, level, loggers[subsystem].Level(),
					subsystem,
				)
			}
		})
	}
}

// TestSubLoggerManager checks that every subsystem writes through the shared
// handler with its tag.
func TestSubLoggerManager(t *testing.T) {
	t.Parallel()

	mgr, b := newTestManager(t, "GARD", "CKPT")
	require.Equal(t, []string{"CKPT", "GARD"}, mgr.SupportedSubsystems())

	mgr.SetLogLevels("info")
	mgr.SubLoggers()["CKPT"].Infof("checkpoint at %d", 14)
	mgr.SubLoggers()["GARD"].Debugf("hidden")

	require.Contains(t, b.String(), "CKPT: checkpoint at 14")
	require.NotContains(t, b.String(), "hidden")

	// Unknown subsystems are ignored.
	mgr.SetLogLevel("NONE", "trace")
	require.Len(t, mgr.SubLoggers(), 2)
}

// TestNewSubLogger checks that subsystem loggers come from the generator and
// that logging stays disabled without one.
func TestNewSubLogger(t *testing.T) {
	t.Parallel()

	require.Equal(t, btclog.Disabled, NewSubLogger("CKPT", nil))

	mgr, b := newTestManager(t)
	logger := NewSubLogger("GARD", func(subsystem string) btclog.Logger {
		return mgr.GenSubLogger(subsystem, nil)
	})
	logger.Infof("header accepted")
	require.Contains(t, b.String(), "GARD: header accepted")
}

// TestBuildTypeNames checks the names printed in the version banner.
func TestBuildTypeNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "production", Production.String())
	require.Equal(t, "development", Development.String())
	require.Equal(t, "unknown", DeploymentType(9).String())

	require.Equal(t, "none", LogTypeNone.String())
	require.Equal(t, "stdout", LogTypeStdOut.String())
	require.Equal(t, "default", LogTypeDefault.String())
	require.Equal(t, "unknown", LogType(9).String())
}

// TestShutdownLogger checks that critical messages request a shutdown.
func TestShutdownLogger(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	var shutdowns int
	mgr := NewSubLoggerManager(DefaultLogConfig(), &b)
	logger := mgr.GenSubLogger("ANCD", func() {
		shutdowns++
	})

	logger.Criticalf("fatal %v", "error")
	require.Equal(t, 1, shutdowns)
	require.Contains(t, b.String(), "fatal error")
}

func TestLogConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	require.NoError(t, cfg.Validate())

	cfg.Compressor = "lz4"
	require.Error(t, cfg.Validate())

	cfg = DefaultLogConfig()
	cfg.MaxLogFiles = -1
	require.Error(t, cfg.Validate())
}

// TestRotatingLogWriter writes through a zstd rotating log file.
func TestRotatingLogWriter(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	cfg.Compressor = Zstd

	w := NewRotatingLogWriter()
	logFile := filepath.Join(t.TempDir(), "logs", "anchord.log")
	require.NoError(t, w.InitLogRotator(cfg, logFile))

	n, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, w.Close())

	cfg.Compressor = "lz4"
	require.Error(t, NewRotatingLogWriter().InitLogRotator(cfg, logFile))
}
