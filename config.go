// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers

package anchord

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anchorchain/anchord/anchorcfg"
	"github.com/anchorchain/anchord/build"
	"github.com/anchorchain/anchord/chainreg"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/anchorchain/anchord/signal"
	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "anchord.log"

	defaultStatsInterval = 10 * time.Minute
)

var (
	// DefaultAnchorDir is the default directory where anchord tries to
	// find its configuration file and store its logs.
	DefaultAnchorDir = btcutil.AppDataDir("anchord", false)

	// DefaultConfigFile is the default full path of anchord's
	// configuration file.
	DefaultConfigFile = filepath.Join(
		DefaultAnchorDir, anchorcfg.DefaultConfigFilename,
	)

	defaultLogDir = filepath.Join(DefaultAnchorDir, defaultLogDirname)
)

// Config defines the configuration options for anchord.
//
// See LoadConfig for further details regarding the configuration
// loading+parsing process.
//
//nolint:lll
type Config struct {
	ShowVersion bool `short:"V" long:"version" description:"Display version information and exit"`

	AnchorDir  string `long:"anchordir" description:"The base directory that contains anchord's configuration file and logs."`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir     string `long:"logdir" description:"Directory to log output."`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	MainNet bool `long:"mainnet" description:"Use the main network"`
	TestNet bool `long:"testnet" description:"Use the test network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`
	SimNet  bool `long:"simnet" description:"Use the simulation test network"`

	AddCheckpoints     []string `long:"addcheckpoint" description:"Add a custom checkpoint. Format: '<height>:<hash>'"`
	DisableCheckpoints bool     `long:"nocheckpoints" description:"Disable built-in checkpoints. Don't do this unless you know what you're doing."`
	SyncSpan           int32    `long:"syncspan" description:"Number of blocks the sync checkpoint trails the best chain tip by, 0 selects the default of 100"`

	HeadersFile string `long:"headersfile" description:"File of serialized block headers to replay on startup"`

	StatsInterval time.Duration `long:"statsinterval" description:"How often the state of the best chain is logged, 0 disables it"`

	HealthChecks *anchorcfg.HealthCheckConfig `group:"healthcheck" namespace:"healthcheck"`

	Prometheus anchorcfg.Prometheus `group:"prometheus" namespace:"prometheus"`

	LogConfig *build.LogConfig `group:"logging"`

	// LogRotator is the rotating log file writer shared by all
	// subsystem loggers.
	LogRotator *build.RotatingLogWriter

	// SubLogMgr manages the subsystem loggers and their levels.
	SubLogMgr *build.SubLoggerManager

	// ActiveNetParams are the parameters of the selected network.
	ActiveNetParams chainreg.NetParams

	// Checkpoints are the parsed AddCheckpoints.
	Checkpoints []checkpoints.Checkpoint
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		AnchorDir:       DefaultAnchorDir,
		ConfigFile:      DefaultConfigFile,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		StatsInterval:   defaultStatsInterval,
		HealthChecks:    anchorcfg.DefaultHealthCheckConfig(),
		Prometheus:      anchorcfg.DefaultPrometheus(),
		LogConfig:       build.DefaultLogConfig(),
		LogRotator:      build.NewRotatingLogWriter(),
		ActiveNetParams: chainreg.MainNetParams,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig(interceptor signal.Interceptor) (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if _, err := flags.Parse(&preCfg); err != nil {
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", build.Version(),
			"commit="+build.Commit)
		os.Exit(0)
	}

	// If the config file path has not been modified by the user, then
	// we'll use the default config file path. However, if the user has
	// modified their anchordir, then we should assume they intend to use
	// the config file within it.
	configFileDir := anchorcfg.CleanAndExpandPath(preCfg.AnchorDir)
	configFilePath := anchorcfg.CleanAndExpandPath(preCfg.ConfigFile)
	if configFileDir != DefaultAnchorDir {
		if configFilePath == DefaultConfigFile {
			configFilePath = filepath.Join(
				configFileDir, anchorcfg.DefaultConfigFilename,
			)
		}
	}

	// Next, load any additional configuration options from the file.
	var configFileError error
	cfg := preCfg
	if err := flags.IniParse(configFilePath, &cfg); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		var iniErr *flags.IniError
		if errors.As(err, &iniErr) {
			return nil, err
		}

		configFileError = err
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	if _, err := flags.Parse(&cfg); err != nil {
		return nil, err
	}

	// Make sure everything we just loaded makes sense.
	cleanCfg, err := ValidateConfig(cfg, usageMessage, interceptor)
	if err != nil {
		return nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid
	// options. Note this should go directly before the return.
	if configFileError != nil {
		anchLog.Warnf("%v", configFileError)
	}

	return cleanCfg, nil
}

// ValidateConfig check the given configuration to be sane. This makes sure no
// illegal values or combination of values are set. All file system paths are
// normalized. The cleaned up config is returned on success.
func ValidateConfig(cfg Config, usageMessage string,
	interceptor signal.Interceptor) (*Config, error) {

	// If the provided anchord directory is not the default, we'll modify
	// the path to the log directory so that it lives within it.
	anchorDir := anchorcfg.CleanAndExpandPath(cfg.AnchorDir)
	if anchorDir != DefaultAnchorDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(anchorDir, defaultLogDirname)
	}

	funcName := "ValidateConfig"
	mkErr := func(format string, args ...interface{}) error {
		return fmt.Errorf(funcName+": "+format, args...)
	}

	// As soon as we're done parsing configuration options, ensure all
	// paths to directories and files are cleaned and expanded before
	// attempting to use them later on.
	cfg.LogDir = anchorcfg.CleanAndExpandPath(cfg.LogDir)
	cfg.HeadersFile = anchorcfg.CleanAndExpandPath(cfg.HeadersFile)

	// Multiple networks can't be selected simultaneously. Count number of
	// network flags passed; assign active network params while we're at
	// it.
	numNets := 0
	cfg.ActiveNetParams = chainreg.MainNetParams
	if cfg.MainNet {
		numNets++
	}
	if cfg.TestNet {
		numNets++
		cfg.ActiveNetParams = chainreg.TestNetParams
	}
	if cfg.RegTest {
		numNets++
		cfg.ActiveNetParams = chainreg.RegTestNetParams
	}
	if cfg.SimNet {
		numNets++
		cfg.ActiveNetParams = chainreg.SimNetParams
	}
	if numNets > 1 {
		str := "The mainnet, testnet, regtest, and simnet params " +
			"can't be used together -- choose one of the four"
		return nil, mkErr(str)
	}

	if cfg.SyncSpan < 0 {
		return nil, mkErr("syncspan must be non-negative, got %d",
			cfg.SyncSpan)
	}

	if cfg.DisableCheckpoints && len(cfg.AddCheckpoints) > 0 {
		return nil, mkErr("addcheckpoint and nocheckpoints can't be " +
			"used together")
	}

	cps, err := anchorcfg.ParseCheckpoints(cfg.AddCheckpoints)
	if err != nil {
		return nil, mkErr("%v", err)
	}
	cfg.Checkpoints = cps

	if cfg.StatsInterval < 0 {
		return nil, mkErr("statsinterval must be non-negative, got %v",
			cfg.StatsInterval)
	}

	// Validate the subconfigs.
	err = anchorcfg.Validate(cfg.LogConfig, cfg.HealthChecks)
	if err != nil {
		return nil, mkErr("error validating sub config: %w", err)
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network in the same fashion as the data directory.
	cfg.LogDir = filepath.Join(
		cfg.LogDir, anchorcfg.NormalizeNetwork(cfg.ActiveNetParams.Name),
	)

	// A log writer must be passed in, otherwise we can't function and
	// would run into a panic later on.
	if cfg.LogRotator == nil {
		return nil, mkErr("log writer missing in config")
	}

	// Initialize logging at the default logging level.
	cfg.SubLogMgr = build.NewSubLoggerManager(
		cfg.LogConfig, &build.LogWriter{Rotator: cfg.LogRotator},
	)
	SetupLoggers(cfg.SubLogMgr, interceptor)

	err = cfg.LogRotator.InitLogRotator(
		cfg.LogConfig, filepath.Join(cfg.LogDir, defaultLogFilename),
	)
	if err != nil {
		str := "log rotation setup failed: %v"
		return nil, mkErr(str, err)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems",
			cfg.SubLogMgr.SupportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	err = build.ParseAndSetDebugLevels(cfg.DebugLevel, cfg.SubLogMgr)
	if err != nil {
		str := "error parsing debug level: %v"
		return nil, &flags.Error{
			Type:    flags.ErrInvalidChoice,
			Message: mkErr(str, err).Error() + "\n" + usageMessage,
		}
	}

	return &cfg, nil
}
