package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"retype.dev/pkg/retype/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "retype"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	typedefsFlagName = "typedefs"
	inputFlagName    = "input"
	outputFlagName   = "output"
	symbolsFlagName  = "symbols"
	noCacheFlagName  = "no-cache"
	aliasesFlagName  = "aliases"
	dryRunFlagName   = "dry-run"
	verboseFlagName  = "verbose"
	logFileFlagName  = "log-file"

	typedefsKey = "paths.typedefs"
	inputKey    = "paths.input"
	outputKey   = "paths.output"
	symbolsKey  = "paths.symbols"
	noCacheKey  = "no-cache"

	corpusModulesDirKey      = "corpus.modules_dir"
	corpusCoreFileKey        = "corpus.core_file"
	corpusQualifiedRootsKey  = "corpus.qualified_roots"
	corpusRootClassMarkerKey = "corpus.root_class_marker"
	corpusNameSuffixesKey    = "corpus.name_suffixes"
	corpusThreadsKey         = "corpus.threads"

	resolveBaseClassesKey = "resolve.base_classes"
	resolveMaxDepthKey    = "resolve.max_depth"
	resolveCacheSizeKey   = "resolve.cache_size"

	registrationDeclaratorKey = "registration.declarator"
	registrationDefinesKey    = "registration.defines"
	walkRootDepthKey          = "walk.root_depth"

	aliasesFileKey       = "aliases.file"
	normalizeCommandKey  = "normalize.command"
	normalizeCacheDirKey = "normalize.cache_dir"

	defaultSymbols           = "typedefs.json"
	defaultNoCache           = false
	defaultNormalizeCacheDir = ".retype-cache"

	envPrefix = "RETYPE"

	legacyTypedefsEnv = "TYPEDEF_REPO"
	legacyInputEnv    = "GAME_COMPILED_JS"
	legacyOutputEnv   = "OUTPUT_GAME_COMPILED_JS"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".retype.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	if err := loadDotEnv(filepath.Join(configFolderPath, dotEnvFileName)); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	bindLegacyEnv(typedefsKey, legacyTypedefsEnv)
	bindLegacyEnv(inputKey, legacyInputEnv)
	bindLegacyEnv(outputKey, legacyOutputEnv)

	defaults := domain.DefaultConfig()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(typedefsKey, "")
	viper.SetDefault(inputKey, "")
	viper.SetDefault(outputKey, "")
	viper.SetDefault(symbolsKey, defaultSymbols)
	viper.SetDefault(noCacheKey, defaultNoCache)

	viper.SetDefault(corpusModulesDirKey, defaults.Corpus.ModulesDir)
	viper.SetDefault(corpusCoreFileKey, defaults.Corpus.CoreFile)
	viper.SetDefault(corpusQualifiedRootsKey, defaults.Corpus.QualifiedRoots)
	viper.SetDefault(corpusRootClassMarkerKey, defaults.Corpus.RootClassMarker)
	viper.SetDefault(corpusNameSuffixesKey, defaults.Corpus.NameSuffixes)
	viper.SetDefault(corpusThreadsKey, defaults.Corpus.Threads)

	viper.SetDefault(resolveBaseClassesKey, defaults.Resolver.BaseClasses)
	viper.SetDefault(resolveMaxDepthKey, defaults.Resolver.MaxDepth)
	viper.SetDefault(resolveCacheSizeKey, defaults.Resolver.CacheSize)

	viper.SetDefault(registrationDeclaratorKey, defaults.Annotator.Declarator)
	viper.SetDefault(registrationDefinesKey, defaults.Annotator.Defines)
	viper.SetDefault(walkRootDepthKey, defaults.Annotator.RootDepth)

	viper.SetDefault(aliasesFileKey, "")
	viper.SetDefault(normalizeCommandKey, []string{})
	viper.SetDefault(normalizeCacheDirKey, defaultNormalizeCacheDir)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		slog.Warn("failed to read config file", "error", err)
	}
}

// loadDotEnv exports the variables of a dotenv file that are not already
// set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// bindLegacyEnv lets an old unprefixed variable name feed key. The prefixed
// name still wins when both are set.
func bindLegacyEnv(key, legacy string) {
	prefixed := envPrefix + "_" + strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToUpper(key))

	if err := viper.BindEnv(key, prefixed, legacy); err != nil {
		slog.Warn("failed to bind environment variable", "key", key, "error", err)
	}
}

// domainConfig reads the corpus and program conventions from configuration.
func domainConfig() domain.Config {
	return domain.Config{
		Corpus: domain.CorpusConfig{
			ModulesDir:      viper.GetString(corpusModulesDirKey),
			CoreFile:        viper.GetString(corpusCoreFileKey),
			RootClassMarker: viper.GetString(corpusRootClassMarkerKey),
			QualifiedRoots:  viper.GetStringSlice(corpusQualifiedRootsKey),
			NameSuffixes:    viper.GetStringSlice(corpusNameSuffixesKey),
			Threads:         viper.GetInt(corpusThreadsKey),
		},
		Resolver: domain.ResolverConfig{
			BaseClasses:    viper.GetStringSlice(resolveBaseClassesKey),
			QualifiedRoots: viper.GetStringSlice(corpusQualifiedRootsKey),
			MaxDepth:       viper.GetInt(resolveMaxDepthKey),
			CacheSize:      viper.GetInt(resolveCacheSizeKey),
		},
		Annotator: domain.AnnotatorConfig{
			Declarator:    viper.GetString(registrationDeclaratorKey),
			Defines:       viper.GetString(registrationDefinesKey),
			RootDepth:     viper.GetInt(walkRootDepthKey),
			GenerateEdits: true,
		},
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
