package config

const (
	defaultDataDir   = "~/.local/share/nomen"
	defaultLogDir    = "~/.local/share/nomen/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultWorkerCount = 4

	// Scorer weights. The magnitudes are empirical: they reproduce the
	// adjudications of a hand-labeled validation set, not a rule of the
	// Code. Recalibrate against labeled data before trusting changes.
	defaultEquivalentSpellingPenalty = 0.5
	defaultFuzzySpellingPenalty      = 2.0
	defaultMaxEditDistance           = 2
	defaultYearMismatchPenalty       = 1.0
	defaultUnavailablePenalty        = 2.0
	defaultFutureNamePenalty         = 5.0
	defaultGenusStagePenalty         = 1.0
	defaultSisterStagePenalty        = 3.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			EquivalentSpellingPenalty: defaultEquivalentSpellingPenalty,
			FuzzySpellingPenalty:      defaultFuzzySpellingPenalty,
			MaxEditDistance:           defaultMaxEditDistance,
			YearMismatchPenalty:       defaultYearMismatchPenalty,
			UnavailablePenalty:        defaultUnavailablePenalty,
			FutureNamePenalty:         defaultFutureNamePenalty,
			GenusStagePenalty:         defaultGenusStagePenalty,
			SisterStagePenalty:        defaultSisterStagePenalty,
		},
		Workers: Workers{
			Count: defaultWorkerCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
