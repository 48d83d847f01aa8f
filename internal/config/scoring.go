package config

// ScoringConfig toggles the automatic match transitions.
type ScoringConfig struct {
	AutoSwitchInnings bool
	AutoCompleteMatch bool
	DefaultOvers      int
}

func loadScoring() ScoringConfig {
	return ScoringConfig{
		AutoSwitchInnings: boolEnvOrDefault(envAutoSwitch, false),
		AutoCompleteMatch: boolEnvOrDefault(envAutoComplete, false),
		DefaultOvers:      intEnvOrDefault(envDefaultOvers, defaultDefaultOvers),
	}
}
