package raptor

import "github.com/spf13/viper"

// DefaultTunables are the request-shaping defaults a host can source
// from RAPTOR_* env vars or a YAML file instead of hard-coding them at
// every call site (§1.3). The core itself never reads viper directly -
// LoadDefaultTunables produces a plain struct that Request.applyDefaults
// merges in for whatever the caller left at its zero value.
type DefaultTunables struct {
	BoardSlackSeconds           int64
	NumberOfAdditionalTransfers int
	DepartureStepSeconds        int64
	CostFactors                 CostFactors
}

// newTunablesViper builds a private viper instance rather than using
// the global singleton - a routing library embedded in a larger
// process must not fight that process over package-level viper state.
func newTunablesViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("RAPTOR")
	v.AutomaticEnv()

	v.SetDefault("board_slack_seconds", 60)
	v.SetDefault("number_of_additional_transfers", 3)
	v.SetDefault("departure_step_seconds", 60)
	v.SetDefault("cost_precision", 100)
	v.SetDefault("cost_boarding_cost", 300)
	v.SetDefault("cost_wait_factor", 2)
	v.SetDefault("cost_transit_factor", 1)
	v.SetDefault("cost_walk_factor", 2)
	return v
}

// LoadDefaultTunables reads tunables from RAPTOR_* environment
// variables (or configPath, if non-empty) layered over the documented
// defaults (§6): board slack 60s, 3 additional transfers, a 60s
// departure step, and the §4.8 cost-factor defaults.
func LoadDefaultTunables(configPath string) (DefaultTunables, error) {
	v := newTunablesViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return DefaultTunables{}, newInvalidRequest("reading tunables config: " + err.Error())
		}
	}
	return DefaultTunables{
		BoardSlackSeconds:           v.GetInt64("board_slack_seconds"),
		NumberOfAdditionalTransfers: v.GetInt("number_of_additional_transfers"),
		DepartureStepSeconds:        v.GetInt64("departure_step_seconds"),
		CostFactors: CostFactors{
			Precision:     v.GetInt64("cost_precision"),
			BoardingCost:  v.GetInt64("cost_boarding_cost"),
			WaitFactor:    v.GetInt64("cost_wait_factor"),
			TransitFactor: v.GetInt64("cost_transit_factor"),
			WalkFactor:    v.GetInt64("cost_walk_factor"),
		},
	}, nil
}
