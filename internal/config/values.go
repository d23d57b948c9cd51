// Package config loads the simulator's tunable Settings and its mempool
// allowlist directory from environment variables (and an optional .env
// file), following the same viper.SetDefault/viper.BindEnv/panic-on-missing
// pattern the teacher's internal/config uses for its own bundler-wide
// Values.
package config

import (
	"fmt"
	"math/big"

	"github.com/spf13/viper"

	"github.com/quantum-warriors/uservalidator/pkg/simulation"
)

func variableNotSetOrIsNil(env string) bool {
	return !viper.IsSet(env) || viper.GetString(env) == ""
}

// SettingsFromEnv reads simulation.Settings from environment variables,
// falling back to simulation.DefaultSettings()'s values where unset.
func SettingsFromEnv() simulation.Settings {
	defaults := simulation.DefaultSettings()

	viper.SetDefault("uservalidator_min_unstake_delay", defaults.MinUnstakeDelay)
	viper.SetDefault("uservalidator_min_stake_value", defaults.MinStakeValue.String())
	viper.SetDefault("uservalidator_max_simulate_handle_ops_gas", defaults.MaxSimulateHandleOpsGas)
	viper.SetDefault("uservalidator_max_verification_gas", defaults.MaxVerificationGas)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	_ = viper.BindEnv("uservalidator_min_unstake_delay")
	_ = viper.BindEnv("uservalidator_min_stake_value")
	_ = viper.BindEnv("uservalidator_max_simulate_handle_ops_gas")
	_ = viper.BindEnv("uservalidator_max_verification_gas")
	_ = viper.BindEnv("uservalidator_eth_client_url")
	_ = viper.BindEnv("uservalidator_mempool_config_path")

	if variableNotSetOrIsNil("uservalidator_eth_client_url") {
		panic("fatal config error: uservalidator_eth_client_url not set")
	}

	minStakeValue, ok := new(big.Int).SetString(viper.GetString("uservalidator_min_stake_value"), 10)
	if !ok {
		panic("fatal config error: uservalidator_min_stake_value is not a base-10 integer")
	}

	return simulation.Settings{
		MinUnstakeDelay:         uint32(viper.GetUint("uservalidator_min_unstake_delay")),
		MinStakeValue:           minStakeValue,
		MaxSimulateHandleOpsGas: viper.GetUint64("uservalidator_max_simulate_handle_ops_gas"),
		MaxVerificationGas:      viper.GetUint64("uservalidator_max_verification_gas"),
	}
}

// EthClientURL returns the bound JSON-RPC endpoint for the live Provider
// implementation. It does not check the value itself; SettingsFromEnv is the
// call that panics when it is unset.
func EthClientURL() string {
	return viper.GetString("uservalidator_eth_client_url")
}

// MempoolConfigPath returns the configured path to the mempool allowlist
// document, or "" if unset (an empty path means "no mempools configured",
// not a config error, since a deployment may run an empty directory).
func MempoolConfigPath() string {
	return viper.GetString("uservalidator_mempool_config_path")
}
