// mathrush is a timed arithmetic quiz for the terminal.
//
// Usage:
//
//	mathrush                     - Open the mode picker
//	mathrush play [mode]         - Start a run right away
//	mathrush modes               - List modes and difficulties
//	mathrush history             - Show the recent runs
//	mathrush history clear       - Forget the recent runs
//	mathrush stats               - Aggregate the run archive
//	mathrush serve               - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible question sets
//	--db <path>        - Set database path (default: ~/.mathrush/mathrush.db)
//	--backend <name>   - History backend: sqlite, redis or memory
//	--redis <addr>     - Redis address for the redis backend
//	--config <path>    - Custom game tuning YAML
//	--log-level <lvl>  - debug, info, warn or error
//	--mute             - Disable sound cues
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagBackend  string
	flagRedis    string
	flagConfig   string
	flagLogLevel string
	flagMute     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mathrush",
	Short: "Math Rush - Timed arithmetic drills in your terminal",
	Long: `Math Rush is a terminal arithmetic quiz. Answer fast to earn speed
stars, chain correct answers for combo multipliers, and beat boss questions
for bonus points.

Available commands:
  play     - Start a run directly
  modes    - Show modes and difficulties
  history  - View or clear the recent runs
  stats    - Aggregated statistics from the run archive
  serve    - Start SSH server for remote play

Examples:
  mathrush
  mathrush play quick --difficulty hard
  mathrush history
  mathrush serve --ssh :2222`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInteractive(cmd, nil)
	},
	SilenceUsage: true,
}

func init() {
	// Global persistent flags. Empty values fall back to MATHRUSH_* settings.
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default ~/.mathrush/mathrush.db)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "History backend: sqlite, redis, memory")
	rootCmd.PersistentFlags().StringVar(&flagRedis, "redis", "", "Redis address for the redis backend")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound cues")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}
