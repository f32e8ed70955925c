package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/structkit/framekernel/solver"
)

var rootCmd = &cobra.Command{
	Use:   "framekernel",
	Short: "3D frame structural analysis engine",
	Long: `framekernel - linear static and buckling analysis of 3D framed structures.

Models are assembled from beam elements with six degrees of freedom per node.
The static path solves the constrained elastic system for displacements,
reactions and internal forces; the buckling path computes critical load
factors and mode shapes from the elastic and geometric stiffness.

Solver tuning can be overridden through the environment (optionally via a
.env file):
  FRAMEKERNEL_WORKERS           assembly worker count
  FRAMEKERNEL_DIRECT_THRESHOLD  free-DOF cutoff for the direct solver
  FRAMEKERNEL_CG_TOL            conjugate-gradient relative tolerance
  FRAMEKERNEL_CG_MAX_ITER       conjugate-gradient iteration budget`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig builds the solver configuration from defaults plus environment
// overrides. A .env file in the working directory is honored when present.
func loadConfig() solver.Config {
	godotenv.Load()

	cfg := solver.DefaultConfig()
	if v, ok := envInt("FRAMEKERNEL_WORKERS"); ok {
		cfg.Workers = v
	}
	if v, ok := envInt("FRAMEKERNEL_DIRECT_THRESHOLD"); ok {
		cfg.DirectThreshold = v
	}
	if v, ok := envFloat("FRAMEKERNEL_CG_TOL"); ok {
		cfg.CGTol = v
	}
	if v, ok := envInt("FRAMEKERNEL_CG_MAX_ITER"); ok {
		cfg.CGMaxIter = v
	}
	return cfg
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s=%q: %v\n", key, s, err)
		return 0, false
	}
	return v, true
}

func envFloat(key string) (float64, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s=%q: %v\n", key, s, err)
		return 0, false
	}
	return v, true
}
