package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/spf13/cobra"

	"github.com/carbocation/popgen/genemapper"
	"github.com/carbocation/popgen/permtest"
)

var (
	configPath  string
	storePath   string
	mode        string
	replicates  int
	workers     int
	seed        int64
	groups      []int
	independent bool
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "permtest",
		Short: "Permutation tests of population differentiation on GeneMapper exports",
	}

	runCmd = &cobra.Command{
		Use:   "run [export]",
		Short: "Build a G_ST null distribution for an export and report its p-value",
		Args:  cobra.ExactArgs(1),
		RunE:  runTest,
	}

	runsCmd = &cobra.Command{
		Use:   "runs",
		Short: "List the runs recorded in a store",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
)

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML file with the test configuration")
	runCmd.Flags().StringVar(&mode, "mode", "", "multig, monog, intragroup-monog, alleles or intragroup-alleles")
	runCmd.Flags().IntVar(&replicates, "replicates", 0, "Number of permuted replicates")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Replicates computed concurrently")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed of replicate 0; replicate i uses seed+i")
	runCmd.Flags().IntSliceVar(&groups, "groups", nil, "Group ids the permutation acts on")
	runCmd.Flags().BoolVar(&independent, "independent-alleles", false, "Treat each allele column as its own haploid locus")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every replicate")

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite file where runs are recorded")

	rootCmd.AddCommand(runCmd, runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	return filepath.Join(usr.HomeDir, path[2:])
}

// loadConfig starts from the YAML file, if any, and applies flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command) (permtest.Config, error) {
	cfg := permtest.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = permtest.LoadConfig(expandHome(configPath)); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = permtest.Mode(mode)
	}
	if flags.Changed("replicates") {
		cfg.Replicates = replicates
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("groups") {
		cfg.Groups = groups
	}
	if cmd.Root().PersistentFlags().Changed("store") {
		cfg.Store = storePath
	}

	return cfg, cfg.Validate()
}

func runTest(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := args[0]
	if !strings.HasPrefix(path, "gs://") {
		path = expandHome(path)
	}
	logger.Info("reading export", "path", path)
	ds, err := genemapper.ReadPath(ctx, path, genemapper.Options{IndependentAlleles: independent})
	if err != nil {
		return err
	}

	c, err := ds.MultiGContainer()
	if err != nil {
		return pfx.Err(err)
	}

	res, err := permtest.Run(ctx, c, cfg, permtest.GST, permtest.WithLogger(logger))
	if err != nil {
		return pfx.Err(err)
	}

	fmt.Printf("G_ST\t%.6f\n", res.Observed)
	fmt.Printf("p\t%.6f\n", res.PValue)
	fmt.Printf("null\tmean=%.6f\tsd=%.6f\tn=%d\n", res.Mean, res.StdDev, len(res.Null))

	if cfg.Store == "" {
		return nil
	}

	st, err := permtest.OpenStore(expandHome(cfg.Store))
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveRun(ctx, cfg, res)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "id", id, "store", cfg.Store, "driver", permtest.WhichSQLiteDriver())

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	if storePath == "" {
		return fmt.Errorf("--store is required")
	}

	st, err := permtest.OpenStore(expandHome(storePath))
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(cmd.Context())
	if err != nil {
		return err
	}

	for i, r := range runs {
		fmt.Printf("%d) %s\t%s\t%s\tn=%d\tG_ST=%.6f\tp=%.6f\n",
			i, r.ID, r.CreatedAt.Time().Format("2006-01-02 15:04:05"), r.Mode, r.Replicates, r.Observed, r.PValue)
	}
	log.Println("Saw", len(runs), "runs")

	return nil
}
