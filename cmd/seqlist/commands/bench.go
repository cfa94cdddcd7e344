package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seqlist/internal/cli/output"
	"seqlist/internal/config"
	"seqlist/internal/workload"
	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/logger"
	"seqlist/pkg/malloc"
)

type benchFlags struct {
	size      int
	ops       int
	seed      uint64
	blockSize int
	workloads []string
}

func newBenchCmd(a *app) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the block list against a linked list",
		Long: `Run each configured workload against a block list and a doubly linked
list with the same seed, then print ns/op together with the block count and
unused slots of the block list.`,
		Example: `  seqlist bench --size 100000 --ops 50000 --workload insert,get
  SEQLIST_LIST_BLOCK_SIZE=64 seqlist bench`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("size") {
				cfg.Bench.Size = f.size
			}
			if cmd.Flags().Changed("ops") {
				cfg.Bench.Ops = f.ops
			}
			if cmd.Flags().Changed("seed") {
				cfg.Bench.Seed = f.seed
			}
			if cmd.Flags().Changed("block-size") {
				cfg.List.BlockSize = f.blockSize
			}
			if cmd.Flags().Changed("workload") {
				cfg.Bench.Workloads = f.workloads
			}

			if err := config.Validate(cfg); err != nil {
				return err
			}

			kinds := make([]workload.Kind, 0, len(cfg.Bench.Workloads))
			for _, w := range cfg.Bench.Workloads {
				k, err := workload.ParseKind(w)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}

			b := cfg.List.BlockSize
			if b == 0 {
				b = list.SqrtBlockSize(cfg.Bench.Size + cfg.Bench.Ops)
			}
			ctx := cmd.Context()
			if cfg.Bench.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Bench.Timeout)
				defer cancel()
			}
			logger.Info("bench starting", "block_size", b, "size", cfg.Bench.Size,
				"ops", cfg.Bench.Ops, "seed", cfg.Bench.Seed)

			runner := workload.NewRunner(cfg.Bench)
			table := output.NewTableData("Workload", "Impl", "Ops", "ns/op", "Blocks", "Slack")
			for _, k := range kinds {
				res, err := runner.Run(ctx, "block", k, blockFactory(b, cfg.List.MaxBlocks, "bench_"+string(k)))
				if err != nil {
					return err
				}
				table.AddRow(benchRow(res)...)

				res, err = runner.Run(ctx, "linked", k, func() (list.List[string], error) {
					return list.Make[string](), nil
				})
				if err != nil {
					return err
				}
				table.AddRow(benchRow(res)...)
			}
			return output.PrintTable(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().IntVar(&f.size, "size", 0, "elements to prefill (overrides bench.size)")
	cmd.Flags().IntVar(&f.ops, "ops", 0, "operations per workload (overrides bench.ops)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (overrides bench.seed)")
	cmd.Flags().IntVar(&f.blockSize, "block-size", 0, "block size b, 0 for ceil(sqrt(n)) (overrides list.block_size)")
	cmd.Flags().StringSliceVar(&f.workloads, "workload", nil, "workloads to run: append,insert,remove,get,set,mixed")
	return cmd
}

func blockFactory(b, maxBlocks int, name string) workload.Factory {
	return func() (list.List[string], error) {
		opts := listOptions[string](name)
		if maxBlocks > 0 {
			opts = append(opts, list.WithAllocator[string](malloc.NewPool[string](maxBlocks)))
		}
		l, err := list.New[string](b, opts...)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

func benchRow(res workload.Result) []string {
	blocks, slack := "-", "-"
	if res.HasStats {
		blocks = strconv.Itoa(res.Stats.Blocks)
		slack = strconv.Itoa(res.Stats.Slack)
	}
	return []string{
		string(res.Workload),
		res.Impl,
		strconv.Itoa(res.Ops),
		fmt.Sprintf("%.1f", res.NsPerOp()),
		blocks,
		slack,
	}
}
