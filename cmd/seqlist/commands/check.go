package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seqlist/internal/cli/output"
	"seqlist/internal/config"
	"seqlist/internal/workload"
	"seqlist/pkg/logger"
)

var errCheckFailed = errors.New("consistency check failed")

func newCheckCmd(a *app) *cobra.Command {
	var (
		ops        int
		seed       uint64
		blockSizes []int
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Replay random operations against a linked list reference",
		Long: `Apply the same random operation sequence to a block list and a doubly
linked list, comparing every result and verifying the block occupancy bounds
after each step. With list.max_blocks set, allocation failures are expected
and must leave the list unchanged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("ops") {
				cfg.Check.Ops = ops
			}
			if cmd.Flags().Changed("seed") {
				cfg.Check.Seed = seed
			}
			if cmd.Flags().Changed("block-sizes") {
				cfg.Check.BlockSizes = blockSizes
			}

			if err := config.Validate(cfg); err != nil {
				return err
			}

			table := output.NewTableData("Block size", "Ops", "Blocks", "Slack", "Spreads", "Gathers", "Refused", "Result")
			failed, totalOps, refused := 0, 0, 0
			var totalSpreads, totalGather uint64
			for _, b := range cfg.Check.BlockSizes {
				c := &workload.Checker{
					Ops:       cfg.Check.Ops,
					Seed:      cfg.Check.Seed,
					MaxBlocks: cfg.List.MaxBlocks,
					Options:   listOptions[int]("check_b" + strconv.Itoa(b)),
				}
				report, err := c.Run(cmd.Context(), b)
				result := "PASS"
				if err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					failed++
					result = "FAIL"
					logger.Error("check failed", "block_size", b, "error", err)
				}
				totalOps += report.Ops
				refused += report.AllocRefused
				totalSpreads += report.Final.Spreads
				totalGather += report.Final.Gathers
				table.AddRow(
					strconv.Itoa(b),
					strconv.Itoa(report.Ops),
					strconv.Itoa(report.Final.Blocks),
					strconv.Itoa(report.Final.Slack),
					strconv.FormatUint(report.Final.Spreads, 10),
					strconv.FormatUint(report.Final.Gathers, 10),
					strconv.Itoa(report.AllocRefused),
					result,
				)
			}
			out := cmd.OutOrStdout()
			if err := output.PrintTable(out, table); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := output.KeyValue(out, [][2]string{
				{"passed", fmt.Sprintf("%d/%d", len(cfg.Check.BlockSizes)-failed, len(cfg.Check.BlockSizes))},
				{"ops", strconv.Itoa(totalOps)},
				{"spreads", strconv.FormatUint(totalSpreads, 10)},
				{"gathers", strconv.FormatUint(totalGather, 10)},
				{"alloc refused", strconv.Itoa(refused)},
			}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d block sizes", errCheckFailed, failed, len(cfg.Check.BlockSizes))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ops, "ops", 0, "operations per block size (overrides check.ops)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (overrides check.seed)")
	cmd.Flags().IntSliceVar(&blockSizes, "block-sizes", nil, "block sizes to check (overrides check.block_sizes)")
	return cmd
}
