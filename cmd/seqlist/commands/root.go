// Package commands 实现 seqlist 命令行
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seqlist/internal/config"
	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/logger"
	"seqlist/pkg/metrics"
	promlist "seqlist/pkg/metrics/prometheus"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// 带有该注解的命令不加载配置
const skipConfig = "skip-config"

// app 在一次命令执行期间共享的状态
type app struct {
	configPath  string
	logLevel    string
	metricsAddr string

	cfg        *config.Config
	metricsSrv *metrics.Server
}

// NewRootCmd 构建完整的命令树，每次调用返回独立的实例
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "seqlist",
		Short: "Block-chained list benchmark and consistency checker",
		Long: `seqlist exercises a space-efficient list made of fixed-capacity
circular blocks, comparing it against a doubly linked list.

Configuration is read from $XDG_CONFIG_HOME/seqlist/config.yaml and can be
overridden with SEQLIST_<SECTION>_<KEY> environment variables, for example
SEQLIST_LIST_BLOCK_SIZE=64.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default: $XDG_CONFIG_HOME/seqlist/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (DEBUG|INFO|WARN|ERROR)")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	root.AddCommand(
		newBenchCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	root.CompletionOptions.DisableDefaultCmd = true
	return root, a
}

// Execute 运行命令行，ctx 取消时中断正在执行的负载
func Execute(ctx context.Context) error {
	root, a := newRoot()
	return run(ctx, root, a)
}

// run 执行命令，无论成功与否都会关闭指标服务
func run(ctx context.Context, root *cobra.Command, a *app) (err error) {
	defer func() {
		if terr := a.teardown(); terr != nil && err == nil {
			err = terr
		}
	}()
	return root.ExecuteContext(ctx)
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(a.logLevel)
	}
	if a.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = a.metricsAddr
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg

	if cfg.Metrics.Enabled {
		srv, err := metrics.Listen(cfg.Metrics.Listen, metrics.InitRegistry())
		if err != nil {
			return err
		}
		a.metricsSrv = srv
		logger.Info("metrics endpoint listening", "addr", srv.Addr())
	}
	return nil
}

func (a *app) teardown() error {
	if a.metricsSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.metricsSrv.Shutdown(ctx)
	a.metricsSrv = nil
	metrics.Disable()
	return err
}

// listOptions 为名为 name 的 BlockList 挂上指标与 debug 日志
func listOptions[T any](name string) []list.Option[T] {
	var opts []list.Option[T]
	if m := promlist.NewListMetrics(name); m != nil {
		opts = append(opts, list.WithMetrics[T](m))
	}
	opts = append(opts, list.WithLogger[T](logger.Slog().With("list", name)))
	return opts
}
