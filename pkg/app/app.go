// Package app はコマンドの実行を管理する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zurustar/mconv/pkg/cli"
	"github.com/zurustar/mconv/pkg/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
	printer *message.Printer
}

// New Applicationを作成
func New() *Application {
	return NewWithOutput(os.Stdout, os.Stderr)
}

// NewWithOutput コマンドの出力先とログの出力先を指定してApplicationを作成
func NewWithOutput(stdout, stderr io.Writer) *Application {
	return &Application{
		stdout:  stdout,
		stderr:  stderr,
		printer: message.NewPrinter(language.English),
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return app.RunContext(ctx, args)
}

// RunContext ctx がキャンセルされると batch の残りの変換を中止する
func (app *Application) RunContext(ctx context.Context, args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Debug("Command started", "command", app.config.Command, "args", app.config.Args)

	// 3. コマンドの実行
	var err error
	switch app.config.Command {
	case cli.CommandInfo:
		err = app.runInfo(app.config.Args)
	case cli.CommandConvert:
		err = app.runConvert(app.config.Args[0], app.config.Args[1])
	case cli.CommandResize:
		err = app.runResize(app.config.Args[0], app.config.Args[1])
	case cli.CommandBatch:
		err = app.runBatch(ctx, app.config.Args)
	case cli.CommandVersion:
		err = app.runVersion()
	default:
		err = fmt.Errorf("unknown command: %s", app.config.Command)
	}
	if err != nil {
		app.log.Error("Command failed", "command", app.config.Command, "error", err)
		return err
	}

	app.log.Debug("Command finished", "command", app.config.Command)
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	err := logger.InitLoggerWithOptions(logger.Options{
		Level:  app.config.LogLevel,
		Format: app.config.LogFormat,
		Output: app.stderr,
	})
	if err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}
