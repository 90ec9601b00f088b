package app

import "github.com/zurustar/mconv/pkg/version"

// runVersion バージョンとスレッド対応を表示
func (app *Application) runVersion() error {
	app.printer.Fprintf(app.stdout, "mconv %s (threads: %t)\n", version.Version, version.HasThreads())
	return nil
}
