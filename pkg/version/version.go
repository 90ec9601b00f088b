// Package version はビルドのバージョン情報を提供する。
package version

import "runtime"

// Version はリリース時に -ldflags "-X github.com/zurustar/mconv/pkg/version.Version=..." で上書きされる
var Version = "0.1.0-dev"

// HasThreads は複数のOSスレッドで並列処理できるかを返す
func HasThreads() bool {
	return runtime.GOMAXPROCS(0) > 1
}
