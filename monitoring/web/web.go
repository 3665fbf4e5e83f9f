// Package web includes the static web pages for the monitoring tool.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed dist/*
var staticAssets embed.FS

// DevEnvVar is the environment variable that switches the monitor to serving
// pages from disk. The value "true" or "1" serves the dist directory next to
// this source file. Any other non-empty value is used as the directory.
const DevEnvVar = "CASESIM_MONITOR_DEV"

// GetAssets returns the static assets
func GetAssets() http.FileSystem {
	if dir, ok := developmentDir(); ok {
		return http.Dir(dir)
	}

	subFS, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(subFS)
}

func developmentDir() (string, bool) {
	value, exist := os.LookupEnv(DevEnvVar)
	if !exist {
		return "", false
	}

	switch strings.ToLower(value) {
	case "", "false", "0":
		return "", false
	case "true", "1":
		_, sourcePath, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		return path.Join(path.Dir(sourcePath), "dist"), true
	default:
		return value, true
	}
}
