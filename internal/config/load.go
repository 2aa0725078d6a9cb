// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/goccy/go-yaml"
	getter "github.com/hashicorp/go-getter/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const (
	extHCL  = ".hcl"
	extYAML = ".yaml"
	extYML  = ".yml"
)

var (
	// ErrGetConfigFile is returned when the configuration file cannot be read or fetched.
	ErrGetConfigFile = errors.New("failed to get config file")
	// ErrParseConfigFile is returned when the configuration file cannot be decoded.
	ErrParseConfigFile = errors.New("failed to parse config file")
	// ErrUnknownFormat is returned for files that are neither HCL nor YAML.
	ErrUnknownFormat = errors.New("unknown config file format, expected .hcl, .yaml or .yml")
)

// Load returns the defaults overlaid with the file at src. src is either a
// path on FsFactory's filesystem or any go-getter source, e.g.
// git::https://github.com/org/repo//fetchusers.hcl?ref=v1.
// An empty src returns the defaults.
func Load(ctx context.Context, src string) (*Config, error) {
	cfg := Default()
	if src == "" {
		return cfg, nil
	}

	data, fileName, err := read(ctx, src)
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "decoding config file", "src", src, "file", fileName)

	if err := Decode(data, fileName, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Decode overlays the content of a config file onto cfg. The format is
// chosen from the extension of fileName.
func Decode(data []byte, fileName string, cfg *Config) error {
	var (
		f   fileConfig
		err error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case extHCL:
		err = decodeHCL(data, fileName, &f)
	case extYAML, extYML:
		err = decodeYAML(data, &f)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, fileName)
	}

	if err != nil {
		return err
	}

	return f.applyTo(cfg)
}

func decodeYAML(data []byte, f *fileConfig) error {
	if err := yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField()); err != nil {
		return errors.Join(ErrParseConfigFile, err)
	}

	return nil
}

func decodeHCL(data []byte, fileName string, f *fileConfig) error {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, fileName)
	if diags.HasErrors() {
		return errors.Join(ErrParseConfigFile, diagnosticsError(diags))
	}

	if diags := gohcl.DecodeBody(file.Body, evalContext(), f); diags.HasErrors() {
		return errors.Join(ErrParseConfigFile, diagnosticsError(diags))
	}

	return nil
}

func diagnosticsError(diags hcl.Diagnostics) error {
	var merr *multierror.Error
	for _, d := range diags.Errs() {
		merr = multierror.Append(merr, d)
	}

	return merr.ErrorOrNil()
}

// evalContext exposes the process environment as `env` plus a few string functions.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"trim":     stdlib.TrimFunc,
			"split":    stdlib.SplitFunc,
			"join":     stdlib.JoinFunc,
			"concat":   stdlib.ConcatFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// read returns the file content and the name used to pick the decoder.
func read(ctx context.Context, src string) ([]byte, string, error) {
	fs := FsFactory()

	if ok, _ := afero.Exists(fs, src); ok {
		data, err := afero.ReadFile(fs, src)
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		return data, filepath.Base(src), nil
	}

	return getURL(ctx, src)
}

// getURL retrieves the file at url using Hashicorp's go-getter.
// The download directory is removed before returning.
func getURL(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "fetchusers-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file read from there.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	return data, fileName, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits a go-getter URL into the directory URL
// and the file name, keeping any query string on the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	dir := filepath.Dir(last)

	if dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
