// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// copyright_header enumerates Go files and adds the copyright header where it is missing.
//
// With -check it only lists the files missing the header, and exits with an error if there are any.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/strided/internal/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagProject = flag.String("project", "GoMLX", "Project name to use in the copyright header")
	flagCheck   = flag.Bool("check", false, "Only report files missing the header, don't change them")
)

// maxHeaderLine is the last line where an existing copyright header is searched for.
const maxHeaderLine = 50

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [path ...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnumerates Go files and adds a copyright header if missing.\n")
		fmt.Fprintf(os.Stderr, "Default path is current directory.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	header := fmt.Sprintf("// Copyright 2023-2026 The %s Authors. SPDX-License-Identifier: Apache-2.0\n\n", *flagProject)
	roots := flag.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	var missing []string
	for _, root := range roots {
		must.M(filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Hidden directories, vendor and the reference directories starting with "_" are skipped.
				name := d.Name()
				if name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".go") || strings.HasPrefix(d.Name(), "gen_") {
				return nil
			}
			changed, err := processFile(path, header, !*flagCheck)
			if changed {
				missing = append(missing, path)
			}
			return err
		}))
	}
	if *flagCheck && len(missing) > 0 {
		for _, path := range missing {
			fmt.Printf("missing copyright header: %s\n", path)
		}
		os.Exit(1)
	}
}

// processFile adds the header to the file in path if it is missing, and reports whether it was missing.
// If write is false, the file is not changed.
func processFile(path, header string, write bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %q", path)
	}
	newContent, changed := addHeader(content, header)
	if !changed || !write {
		return changed, nil
	}
	klog.Infof("Adding header to %s", path)
	if err := os.WriteFile(path, newContent, 0644); err != nil {
		return true, errors.Wrapf(err, "failed to write %q", path)
	}
	return true, nil
}

// addHeader returns the content with the header inserted, and whether it was missing.
//
// The header goes after any build constraint lines, separated by an empty line.
func addHeader(content []byte, header string) ([]byte, bool) {
	lines := strings.Split(string(content), "\n")
	lastBuildTagIndex := -1
	for i, line := range lines {
		if i > maxHeaderLine {
			break
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "// Copyright") {
			return content, false
		}
		if strings.HasPrefix(trimmed, "//go:build") || strings.HasPrefix(trimmed, "// +build") {
			lastBuildTagIndex = i
		}
	}
	if lastBuildTagIndex == -1 {
		return append([]byte(header), content...), true
	}
	prefix := strings.Join(lines[:lastBuildTagIndex+1], "\n")
	suffix := strings.TrimLeft(strings.Join(lines[lastBuildTagIndex+1:], "\n"), "\n")
	return []byte(prefix + "\n\n" + header + suffix), true
}
