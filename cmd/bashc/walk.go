package main

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bashc-dev/bashc/fileutil"
)

// expandPaths resolves a mix of file and directory arguments into a
// flat list of files to compile: a path named directly is always
// compiled; a directory is walked and only entries fileutil judges as
// plausible Bash sources are kept.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			switch fileutil.CouldBeScript(entry) {
			case fileutil.ConfIsScript:
				out = append(out, path)
			case fileutil.ConfIfShebang:
				bs, err := os.ReadFile(path)
				if err == nil && fileutil.HasShebang(bs) {
					out = append(out, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
