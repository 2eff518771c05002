// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package fileutil

import (
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestHasShebang(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   []byte
		want bool
	}{
		{[]byte("#!/usr/bin/env bash"), true},
		{[]byte("#!/bin/bash"), true},
		{[]byte("#!/bin/sh"), true},
		{[]byte("#!foo bar"), false},
		{[]byte("#!/bin/zsh"), false},
		{[]byte("no shebang here"), false},
	}
	for _, tc := range tests {
		if got := HasShebang(tc.in); got != tc.want {
			t.Fatalf("HasShebang(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCouldBeScript(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		dir  bool
		want ScriptConfidence
	}{
		{"deploy.sh", false, ConfIsScript},
		{"deploy.bash", false, ConfIsScript},
		{".hidden", false, ConfNotScript},
		{"deploy.py", false, ConfNotScript},
		{"bin", true, ConfNotScript},
		{"deploy", false, ConfIfShebang},
	}
	for _, tc := range tests {
		fsys := fstest.MapFS{}
		if tc.dir {
			fsys[tc.name+"/placeholder"] = &fstest.MapFile{}
		} else {
			fsys[tc.name] = &fstest.MapFile{}
		}
		entries, err := fsys.ReadDir(".")
		if err != nil {
			t.Fatal(err)
		}
		entry := findEntry(entries, tc.name)
		if entry == nil {
			t.Fatalf("entry %q not found", tc.name)
		}
		if got := CouldBeScript(entry); got != tc.want {
			t.Errorf("CouldBeScript(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func findEntry(entries []fs.DirEntry, name string) fs.DirEntry {
	for _, e := range entries {
		if e.Name() == name {
			return e
		}
	}
	return nil
}
