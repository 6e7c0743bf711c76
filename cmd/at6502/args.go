// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "strings"

// Options that may be written in the single-dash "-name:value" form.
var legacyOptions = map[string]bool{
	"console":   true,
	"list":      true,
	"output":    true,
	"symbols":   true,
	"map":       true,
	"config":    true,
	"verbose":   true,
	"start":     true,
	"length":    true,
	"romnum":    true,
	"chkoff":    true,
	"chksymbol": true,
}

// normalizeArgs rewrites "-name" and "-name:value" arguments into
// "--name" and "--name=value" for the known option names. Other arguments
// are passed through untouched.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		if !strings.HasPrefix(a, "-") || strings.HasPrefix(a, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(a[1:], ":")
		name = strings.ToLower(name)
		if !legacyOptions[name] {
			continue
		}
		if hasValue {
			out[i] = "--" + name + "=" + value
		} else {
			out[i] = "--" + name
		}
	}
	return out
}
