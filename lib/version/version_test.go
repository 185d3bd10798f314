// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoIncludesVersion(t *testing.T) {
	if got := Info(); !strings.HasPrefix(got, Version+" (") {
		t.Errorf("Info() = %q, want prefix %q", got, Version+" (")
	}
}

func TestInfoPrefersInjectedCommit(t *testing.T) {
	original := GitCommit
	t.Cleanup(func() { GitCommit = original })

	GitCommit = "abc1234"
	if got := Info(); !strings.Contains(got, "(abc1234, ") {
		t.Errorf("Info() = %q, want injected commit", got)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	got := Full()
	for _, want := range []string{runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(got, want) {
			t.Errorf("Full() = %q, missing %q", got, want)
		}
	}
}
