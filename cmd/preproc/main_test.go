//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/preproc/artifact"
)

const sampleSource = "#define N 42\n#ifdef FOO\nint a=N;\n#else\nint b;\n#endif\n"

const (
	sampleBaseVariant = "\n\n\n\nint b;\n\n"
	sampleFooVariant  = "\n\nint a=42;\n\n\n\n"
)

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.c")
	require.NoError(t, os.WriteFile(path, []byte(sampleSource), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"preproc"}, args...))
	return out.String(), err
}

func TestListMode(t *testing.T) {
	t.Parallel()

	out, err := runApp(t, "--list", writeSample(t))
	require.NoError(t, err)
	require.Equal(t, "\nFOO\n", out)
}

func TestConfigMode(t *testing.T) {
	t.Parallel()

	out, err := runApp(t, "--config", "FOO", writeSample(t))
	require.NoError(t, err)
	require.Equal(t, sampleFooVariant, out)
}

func TestConfigModeUnknown(t *testing.T) {
	t.Parallel()

	_, err := runApp(t, "--config", "BAR", writeSample(t))
	require.ErrorContains(t, err, "not enumerated")
}

func TestDefaultStdout(t *testing.T) {
	t.Parallel()

	out, err := runApp(t, writeSample(t))
	require.NoError(t, err)
	require.Equal(t, sampleBaseVariant, out)
}

func TestOutMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.c")
	second := filepath.Join(dir, "second.c")
	require.NoError(t, os.WriteFile(first, []byte(sampleSource), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("int x;\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	_, err := runApp(t, "--out", outDir, "--jobs", "2", first, second)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(outDir, "first.default.i"))
	require.NoError(t, err)
	require.Equal(t, sampleBaseVariant, string(b))

	b, err = os.ReadFile(filepath.Join(outDir, "first.FOO.i"))
	require.NoError(t, err)
	require.Equal(t, sampleFooVariant, string(b))

	b, err = os.ReadFile(filepath.Join(outDir, "second.default.i"))
	require.NoError(t, err)
	require.Equal(t, "int x;\n", string(b))
}

func TestArchiveMode(t *testing.T) {
	t.Parallel()

	archive := filepath.Join(t.TempDir(), "sample.vs")
	_, err := runApp(t, "--archive", archive, writeSample(t))
	require.NoError(t, err)

	f, err := os.Open(archive)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	decoded := artifact.New()
	require.NoError(t, decoded.Decode(f))
	require.Equal(t, []string{"", "FOO"}, decoded.Configurations())
	text, ok := decoded.Get("FOO")
	require.True(t, ok)
	require.Equal(t, sampleFooVariant, text)
}

func TestManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "many.c")
	src := "#ifdef A\na\n#endif\n#ifdef B\nb\n#endif\n#ifdef C\nc\n#endif\n"
	require.NoError(t, os.WriteFile(input, []byte(src), 0o644))

	manifestPath := filepath.Join(dir, "run.yaml")
	manifestBody := "inputs:\n  - " + input + "\nmax_configurations: 2\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestBody), 0o644))

	out, err := runApp(t, "--list", "--manifest", manifestPath)
	require.NoError(t, err)
	require.Equal(t, "\nA\n", out)
}

func TestInputValidation(t *testing.T) {
	t.Parallel()

	_, err := runApp(t)
	require.ErrorContains(t, err, "no input files")

	first := writeSample(t)
	second := writeSample(t)

	_, err = runApp(t, "--list", first, second)
	require.ErrorContains(t, err, "exactly one input")

	_, err = runApp(t, "--archive", filepath.Join(t.TempDir(), "a.vs"), first, second)
	require.ErrorContains(t, err, "exactly one input")

	_, err = runApp(t, "--list", filepath.Join(t.TempDir(), "missing.c"))
	require.ErrorContains(t, err, "open input")
}

func TestVariantFileName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name, base, cfg, want string
	}{
		{name: "unguarded", base: "a.c", cfg: "", want: "a.default.i"},
		{name: "single guard", base: "a.c", cfg: "FOO", want: "a.FOO.i"},
		{name: "joined guards", base: "a.c", cfg: "A;B", want: "a.A-B.i"},
		{name: "lax residue", base: "a.cpp", cfg: "A&&B", want: "a.A--B.i"},
		{name: "no extension", base: "header", cfg: "X", want: "header.X.i"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, variantFileName(tc.base, tc.cfg))
		})
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
