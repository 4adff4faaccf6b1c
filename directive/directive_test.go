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

package directive_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/preproc/directive"
)

func TestGetdef(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		line string
		def  bool
		want string
	}{
		{name: "ifdef", line: "#ifdef ABC", def: true, want: "ABC"},
		{name: "if", line: "#if ABC", def: true, want: "ABC"},
		{name: "elif", line: "#elif ABC", def: true, want: "ABC"},
		{name: "ifndef negative", line: "#ifndef ABC", def: false, want: "ABC"},
		{name: "ifndef not positive", line: "#ifndef ABC", def: true, want: ""},
		{name: "ifdef not negative", line: "#ifdef ABC", def: false, want: ""},
		{name: "plain line", line: "int a;", def: true, want: ""},
		{name: "compound residue", line: "#if A && B", def: true, want: "A&&B"},
		{name: "internal spaces deleted", line: "#ifdef A B", def: true, want: "AB"},
		{name: "empty residue", line: "#ifdef ", def: true, want: ""},
		{name: "no space after keyword", line: "#ifdefABC", def: true, want: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, directive.Getdef(tc.line, tc.def))
		})
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line      string
		wantKind  directive.Kind
		wantIdent string
	}{
		{line: "#ifdef A", wantKind: directive.KindIfdef, wantIdent: "A"},
		{line: "#ifndef A", wantKind: directive.KindIfndef, wantIdent: "A"},
		{line: "#if A", wantKind: directive.KindIf, wantIdent: "A"},
		{line: "#elif A", wantKind: directive.KindElif, wantIdent: "A"},
		{line: "#else", wantKind: directive.KindElse},
		{line: "#else // tail", wantKind: directive.KindElse},
		{line: "#endif", wantKind: directive.KindEndif},
		{line: "#endif tail", wantKind: directive.KindEndif},
		{line: "#define A 1", wantKind: directive.KindNone},
		{line: "#include <x.h>", wantKind: directive.KindNone},
		{line: "int a;", wantKind: directive.KindNone},
		{line: "", wantKind: directive.KindNone},
	}

	for _, tc := range testCases {
		kind, ident := directive.Scan(tc.line)
		require.Equal(t, tc.wantKind, kind, "line %q", tc.line)
		require.Equal(t, tc.wantIdent, ident, "line %q", tc.line)
	}
}

func TestAtom(t *testing.T) {
	t.Parallel()

	require.Equal(t, directive.Always, directive.ParseAtom("1"))
	require.Equal(t, directive.Never, directive.ParseAtom("0"))
	require.Equal(t, "ABC", directive.ParseAtom("ABC").String())
	require.Equal(t, "1", directive.Always.String())
	require.Equal(t, "0", directive.Never.String())

	// #else negation: the sentinels swap, a macro name becomes Never.
	require.Equal(t, directive.Never, directive.Always.Negate())
	require.Equal(t, directive.Always, directive.Never.Negate())
	require.Equal(t, directive.Never, directive.ParseAtom("ABC").Negate())
}

func TestStack(t *testing.T) {
	t.Parallel()

	var s directive.Stack
	require.Equal(t, 0, s.Len())
	require.Equal(t, "", s.Configuration())

	// Pop on empty is a no-op.
	s.Pop()
	require.Equal(t, 0, s.Len())

	s.Push(directive.ParseAtom("A"))
	s.Push(directive.Always)
	s.Push(directive.ParseAtom("B"))
	require.Equal(t, "A;B", s.Configuration())

	top, ok := s.Top()
	require.True(t, ok)
	require.Equal(t, "B", top.String())

	s.ReplaceTop(directive.Never)
	require.Equal(t, "A", s.Configuration())

	s.Push(directive.ParseAtom("C"))
	require.Equal(t, "A", s.Configuration(), "atoms after Never are unreachable")

	s.Pop()
	s.Pop()
	s.Pop()
	s.Pop()
	require.Equal(t, 0, s.Len())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
