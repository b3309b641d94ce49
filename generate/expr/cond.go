/*
NAME
  cond.go - ternary conditional pre-processing.

DESCRIPTION
  Go's own grammar has no a?b:c ternary operator, so rewriteTernary rewrites
  every "cond ? then : else" in a formula into a call to the pseudo-function
  __cond__(cond, then, else) before handing the formula to go/parser. eval.go
  special-cases __cond__ to short-circuit: only the taken branch is
  evaluated, so a random() call in the untaken branch never consumes the
  PRNG stream.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package expr

import "strings"

func rewriteTernary(s string) string {
	for strings.ContainsRune(s, '?') {
		ns, changed := rewriteOnce(s)
		if !changed {
			break
		}
		s = ns
	}
	return s
}

func rewriteOnce(s string) (string, bool) {
	i := strings.IndexByte(s, '?')
	if i < 0 {
		return s, false
	}
	condStart := findSlotStart(s, i)
	colonIdx := findMatchingColon(s, i+1)
	if colonIdx < 0 {
		return s, false
	}
	elseEnd := findSlotEnd(s, colonIdx+1)

	cond := strings.TrimSpace(s[condStart:i])
	then := strings.TrimSpace(s[i+1 : colonIdx])
	els := strings.TrimSpace(s[colonIdx+1 : elseEnd])

	cond = rewriteTernary(cond)
	then = rewriteTernary(then)
	els = rewriteTernary(els)

	replacement := "__cond__(" + cond + ", " + then + ", " + els + ")"
	return s[:condStart] + replacement + s[elseEnd:], true
}

// findMatchingColon finds the first ':' at paren-depth 0 starting at start.
func findMatchingColon(s string, start int) int {
	depth := 0
	for p := start; p < len(s); p++ {
		switch s[p] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return -1
			}
			depth--
		case ':':
			if depth == 0 {
				return p
			}
		}
	}
	return -1
}

// findSlotStart scans left from i to find the start of the current
// argument/operand slot: just after the nearest enclosing '(' or ',' at
// the same depth, or the start of the string.
func findSlotStart(s string, i int) int {
	depth := 0
	for p := i - 1; p >= 0; p-- {
		switch s[p] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return p + 1
			}
			depth--
		case ',':
			if depth == 0 {
				return p + 1
			}
		}
	}
	return 0
}

// findSlotEnd scans right from start to find the end of the current
// argument/operand slot: just before the nearest enclosing ')' or ',' at
// the same depth, or the end of the string.
func findSlotEnd(s string, start int) int {
	depth := 0
	for p := start; p < len(s); p++ {
		switch s[p] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return p
			}
			depth--
		case ',':
			if depth == 0 {
				return p
			}
		}
	}
	return len(s)
}
