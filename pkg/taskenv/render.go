// SPDX-License-Identifier: MPL-2.0

package taskenv

import (
	"fmt"
	"strconv"
	"strings"

	"cycenv-cli/pkg/cyclepoint"
)

const (
	placeholderFinal      = "{point}"
	placeholderIndexOpen  = "{point["
	placeholderIndexClose = "]}"
)

// RenderPattern substitutes cycle-point placeholders into a glob pattern.
// {point} becomes the final resolution point and {point[N]} the N-th entry of
// the offset history (0 = the base cycle point), both in directory form. The
// history must be non-empty; a brace sequence that merely starts with
// "{point" but is neither placeholder form (e.g. a doublestar alternate like
// {pointA,pointB}) passes through untouched.
//
// This is the pure half of the resolution pipeline: no filesystem access.
func RenderPattern(pattern string, history []cyclepoint.CyclePoint) (string, error) {
	if len(history) == 0 {
		return "", &InvalidTemplateError{Value: pattern, Reason: "no cycle point to substitute"}
	}

	var b strings.Builder
	rest := pattern
	for {
		i := strings.Index(rest, "{point")
		if i < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:i])
		tail := rest[i:]

		switch {
		case strings.HasPrefix(tail, placeholderFinal):
			b.WriteString(history[len(history)-1].DirName())
			rest = tail[len(placeholderFinal):]

		case strings.HasPrefix(tail, placeholderIndexOpen):
			end := strings.Index(tail, placeholderIndexClose)
			if end < 0 {
				return "", &InvalidTemplateError{Value: pattern, Reason: "unterminated {point[N]} placeholder"}
			}
			idx := tail[len(placeholderIndexOpen):end]
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 || n >= len(history) {
				return "", &InvalidTemplateError{
					Value:  pattern,
					Reason: fmt.Sprintf("placeholder index %q outside offset history (0..%d)", idx, len(history)-1),
				}
			}
			b.WriteString(history[n].DirName())
			rest = tail[end+len(placeholderIndexClose):]

		default:
			// Not a placeholder; keep the literal text.
			b.WriteString("{point")
			rest = tail[len("{point"):]
		}
	}
}
