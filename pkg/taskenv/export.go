// SPDX-License-Identifier: MPL-2.0

package taskenv

import (
	"fmt"
	"io"

	"mvdan.cc/sh/v3/syntax"
)

// WriteExports writes one shell assignment per binding, in order, to w. With
// export true each line is prefixed with "export " so the assignments are
// visible to the task's script step when the output is eval'd. Values are
// shell-quoted so emitted lines are always safe to eval, whatever the matched
// paths contain.
func (e ResolvedEnv) WriteExports(w io.Writer, export bool) error {
	for _, b := range e {
		quoted, err := syntax.Quote(b.Value, syntax.LangBash)
		if err != nil {
			return fmt.Errorf("quote value for %s: %w", b.Name, err)
		}
		if export {
			if _, err := fmt.Fprintf(w, "export %s=%s\n", b.Name, quoted); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", b.Name, quoted); err != nil {
			return err
		}
	}
	return nil
}
